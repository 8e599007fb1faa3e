// internal/app/features/members/types.go
package members

import (
	"net/http"
	"strconv"
	"strings"

	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/kapatiranph/portal/internal/domain/models"
)

// memberRowVM is one row of the roster table.
type memberRowVM struct {
	ID       string
	FullName string
	Email    string
	Status   string
	Position string
}

type listData struct {
	viewdata.BaseVM
	Members []memberRowVM
	Query   string
}

type formData struct {
	viewdata.BaseVM
	Member models.Member
	Errors []string
	IsEdit bool
}

type viewData struct {
	viewdata.BaseVM
	Member   models.Member
	Messages []string
}

// memberFromForm reads the creation form into a Member. Field names match
// the JSON API so the two entry paths validate identically.
func memberFromForm(r *http.Request) models.Member {
	age, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("age")))
	return models.Member{
		FirstName:     r.FormValue("firstname"),
		MiddleName:    r.FormValue("middlename"),
		LastName:      r.FormValue("lastname"),
		NameExtension: r.FormValue("name_extensions"),
		Age:           age,
		Address:       r.FormValue("address"),
		Email:         r.FormValue("email"),
		Contact:       r.FormValue("contact"),
		Status:        r.FormValue("status"),
		DateJoined:    r.FormValue("datajoined"),
		Position:      r.FormValue("position"),
		Profession:    r.FormValue("profession"),
		Feedback:      r.FormValue("feedback"),
	}
}

// updateFromForm reads the edit form into a partial Update. Only fields
// present in the form are set; checkbox-style groups come in as their own
// modals and post only their fields.
func updateFromForm(r *http.Request) memberstore.Update {
	var u memberstore.Update

	str := func(name string) *string {
		if !r.Form.Has(name) {
			return nil
		}
		v := r.FormValue(name)
		return &v
	}
	num := func(name string) *int {
		if !r.Form.Has(name) {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(r.FormValue(name)))
		if err != nil {
			return nil
		}
		return &n
	}

	u.FirstName = str("firstname")
	u.MiddleName = str("middlename")
	u.LastName = str("lastname")
	u.NameExtension = str("name_extensions")
	u.Age = num("age")
	u.Address = str("address")
	u.Email = str("email")
	u.Contact = str("contact")
	u.Status = str("status")
	u.DateJoined = str("datajoined")
	u.Position = str("position")
	u.Absences = num("absences")
	u.Profession = str("profession")
	u.Feedback = str("feedback")
	u.BusinessInfo = str("business_info")
	u.EducationInfo = str("education_info")

	if r.Form.Has("skills") {
		v := splitList(r.FormValue("skills"))
		u.Skills = &v
	}
	if r.Form.Has("hobbies") {
		v := splitList(r.FormValue("hobbies"))
		u.Hobbies = &v
	}
	return u
}

// splitList turns a comma-separated field into a trimmed slice.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toRows(list []models.Member) []memberRowVM {
	rows := make([]memberRowVM, 0, len(list))
	for i := range list {
		m := &list[i]
		rows = append(rows, memberRowVM{
			ID:       m.ID.Hex(),
			FullName: m.FullName(),
			Email:    m.Email,
			Status:   m.Status,
			Position: m.Position,
		})
	}
	return rows
}
