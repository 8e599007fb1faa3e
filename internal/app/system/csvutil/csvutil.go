// internal/app/system/csvutil/csvutil.go

// Package csvutil renders roster data as CSV for download.
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/kapatiranph/portal/internal/domain/models"
)

// memberHeader is the column order for roster exports. Spreadsheet users
// depend on it, so append new columns rather than reordering.
var memberHeader = []string{
	"Name", "Email", "Contact", "Age", "Address",
	"Status", "Position", "Date Joined", "Profession",
	"Contribution", "Absences", "Skills", "Hobbies",
}

// WriteMembers writes the roster as CSV, header row first.
func WriteMembers(w io.Writer, members []models.Member) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(memberHeader); err != nil {
		return err
	}
	for i := range members {
		m := &members[i]
		row := []string{
			m.FullName(),
			m.Email,
			m.Contact,
			strconv.Itoa(m.Age),
			m.Address,
			m.Status,
			m.Position,
			m.DateJoined,
			m.Profession,
			strconv.Itoa(m.Contribution),
			strconv.Itoa(m.Absences),
			strings.Join(m.Skills, "; "),
			strings.Join(m.Hobbies, "; "),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
