// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member statuses. "New" and "Pending" are treated as disjoint from "Active"
// in dashboard counts; that rule comes from the chapter's reporting sheet.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusNew      = "New"
	StatusPending  = "Pending"
)

// Member is the chapter roster record. Members are never hard-deleted;
// departures are recorded by flipping Status to Inactive.
//
// The JSON tags follow the field names the existing mobile client already
// sends and expects (firstname, name_extensions, datajoined, …).
type Member struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName     string             `bson:"first_name" json:"firstname"`
	MiddleName    string             `bson:"middle_name,omitempty" json:"middlename,omitempty"`
	LastName      string             `bson:"last_name" json:"lastname"`
	NameExtension string             `bson:"name_extension,omitempty" json:"name_extensions,omitempty"` // Jr., III, …
	FullNameCI    string             `bson:"full_name_ci" json:"-"`                                     // lowercase, diacritics-stripped
	Age           int                `bson:"age" json:"age"`
	Address       string             `bson:"address" json:"address"`
	Email         string             `bson:"email" json:"email"`
	Contact       string             `bson:"contact" json:"contact"`
	Status        string             `bson:"status" json:"status"` // Active | Inactive | New | Pending
	DateJoined    string             `bson:"date_joined" json:"datajoined"`
	Position      string             `bson:"position" json:"position"`
	Contribution  int                `bson:"contribution" json:"contribution"` // running total, centavos handled upstream
	Absences      int                `bson:"absences" json:"absences"`
	Profession    string             `bson:"profession" json:"profession"`
	Feedback      string             `bson:"feedback,omitempty" json:"feedback,omitempty"`

	// Independently editable sub-groups (admin edit modals).
	Skills        []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Hobbies       []string `bson:"hobbies,omitempty" json:"hobbies,omitempty"`
	BusinessInfo  string   `bson:"business_info,omitempty" json:"business_info,omitempty"`
	EducationInfo string   `bson:"education_info,omitempty" json:"education_info,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName assembles the display name including the optional middle name
// and name extension.
func (m *Member) FullName() string {
	name := m.FirstName
	if m.MiddleName != "" {
		name += " " + m.MiddleName
	}
	name += " " + m.LastName
	if m.NameExtension != "" {
		name += " " + m.NameExtension
	}
	return name
}
