// internal/domain/models/account.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Account is a login identity for the portal. Member accounts link to their
// roster record via MemberID; admin accounts usually have no roster record.
type Account struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email        string              `bson:"email" json:"email"` // lowercased, unique
	PasswordHash string              `bson:"password_hash,omitempty" json:"-"`
	Role         string              `bson:"role" json:"role"` // admin | member
	Status       string              `bson:"status" json:"status"`
	MemberID     *primitive.ObjectID `bson:"member_id,omitempty" json:"member_id,omitempty"`
	GoogleSub    string              `bson:"google_sub,omitempty" json:"-"` // set when the account signed in with Google

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
