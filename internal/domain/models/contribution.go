// internal/domain/models/contribution.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution is an append-only ledger entry against a member.
// Entries are never mutated; corrections are new entries.
type Contribution struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID  primitive.ObjectID `bson:"member_id" json:"member_id"`
	Amount    int64              `bson:"amount" json:"amount"` // whole pesos
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
