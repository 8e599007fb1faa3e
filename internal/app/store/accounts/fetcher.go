// internal/app/store/accounts/fetcher.go
package accountstore

import (
	"context"

	"github.com/kapatiranph/portal/internal/app/system/auth"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fetcher implements auth.UserFetcher so the session middleware loads fresh
// account data per request: role changes and disabled accounts take effect
// immediately instead of living on inside a 7-day token.
type Fetcher struct {
	accounts *mongo.Collection
	members  *mongo.Collection
}

// NewFetcher creates a UserFetcher backed by the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{
		accounts: db.Collection("accounts"),
		members:  db.Collection("members"),
	}
}

// FetchUser returns nil if the account is missing, disabled, or the lookup
// fails; the request is then treated as unauthenticated.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var a models.Account
	if err := f.accounts.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		return nil
	}
	if a.Status != "active" {
		return nil
	}

	su := &auth.SessionUser{
		ID:    a.ID.Hex(),
		Email: a.Email,
		Name:  a.Email,
		Role:  a.Role,
	}
	if a.Role == "" {
		su.Role = auth.DefaultRole
	}
	if a.MemberID != nil {
		su.MemberID = a.MemberID.Hex()
		var m models.Member
		if err := f.members.FindOne(ctx, bson.M{"_id": *a.MemberID}).Decode(&m); err == nil {
			su.Name = m.FullName()
		}
	}
	return su
}
