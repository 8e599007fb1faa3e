package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMember inserts an active roster record with sensible defaults.
func (f *Fixtures) CreateMember(ctx context.Context, firstName, lastName, email string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:         primitive.NewObjectID(),
		FirstName:  firstName,
		LastName:   lastName,
		FullNameCI: text.Fold(firstName + " " + lastName),
		Age:        30,
		Address:    "123 Test St, Quezon City",
		Email:      email,
		Contact:    "+639170000000",
		Status:     models.StatusActive,
		DateJoined: "2020-01-15",
		Position:   "Member",
		Profession: "Engineer",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateMemberWithStatus inserts a roster record with the given status.
func (f *Fixtures) CreateMemberWithStatus(ctx context.Context, firstName, lastName, email, status string) models.Member {
	f.t.Helper()

	m := f.CreateMember(ctx, firstName, lastName, email)
	if status != models.StatusActive {
		_, err := f.db.Collection("members").UpdateByID(ctx, m.ID,
			map[string]any{"$set": map[string]any{"status": status}})
		if err != nil {
			f.t.Fatalf("failed to set member status: %v", err)
		}
		m.Status = status
	}
	return m
}

// CreateAdminAccount inserts an admin login account.
func (f *Fixtures) CreateAdminAccount(ctx context.Context, email, password string) models.Account {
	f.t.Helper()
	return f.createAccount(ctx, email, password, models.RoleAdmin, nil)
}

// CreateMemberAccount inserts a member login account linked to a roster record.
func (f *Fixtures) CreateMemberAccount(ctx context.Context, email, password string, memberID primitive.ObjectID) models.Account {
	f.t.Helper()
	return f.createAccount(ctx, email, password, models.RoleMember, &memberID)
}

func (f *Fixtures) createAccount(ctx context.Context, email, password, role string, memberID *primitive.ObjectID) models.Account {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	acct := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		MemberID:     memberID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("accounts").InsertOne(ctx, acct); err != nil {
		f.t.Fatalf("failed to create test account: %v", err)
	}
	return acct
}

// CreateEvent inserts an event on the given date with a fixed window.
func (f *Fixtures) CreateEvent(ctx context.Context, name, date string) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	ev := models.Event{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Date:           date,
		StartTime:      "18:00",
		EndTime:        "21:00",
		AttendanceCode: "TEST" + primitive.NewObjectID().Hex()[:4],
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}

// CreateContribution inserts a ledger entry at the given time.
func (f *Fixtures) CreateContribution(ctx context.Context, memberID primitive.ObjectID, amount int64, at time.Time) models.Contribution {
	f.t.Helper()

	c := models.Contribution{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		Amount:    amount,
		CreatedAt: at.UTC(),
	}

	if _, err := f.db.Collection("contributions").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test contribution: %v", err)
	}
	return c
}
