package accountstore

import (
	"errors"
	"testing"

	"github.com/kapatiranph/portal/internal/app/system/auth"
	"github.com/kapatiranph/portal/internal/domain/models"
	"github.com/kapatiranph/portal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newStore(t *testing.T) (*Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	s := New(db)
	if err := s.EnsureIndexes(testutil.TestContext(t)); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return s, db
}

func TestCreate_NormalizesEmailAndHashesPassword(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	a, err := s.Create(ctx, "  Admin@Example.COM ", "hunter2hunter2", models.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Email != "admin@example.com" {
		t.Errorf("email: got %q", a.Email)
	}
	if a.PasswordHash == "" || a.PasswordHash == "hunter2hunter2" {
		t.Error("password must be stored hashed")
	}
	if a.Status != "active" {
		t.Errorf("status: got %q", a.Status)
	}
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	if _, err := s.Create(ctx, "x@example.com", "pw", "superadmin", nil); err == nil {
		t.Error("expected an error for unknown role")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	if _, err := s.Create(ctx, "a@example.com", "pw1pw1pw1", models.RoleMember, nil); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := s.Create(ctx, "A@example.com", "pw2pw2pw2", models.RoleMember, nil)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	s, db := newStore(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, "juan@example.com", "correct horse", models.RoleMember, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	a, err := s.Authenticate(ctx, "Juan@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if a.ID != created.ID {
		t.Error("authenticated the wrong account")
	}

	if _, err := s.Authenticate(ctx, "juan@example.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("wrong password: expected ErrBadCredentials, got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("unknown email: expected ErrBadCredentials, got %v", err)
	}

	// Disabled accounts authenticate exactly like unknown ones.
	_, err = db.Collection("accounts").UpdateOne(ctx,
		bson.M{"_id": created.ID}, bson.M{"$set": bson.M{"status": "disabled"}})
	if err != nil {
		t.Fatalf("disable account: %v", err)
	}
	if _, err := s.Authenticate(ctx, "juan@example.com", "correct horse"); !errors.Is(err, ErrBadCredentials) {
		t.Errorf("disabled account: expected ErrBadCredentials, got %v", err)
	}
}

func TestGoogleSubLinking(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, "juan@example.com", "pw-pw-pw-pw", models.RoleMember, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.GetByGoogleSub(ctx, "sub-123"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before linking, got %v", err)
	}

	if err := s.AttachGoogleSub(ctx, created.ID, "sub-123"); err != nil {
		t.Fatalf("AttachGoogleSub: %v", err)
	}

	got, err := s.GetByGoogleSub(ctx, "sub-123")
	if err != nil {
		t.Fatalf("GetByGoogleSub: %v", err)
	}
	if got.ID != created.ID {
		t.Error("linked subject resolved to the wrong account")
	}
}

func TestSetPassword(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, "juan@example.com", "old password", models.RoleMember, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SetPassword(ctx, created.ID, "new password"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if _, err := s.Authenticate(ctx, "juan@example.com", "old password"); !errors.Is(err, ErrBadCredentials) {
		t.Error("old password should stop working")
	}
	if _, err := s.Authenticate(ctx, "juan@example.com", "new password"); err != nil {
		t.Errorf("new password should work, got %v", err)
	}

	if err := s.SetPassword(ctx, primitive.NewObjectID(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing account: expected ErrNotFound, got %v", err)
	}
}

func TestFetcher(t *testing.T) {
	s, db := newStore(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	m := fx.CreateMember(ctx, "Juan", "Dela Cruz", "juan@example.com")
	created, err := s.Create(ctx, "juan@example.com", "pw-pw-pw-pw", models.RoleMember, &m.ID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f := NewFetcher(db)
	su := f.FetchUser(ctx, created.ID.Hex())
	if su == nil {
		t.Fatal("expected a session user")
	}
	if su.Role != auth.RoleMember || su.MemberID != m.ID.Hex() {
		t.Errorf("session user: got %+v", su)
	}
	if su.Name != "Juan Dela Cruz" {
		t.Errorf("name should come from the roster record, got %q", su.Name)
	}

	if su := f.FetchUser(ctx, "not-a-hex-id"); su != nil {
		t.Error("malformed id should fetch nil")
	}
	if su := f.FetchUser(ctx, primitive.NewObjectID().Hex()); su != nil {
		t.Error("unknown id should fetch nil")
	}

	// Disabling the account invalidates future fetches.
	_, err = db.Collection("accounts").UpdateOne(ctx,
		bson.M{"_id": created.ID}, bson.M{"$set": bson.M{"status": "disabled"}})
	if err != nil {
		t.Fatalf("disable account: %v", err)
	}
	if su := f.FetchUser(ctx, created.ID.Hex()); su != nil {
		t.Error("disabled account should fetch nil")
	}
}
