// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/kapatiranph/portal/internal/app/system/normalize"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateEmail is returned when an account email already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrNotFound is returned when no account matches.
	ErrNotFound = errors.New("account not found")
	// ErrBadCredentials is returned for a wrong email/password pair.
	// Callers must not distinguish "no such account" from "wrong password".
	ErrBadCredentials = errors.New("invalid email or password")

	errBadRole = errors.New(`role must be "admin"|"member"`)
)

// Store manages portal login accounts.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// EnsureIndexes creates the unique email index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_accounts_email").SetUnique(true),
	})
	return err
}

// Create inserts a new account with a bcrypt hash of password.
func (s *Store) Create(ctx context.Context, email, password, role string, memberID *primitive.ObjectID) (models.Account, error) {
	switch role {
	case models.RoleAdmin, models.RoleMember:
	default:
		return models.Account{}, errBadRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	a := models.Account{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(email),
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
		MemberID:     memberID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

// GetByID loads an account by id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByEmail loads an account by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Authenticate checks an email/password pair against the stored hash.
// Disabled accounts and unknown emails both come back as ErrBadCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if a.Status != "active" || a.PasswordHash == "" {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return a, nil
}

// GetByGoogleSub loads the account linked to a Google subject id.
func (s *Store) GetByGoogleSub(ctx context.Context, sub string) (*models.Account, error) {
	var a models.Account
	if err := s.c.FindOne(ctx, bson.M{"google_sub": sub}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// AttachGoogleSub links a Google subject to an existing account so the next
// Google sign-in resolves directly.
func (s *Store) AttachGoogleSub(ctx context.Context, id primitive.ObjectID, sub string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"google_sub": sub,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetPassword replaces the account's password hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
