// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dalemusser/waffle/pantry/validate"
	"github.com/kapatiranph/portal/internal/app/system/charts"
	"github.com/kapatiranph/portal/internal/app/system/htmlsanitize"
	"github.com/kapatiranph/portal/internal/app/system/normalize"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when an id has no member record.
var ErrNotFound = errors.New("member not found")

// ValidationError lists the fields that were missing or malformed on create.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid member: " + strings.Join(e.Fields, ", ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var validStatuses = map[string]bool{
	models.StatusActive:   true,
	models.StatusInactive: true,
	models.StatusNew:      true,
	models.StatusPending:  true,
}

// Store is the record access layer over the members collection.
// Members have no delete operation: departures flip Status to Inactive.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("members")}
}

// EnsureIndexes creates the unique email index and the name index the admin
// list searches on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_members_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "full_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_members_name"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_members_status"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a new member after normalizing and validating fields.
// Missing or malformed required fields come back as a *ValidationError
// naming every offending field; nothing is stored in that case.
func (s *Store) Create(ctx context.Context, m models.Member) (models.Member, error) {
	m.FirstName = normalize.Name(m.FirstName)
	m.MiddleName = normalize.Name(m.MiddleName)
	m.LastName = normalize.Name(m.LastName)
	m.NameExtension = normalize.Name(m.NameExtension)
	m.Email = normalize.Email(m.Email)
	m.Contact = normalize.Phone(m.Contact)
	m.Feedback = htmlsanitize.PlainText(m.Feedback)

	var missing []string
	req := []struct {
		name, val string
	}{
		{"firstname", m.FirstName},
		{"lastname", m.LastName},
		{"address", m.Address},
		{"email", m.Email},
		{"contact", m.Contact},
		{"status", m.Status},
		{"datajoined", m.DateJoined},
		{"position", m.Position},
		{"profession", m.Profession},
	}
	for _, f := range req {
		if f.val == "" {
			missing = append(missing, f.name)
		}
	}
	if m.Age <= 0 {
		missing = append(missing, "age")
	}
	if m.Email != "" && !validate.SimpleEmailValid(m.Email) {
		missing = append(missing, "email")
	}
	if m.Status != "" && !validStatuses[m.Status] {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return models.Member{}, &ValidationError{Fields: missing}
	}

	m.ID = primitive.NewObjectID()
	m.FullNameCI = text.Fold(m.FirstName + " " + m.LastName)
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, &ValidationError{Fields: []string{"email"}}
		}
		return models.Member{}, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

// GetByID loads one member. ErrNotFound when the id has no record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var m models.Member
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns every member, unordered. The roster of a single chapter is
// small enough that this full scan is acceptable; there is deliberately no
// pagination on this surface.
func (s *Store) List(ctx context.Context) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Search returns members whose folded full name starts with q, ordered by
// name. Empty q lists everyone ordered by name.
func (s *Store) Search(ctx context.Context, q string) ([]models.Member, error) {
	filter := bson.M{}
	if q = strings.TrimSpace(q); q != "" {
		folded := text.Fold(q)
		filter["full_name_ci"] = bson.M{"$gte": folded, "$lt": folded + "￿"}
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update holds the independently editable field groups for partial updates.
// Nil pointers leave the stored value untouched; updates are last-write-wins
// with no concurrency token.
type Update struct {
	FirstName     *string
	MiddleName    *string
	LastName      *string
	NameExtension *string
	Age           *int
	Address       *string
	Email         *string
	Contact       *string
	Status        *string
	DateJoined    *string
	Position      *string
	Contribution  *int
	Absences      *int
	Profession    *string
	Feedback      *string
	Skills        *[]string
	Hobbies       *[]string
	BusinessInfo  *string
	EducationInfo *string
}

// Apply merges the provided fields into the member record and returns the
// updated document. The id itself is immutable.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, u Update) (*models.Member, error) {
	set := bson.M{"updated_at": time.Now().UTC()}

	nameChanged := false
	setStr := func(key string, v *string, norm func(string) string) {
		if v != nil {
			set[key] = norm(*v)
		}
	}
	setStr("first_name", u.FirstName, normalize.Name)
	setStr("middle_name", u.MiddleName, normalize.Name)
	setStr("last_name", u.LastName, normalize.Name)
	setStr("name_extension", u.NameExtension, normalize.Name)
	setStr("address", u.Address, strings.TrimSpace)
	setStr("email", u.Email, normalize.Email)
	setStr("contact", u.Contact, normalize.Phone)
	setStr("status", u.Status, strings.TrimSpace)
	setStr("date_joined", u.DateJoined, strings.TrimSpace)
	setStr("position", u.Position, strings.TrimSpace)
	setStr("profession", u.Profession, strings.TrimSpace)
	setStr("feedback", u.Feedback, htmlsanitize.PlainText)
	setStr("business_info", u.BusinessInfo, strings.TrimSpace)
	setStr("education_info", u.EducationInfo, strings.TrimSpace)
	if u.Age != nil {
		set["age"] = *u.Age
	}
	if u.Contribution != nil {
		set["contribution"] = *u.Contribution
	}
	if u.Absences != nil {
		set["absences"] = *u.Absences
	}
	if u.Skills != nil {
		set["skills"] = *u.Skills
	}
	if u.Hobbies != nil {
		set["hobbies"] = *u.Hobbies
	}
	if u.FirstName != nil || u.LastName != nil {
		nameChanged = true
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Member
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, after).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if wafflemongo.IsDup(err) {
			return nil, &ValidationError{Fields: []string{"email"}}
		}
		return nil, err
	}

	// Name changes invalidate the folded search key; recompute from the
	// stored document so partial updates stay consistent.
	if nameChanged {
		folded := text.Fold(m.FirstName + " " + m.LastName)
		if folded != m.FullNameCI {
			m.FullNameCI = folded
			_, err = s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"full_name_ci": folded}})
			if err != nil {
				return nil, err
			}
		}
	}
	return &m, nil
}

// StatusCounts aggregates membership counts for the dashboard pie.
func (s *Store) StatusCounts(ctx context.Context) (charts.StatusCounts, error) {
	cur, err := s.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return charts.StatusCounts{}, err
	}
	defer cur.Close(ctx)

	var counts charts.StatusCounts
	for cur.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return charts.StatusCounts{}, err
		}
		counts.Overall += row.Count
		switch row.Status {
		case models.StatusActive:
			counts.Active += row.Count
		case models.StatusNew:
			counts.New += row.Count
		case models.StatusPending:
			counts.Pending += row.Count
		}
	}
	return counts, cur.Err()
}
