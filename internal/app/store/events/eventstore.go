// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"github.com/kapatiranph/portal/internal/app/system/normalize"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when an id has no event.
	ErrNotFound = errors.New("event not found")
	// ErrBadCode is returned when an attendance code matches no event.
	ErrBadCode = errors.New("attendance code does not match any event")

	// ErrMissingFields is returned when a new event lacks required fields.
	ErrMissingFields = errors.New("event needs name, date, start time, and end time")
)

// Store manages events. Unlike members, events can be deleted.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// EnsureIndexes creates the attendance-code and date indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "attendance_code", Value: 1}},
			Options: options.Index().SetName("idx_events_code").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_events_date"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts an event and assigns it a fresh attendance code.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.Name = normalize.Name(e.Name)
	if e.Name == "" || e.Date == "" || e.StartTime == "" || e.EndTime == "" {
		return models.Event{}, ErrMissingFields
	}

	e.ID = primitive.NewObjectID()
	e.NameCI = text.Fold(e.Name)
	e.AttendanceCode = newAttendanceCode()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// newAttendanceCode derives a short member-typable code from a uuid.
func newAttendanceCode() string {
	id := uuid.NewString()
	return strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

// GetByID loads one event.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// GetByCode resolves an attendance code typed by a member.
func (s *Store) GetByCode(ctx context.Context, code string) (*models.Event, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"attendance_code": code}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBadCode
		}
		return nil, err
	}
	return &e, nil
}

// List returns all events, newest date first.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update holds the editable event fields.
type Update struct {
	Name      *string
	Date      *string
	StartTime *string
	EndTime   *string
	ImageURL  *string
}

// Apply merges the provided fields and returns the updated event.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, u Update) (*models.Event, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil {
		name := normalize.Name(*u.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if u.Date != nil {
		set["date"] = strings.TrimSpace(*u.Date)
	}
	if u.StartTime != nil {
		set["start_time"] = strings.TrimSpace(*u.StartTime)
	}
	if u.EndTime != nil {
		set["end_time"] = strings.TrimSpace(*u.EndTime)
	}
	if u.ImageURL != nil {
		set["image_url"] = strings.TrimSpace(*u.ImageURL)
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e models.Event
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, after).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Delete removes an event. Attendance and feedback entries are kept for the
// record; they reference the event id.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
