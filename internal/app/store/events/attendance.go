// internal/app/store/events/attendance.go
package eventstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/kapatiranph/portal/internal/app/system/htmlsanitize"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AttendanceStore records attendance and feedback, both keyed by
// (event id, member id).
type AttendanceStore struct {
	attendance *mongo.Collection
	feedback   *mongo.Collection
}

func NewAttendance(db *mongo.Database) *AttendanceStore {
	return &AttendanceStore{
		attendance: db.Collection("event_attendance"),
		feedback:   db.Collection("event_feedback"),
	}
}

// EnsureIndexes creates the unique (event, member) indexes.
func (s *AttendanceStore) EnsureIndexes(ctx context.Context) error {
	key := bson.D{{Key: "event_id", Value: 1}, {Key: "member_id", Value: 1}}
	if _, err := s.attendance.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    key,
		Options: options.Index().SetName("idx_attendance_event_member").SetUnique(true),
	}); err != nil {
		return err
	}
	_, err := s.feedback.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    key,
		Options: options.Index().SetName("idx_feedback_event_member").SetUnique(true),
	})
	return err
}

// Mark records a member's attendance. Marking twice is a no-op, not an error.
func (s *AttendanceStore) Mark(ctx context.Context, eventID, memberID primitive.ObjectID) error {
	_, err := s.attendance.InsertOne(ctx, models.Attendance{
		ID:         primitive.NewObjectID(),
		EventID:    eventID,
		MemberID:   memberID,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil && !wafflemongo.IsDup(err) {
		return err
	}
	return nil
}

// HasAttended reports whether the member is marked for the event.
func (s *AttendanceStore) HasAttended(ctx context.Context, eventID, memberID primitive.ObjectID) (bool, error) {
	n, err := s.attendance.CountDocuments(ctx, bson.M{"event_id": eventID, "member_id": memberID})
	return n > 0, err
}

// CountForEvent returns how many members attended the event.
func (s *AttendanceStore) CountForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.attendance.CountDocuments(ctx, bson.M{"event_id": eventID})
}

// ListForEvent returns the attendance entries of one event.
func (s *AttendanceStore) ListForEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.Attendance, error) {
	cur, err := s.attendance.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Attendance
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveFeedback upserts a member's feedback for an event. The text is
// stripped to plain text before storage.
func (s *AttendanceStore) SaveFeedback(ctx context.Context, eventID, memberID primitive.ObjectID, textIn string) error {
	clean := htmlsanitize.PlainText(textIn)
	_, err := s.feedback.UpdateOne(ctx,
		bson.M{"event_id": eventID, "member_id": memberID},
		bson.M{
			"$set":         bson.M{"text": clean},
			"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// ListFeedback returns all feedback entries for an event.
func (s *AttendanceStore) ListFeedback(ctx context.Context, eventID primitive.ObjectID) ([]models.EventFeedback, error) {
	cur, err := s.feedback.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EventFeedback
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
