// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a chapter event members can attend.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Date           string             `bson:"date" json:"date"`             // YYYY-MM-DD
	StartTime      string             `bson:"start_time" json:"startTime"`  // HH:MM, 24h
	EndTime        string             `bson:"end_time" json:"endTime"`      // HH:MM, 24h
	ImageURL       string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	AttendanceCode string             `bson:"attendance_code" json:"attendanceCode"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Window returns the event's start and end instants in loc, or ok=false when
// the stored date/time strings do not parse.
func (e *Event) Window(loc *time.Location) (start, end time.Time, ok bool) {
	start, err := time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.ParseInLocation("2006-01-02 15:04", e.Date+" "+e.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// HappeningNow reports whether now falls inside the event window.
func (e *Event) HappeningNow(now time.Time) bool {
	start, end, ok := e.Window(now.Location())
	if !ok {
		return false
	}
	return !now.Before(start) && now.Before(end)
}

// Attendance records that a member attended an event.
// (event_id, member_id) is unique; writing twice is a no-op.
type Attendance struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID    primitive.ObjectID `bson:"event_id" json:"event_id"`
	MemberID   primitive.ObjectID `bson:"member_id" json:"member_id"`
	RecordedAt time.Time          `bson:"recorded_at" json:"recorded_at"`
}

// EventFeedback is a member's feedback on an event, one entry per
// (event, member).
type EventFeedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	MemberID  primitive.ObjectID `bson:"member_id" json:"member_id"`
	Text      string             `bson:"text" json:"text"` // sanitized before storage
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
