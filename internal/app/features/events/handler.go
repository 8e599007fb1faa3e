// internal/app/features/events/handler.go
package events

import (
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	eventstore "github.com/kapatiranph/portal/internal/app/store/events"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin event screens: schedule management, attendance
// sheets, and member feedback.
type Handler struct {
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Events     *eventstore.Store
	Attendance *eventstore.AttendanceStore
	Members    *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		ErrLog:     errLog,
		Events:     eventstore.New(db),
		Attendance: eventstore.NewAttendance(db),
		Members:    memberstore.New(db),
	}
}
