// internal/app/features/portalmember/handler.go
package portalmember

import (
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	contribstore "github.com/kapatiranph/portal/internal/app/store/contributions"
	eventstore "github.com/kapatiranph/portal/internal/app/store/events"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the member self-service portal: own profile, the event
// list with attendance-code entry, and the member's contribution history.
type Handler struct {
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	Members       *memberstore.Store
	Events        *eventstore.Store
	Attendance    *eventstore.AttendanceStore
	Contributions *contribstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		ErrLog:        errLog,
		Members:       memberstore.New(db),
		Events:        eventstore.New(db),
		Attendance:    eventstore.NewAttendance(db),
		Contributions: contribstore.New(db),
	}
}
