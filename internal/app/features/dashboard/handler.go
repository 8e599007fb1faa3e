// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	contributions "github.com/kapatiranph/portal/internal/app/store/contributions"
	events "github.com/kapatiranph/portal/internal/app/store/events"
	members "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/charts"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler serves the admin dashboard: membership status breakdown,
// contribution totals for the year, and events happening right now.
type Handler struct {
	Members       *members.Store
	Events        *events.Store
	Attendance    *events.AttendanceStore
	Contributions *contributions.Store
	ErrLog        *uierrors.ErrorLogger
	Log           *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewHandler(
	memberStore *members.Store,
	eventStore *events.Store,
	attendance *events.AttendanceStore,
	contribStore *contributions.Store,
	errLog *uierrors.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Members:       memberStore,
		Events:        eventStore,
		Attendance:    attendance,
		Contributions: contribStore,
		ErrLog:        errLog,
		Log:           logger,
		now:           time.Now,
	}
}

type liveEventVM struct {
	ID        string
	Name      string
	StartTime string
	EndTime   string
	Attendees int64
}

type dashboardData struct {
	viewdata.BaseVM
	StatusSlices    []charts.PieSlice
	QuarterlyTotals []charts.QuarterPoint
	AnnualTotal     int64
	Year            int
	LiveEvents      []liveEventVM
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal – admin dashboard                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	res := gates.RequireAdmin(w, r, "Only administrators can view the dashboard.", "/")
	if !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	now := h.now()
	year := now.Year()

	data := dashboardData{
		BaseVM: viewdata.NewBaseVM(r, "Dashboard", "/portal"),
		Year:   year,
	}

	counts, err := h.Members.StatusCounts(ctx)
	if err != nil {
		h.ErrLog.LogError(r, "load member status counts", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}
	data.StatusSlices = charts.ToPieSlices(counts)

	totals, err := h.Contributions.QuarterlyTotals(ctx, year)
	if err != nil {
		h.ErrLog.LogError(r, "load quarterly contributions", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}
	data.QuarterlyTotals = charts.ToQuarterlySeries(totals)
	for _, q := range data.QuarterlyTotals {
		data.AnnualTotal += q.Value
	}

	live, err := h.liveEvents(ctx, now)
	if err != nil {
		// The dashboard is still useful without the live list.
		h.ErrLog.LogError(r, "load live events", err)
	} else {
		data.LiveEvents = live
	}

	templates.Render(w, r, "dashboard", data)
}

// liveEvents returns events whose window contains now, with their current
// attendance counts.
func (h *Handler) liveEvents(ctx context.Context, now time.Time) ([]liveEventVM, error) {
	all, err := h.Events.List(ctx)
	if err != nil {
		return nil, err
	}

	var live []liveEventVM
	for i := range all {
		ev := &all[i]
		if !ev.HappeningNow(now) {
			continue
		}
		count, err := h.Attendance.CountForEvent(ctx, ev.ID)
		if err != nil {
			return nil, err
		}
		live = append(live, liveEventVM{
			ID:        ev.ID.Hex(),
			Name:      ev.Name,
			StartTime: ev.StartTime,
			EndTime:   ev.EndTime,
			Attendees: count,
		})
	}
	return live, nil
}
