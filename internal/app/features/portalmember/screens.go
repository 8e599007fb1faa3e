// internal/app/features/portalmember/screens.go
package portalmember

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	eventstore "github.com/kapatiranph/portal/internal/app/store/events"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/authz"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type profileData struct {
	viewdata.BaseVM
	Member      models.Member
	AnnualTotal int64
	Year        int
}

type memberEventVM struct {
	ID           string
	Name         string
	Date         string
	StartTime    string
	EndTime      string
	HappeningNow bool
	Attended     bool
}

type eventsData struct {
	viewdata.BaseVM
	Events  []memberEventVM
	Message string
	Error   string
}

type contributionVM struct {
	Amount int64
	Date   string
}

type contributionsData struct {
	viewdata.BaseVM
	Entries     []contributionVM
	Total       int64
	AnnualTotal int64
	Year        int
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal-member – own profile                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireMember(w, r, "This area is for members.", "/"); !res.OK {
		return
	}
	memberID := authz.MemberID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			uierrors.RenderForbidden(w, r, "Your member record could not be found.", "/")
			return
		}
		h.ErrLog.LogError(r, "load own member record", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	year := time.Now().Year()
	annual, err := h.memberAnnualTotal(ctx, memberID, year)
	if err != nil {
		h.ErrLog.LogError(r, "load own annual total", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "member_profile", profileData{
		BaseVM:      viewdata.NewBaseVM(r, "My Profile", "/portal-member"),
		Member:      *m,
		AnnualTotal: annual,
		Year:        year,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal-member/events – list with attendance state                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireMember(w, r, "This area is for members.", "/"); !res.OK {
		return
	}
	h.renderEvents(w, r, "", "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /portal-member/events/attend – redeem an attendance code               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAttend(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireMember(w, r, "This area is for members.", "/"); !res.OK {
		return
	}
	memberID := authz.MemberID(r)

	if err := r.ParseForm(); err != nil {
		h.renderEvents(w, r, "", "Invalid form data.")
		return
	}

	code := strings.ToUpper(strings.TrimSpace(r.FormValue("code")))
	if code == "" {
		h.renderEvents(w, r, "", "Enter the attendance code announced at the event.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, eventstore.ErrBadCode) {
			h.renderEvents(w, r, "", "That code does not match any event.")
			return
		}
		h.ErrLog.LogError(r, "look up attendance code", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	// Codes only work while the event is in progress.
	if !ev.HappeningNow(time.Now()) {
		h.renderEvents(w, r, "", "That event is not in progress right now.")
		return
	}

	if err := h.Attendance.Mark(ctx, ev.ID, memberID); err != nil {
		h.ErrLog.LogError(r, "mark attendance", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	h.Log.Info("attendance recorded",
		zap.String("event_id", ev.ID.Hex()),
		zap.String("member_id", memberID.Hex()))

	// Optional feedback rides along with the code form.
	if fb := strings.TrimSpace(r.FormValue("feedback")); fb != "" {
		if err := h.Attendance.SaveFeedback(ctx, ev.ID, memberID, fb); err != nil {
			h.ErrLog.LogError(r, "save event feedback", err)
		}
	}

	h.renderEvents(w, r, "You are marked present for "+ev.Name+".", "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal-member/contributions – own ledger                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeContributions(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireMember(w, r, "This area is for members.", "/"); !res.OK {
		return
	}
	memberID := authz.MemberID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	entries, err := h.Contributions.ListForMember(ctx, memberID)
	if err != nil {
		h.ErrLog.LogError(r, "list own contributions", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}
	total, err := h.Contributions.TotalForMember(ctx, memberID)
	if err != nil {
		h.ErrLog.LogError(r, "total own contributions", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	year := time.Now().Year()
	annual, err := h.memberAnnualTotal(ctx, memberID, year)
	if err != nil {
		h.ErrLog.LogError(r, "annual own contributions", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	rows := make([]contributionVM, 0, len(entries))
	for _, c := range entries {
		rows = append(rows, contributionVM{
			Amount: c.Amount,
			Date:   c.CreatedAt.Local().Format("2006-01-02"),
		})
	}

	templates.Render(w, r, "member_contributions", contributionsData{
		BaseVM:      viewdata.NewBaseVM(r, "My Contributions", "/portal-member"),
		Entries:     rows,
		Total:       total,
		AnnualTotal: annual,
		Year:        year,
	})
}

// memberAnnualTotal sums this member's entries for the given year.
func (h *Handler) memberAnnualTotal(ctx context.Context, memberID primitive.ObjectID, year int) (int64, error) {
	entries, err := h.Contributions.ListForMember(ctx, memberID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, c := range entries {
		if c.CreatedAt.Year() == year {
			total += c.Amount
		}
	}
	return total, nil
}

func (h *Handler) renderEvents(w http.ResponseWriter, r *http.Request, msg, errMsg string) {
	memberID := authz.MemberID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.LogError(r, "list events for member", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	rows := make([]memberEventVM, 0, len(all))
	for i := range all {
		ev := &all[i]
		attended, err := h.Attendance.HasAttended(ctx, ev.ID, memberID)
		if err != nil {
			h.ErrLog.LogError(r, "check attendance", err)
			http.Error(w, "A server error occurred.", http.StatusInternalServerError)
			return
		}
		rows = append(rows, memberEventVM{
			ID:           ev.ID.Hex(),
			Name:         ev.Name,
			Date:         ev.Date,
			StartTime:    ev.StartTime,
			EndTime:      ev.EndTime,
			HappeningNow: ev.HappeningNow(now),
			Attended:     attended,
		})
	}

	templates.Render(w, r, "member_events", eventsData{
		BaseVM:  viewdata.NewBaseVM(r, "Events", "/portal-member"),
		Events:  rows,
		Message: msg,
		Error:   errMsg,
	})
}
