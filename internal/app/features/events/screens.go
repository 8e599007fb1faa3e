// internal/app/features/events/screens.go
package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	eventstore "github.com/kapatiranph/portal/internal/app/store/events"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/kapatiranph/portal/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type eventRowVM struct {
	ID           string
	Name         string
	Date         string
	StartTime    string
	EndTime      string
	Code         string
	HappeningNow bool
}

type listData struct {
	viewdata.BaseVM
	Events []eventRowVM
}

type formData struct {
	viewdata.BaseVM
	Event  models.Event
	Errors []string
	IsEdit bool
}

type attendeeVM struct {
	Name       string
	RecordedAt string
}

type feedbackVM struct {
	Name string
	Text string
}

type detailData struct {
	viewdata.BaseVM
	Event     models.Event
	Attendees []attendeeVM
	Feedback  []feedbackVM
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/events                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage events.", "/"); !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Events.List(ctx)
	if err != nil {
		h.ErrLog.LogError(r, "list events", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	rows := make([]eventRowVM, 0, len(list))
	for i := range list {
		e := &list[i]
		rows = append(rows, eventRowVM{
			ID:           e.ID.Hex(),
			Name:         e.Name,
			Date:         e.Date,
			StartTime:    e.StartTime,
			EndTime:      e.EndTime,
			Code:         e.AttendanceCode,
			HappeningNow: e.HappeningNow(now),
		})
	}

	templates.Render(w, r, "events_list", listData{
		BaseVM: viewdata.NewBaseVM(r, "Events", "/portal"),
		Events: rows,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/events/new, POST /portal/events                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage events.", "/"); !res.OK {
		return
	}
	templates.Render(w, r, "event_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "Add Event", "/portal/events"),
	})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage events.", "/"); !res.OK {
		return
	}
	if err := r.ParseForm(); err != nil {
		uierrors.RenderForbidden(w, r, "Invalid form data.", "/portal/events")
		return
	}

	in := models.Event{
		Name:      r.FormValue("name"),
		Date:      r.FormValue("date"),
		StartTime: r.FormValue("startTime"),
		EndTime:   r.FormValue("endTime"),
		ImageURL:  r.FormValue("imageUrl"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Events.Create(ctx, in)
	if err != nil {
		if errors.Is(err, eventstore.ErrMissingFields) {
			templates.Render(w, r, "event_form", formData{
				BaseVM: viewdata.NewBaseVM(r, "Add Event", "/portal/events"),
				Event:  in,
				Errors: []string{"Name, date, start time, and end time are required."},
			})
			return
		}
		h.ErrLog.LogError(r, "create event", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	h.Log.Info("event created",
		zap.String("event_id", created.ID.Hex()),
		zap.String("date", created.Date))

	http.Redirect(w, r, "/portal/events/"+created.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/events/{id} – detail with attendance sheet and feedback         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage events.", "/"); !res.OK {
		return
	}
	id, ok := h.eventParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			uierrors.RenderForbidden(w, r, "Event not found.", httpnav.ResolveBackURL(r, "/portal/events"))
			return
		}
		h.ErrLog.LogError(r, "load event", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	attendees, err := h.attendeeList(ctx, id)
	if err != nil {
		h.ErrLog.LogError(r, "load attendance sheet", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	feedback, err := h.feedbackList(ctx, id)
	if err != nil {
		h.ErrLog.LogError(r, "load event feedback", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "event_detail", detailData{
		BaseVM:    viewdata.NewBaseVM(r, ev.Name, "/portal/events"),
		Event:     *ev,
		Attendees: attendees,
		Feedback:  feedback,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/events/{id}/edit, POST /portal/events/{id}/edit                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage events.", "/"); !res.OK {
		return
	}
	id, ok := h.eventParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			uierrors.RenderForbidden(w, r, "Event not found.", httpnav.ResolveBackURL(r, "/portal/events"))
			return
		}
		h.ErrLog.LogError(r, "load event for edit", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "event_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "Edit Event", "/portal/events"),
		Event:  *ev,
		IsEdit: true,
	})
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage events.", "/"); !res.OK {
		return
	}
	id, ok := h.eventParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		uierrors.RenderForbidden(w, r, "Invalid form data.", "/portal/events")
		return
	}

	var u eventstore.Update
	str := func(name string) *string {
		if !r.Form.Has(name) {
			return nil
		}
		v := r.FormValue(name)
		return &v
	}
	u.Name = str("name")
	u.Date = str("date")
	u.StartTime = str("startTime")
	u.EndTime = str("endTime")
	u.ImageURL = str("imageUrl")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Events.Apply(ctx, id, u)
	if err != nil {
		if errors.Is(err, eventstore.ErrNotFound) {
			uierrors.RenderForbidden(w, r, "Event not found.", httpnav.ResolveBackURL(r, "/portal/events"))
			return
		}
		h.ErrLog.LogError(r, "update event", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/portal/events/"+updated.ID.Hex(), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /portal/events/{id}/delete                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage events.", "/"); !res.OK {
		return
	}
	id, ok := h.eventParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil && !errors.Is(err, eventstore.ErrNotFound) {
		h.ErrLog.LogError(r, "delete event", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))

	http.Redirect(w, r, "/portal/events", http.StatusSeeOther)
}

func (h *Handler) eventParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Bad event id.", httpnav.ResolveBackURL(r, "/portal/events"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// attendeeList joins attendance entries with roster names.
func (h *Handler) attendeeList(ctx context.Context, eventID primitive.ObjectID) ([]attendeeVM, error) {
	entries, err := h.Attendance.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]attendeeVM, 0, len(entries))
	for _, a := range entries {
		name := "(removed)"
		if m, err := h.Members.GetByID(ctx, a.MemberID); err == nil {
			name = m.FullName()
		}
		out = append(out, attendeeVM{
			Name:       name,
			RecordedAt: a.RecordedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return out, nil
}

func (h *Handler) feedbackList(ctx context.Context, eventID primitive.ObjectID) ([]feedbackVM, error) {
	entries, err := h.Attendance.ListFeedback(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]feedbackVM, 0, len(entries))
	for _, f := range entries {
		name := "(removed)"
		if m, err := h.Members.GetByID(ctx, f.MemberID); err == nil {
			name = m.FullName()
		}
		out = append(out, feedbackVM{Name: name, Text: f.Text})
	}
	return out, nil
}
