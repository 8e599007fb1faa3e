// internal/app/features/contributions/handler.go
package contributions

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	contribstore "github.com/kapatiranph/portal/internal/app/store/contributions"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin contribution ledger. Entries are append-only;
// a wrong amount is corrected with a new entry, never an edit.
type Handler struct {
	Log           *zap.Logger
	ErrLog        *uierrors.ErrorLogger
	Contributions *contribstore.Store
	Members       *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:           logger,
		ErrLog:        errLog,
		Contributions: contribstore.New(db),
		Members:       memberstore.New(db),
	}
}

type memberTotalVM struct {
	ID       string
	FullName string
	Total    int64
}

type indexData struct {
	viewdata.BaseVM
	Members []memberTotalVM
}

type entryVM struct {
	Amount int64
	Date   string
}

type ledgerData struct {
	viewdata.BaseVM
	MemberID   string
	MemberName string
	Entries    []entryVM
	Total      int64
	Error      string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/contributions – roster with lifetime totals                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can record contributions.", "/"); !res.OK {
		return
	}

	// A ?member=<id> link from the roster goes straight to that ledger.
	if id := strings.TrimSpace(r.URL.Query().Get("member")); id != "" {
		http.Redirect(w, r, "/portal/contributions/"+id, http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	roster, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogError(r, "list members for ledger", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	rows := make([]memberTotalVM, 0, len(roster))
	for i := range roster {
		m := &roster[i]
		total, err := h.Contributions.TotalForMember(ctx, m.ID)
		if err != nil {
			h.ErrLog.LogError(r, "load member total", err)
			http.Error(w, "A server error occurred.", http.StatusInternalServerError)
			return
		}
		rows = append(rows, memberTotalVM{
			ID:       m.ID.Hex(),
			FullName: m.FullName(),
			Total:    total,
		})
	}

	templates.Render(w, r, "contributions_index", indexData{
		BaseVM:  viewdata.NewBaseVM(r, "Contributions", "/portal"),
		Members: rows,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/contributions/{id} – one member's ledger                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLedger(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can record contributions.", "/"); !res.OK {
		return
	}
	h.renderLedger(w, r, "")
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /portal/contributions/{id} – append an entry                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleAppend(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can record contributions.", "/"); !res.OK {
		return
	}
	id, ok := h.memberParam(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		uierrors.RenderForbidden(w, r, "Invalid form data.", "/portal/contributions")
		return
	}

	amount, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("amount")), 10, 64)
	if err != nil {
		h.renderLedger(w, r, "Enter the amount as a whole number of pesos.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Contributions.Append(ctx, id, amount); err != nil {
		if errors.Is(err, contribstore.ErrBadAmount) {
			h.renderLedger(w, r, "The amount must be greater than zero.")
			return
		}
		h.ErrLog.LogError(r, "append contribution", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	h.Log.Info("contribution recorded",
		zap.String("member_id", id.Hex()),
		zap.Int64("amount", amount))

	http.Redirect(w, r, "/portal/contributions/"+id.Hex(), http.StatusSeeOther)
}

func (h *Handler) renderLedger(w http.ResponseWriter, r *http.Request, formErr string) {
	id, ok := h.memberParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			uierrors.RenderForbidden(w, r, "Member not found.", httpnav.ResolveBackURL(r, "/portal/contributions"))
			return
		}
		h.ErrLog.LogError(r, "load member for ledger", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	entries, err := h.Contributions.ListForMember(ctx, id)
	if err != nil {
		h.ErrLog.LogError(r, "list contributions", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}
	total, err := h.Contributions.TotalForMember(ctx, id)
	if err != nil {
		h.ErrLog.LogError(r, "total contributions", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	rows := make([]entryVM, 0, len(entries))
	for _, c := range entries {
		rows = append(rows, entryVM{
			Amount: c.Amount,
			Date:   c.CreatedAt.Local().Format("2006-01-02"),
		})
	}

	templates.Render(w, r, "contributions_ledger", ledgerData{
		BaseVM:     viewdata.NewBaseVM(r, "Contributions · "+m.FullName(), "/portal/contributions"),
		MemberID:   m.ID.Hex(),
		MemberName: m.FullName(),
		Entries:    rows,
		Total:      total,
		Error:      formErr,
	})
}

func (h *Handler) memberParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Bad member id.", httpnav.ResolveBackURL(r, "/portal/contributions"))
		return primitive.NilObjectID, false
	}
	return id, true
}
