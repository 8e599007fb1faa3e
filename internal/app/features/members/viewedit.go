// internal/app/features/members/viewedit.go
package members

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memberParam resolves the {id} URL parameter. A render has already happened
// when ok is false.
func (h *Handler) memberParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderForbidden(w, r, "Bad member id.", httpnav.ResolveBackURL(r, "/portal/members"))
		return primitive.NilObjectID, false
	}
	return id, true
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/members/{id}/view                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can view roster records.", "/"); !res.OK {
		return
	}
	id, ok := h.memberParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			uierrors.RenderForbidden(w, r, "Member not found.", httpnav.ResolveBackURL(r, "/portal/members"))
			return
		}
		h.ErrLog.LogError(r, "load member", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "member_view", viewData{
		BaseVM:   viewdata.NewBaseVM(r, "View Member", "/portal/members"),
		Member:   *m,
		Messages: h.Flash.Pop(w, r),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/members/{id}/edit                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can edit roster records.", "/"); !res.OK {
		return
	}
	id, ok := h.memberParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			uierrors.RenderForbidden(w, r, "Member not found.", httpnav.ResolveBackURL(r, "/portal/members"))
			return
		}
		h.ErrLog.LogError(r, "load member for edit", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "member_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "Edit Member", "/portal/members"),
		Member: *m,
		IsEdit: true,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /portal/members/{id}/edit – partial update, posted fields only         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can edit roster records.", "/"); !res.OK {
		return
	}
	id, ok := h.memberParam(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		uierrors.RenderForbidden(w, r, "Invalid form data.", "/portal/members")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Members.Apply(ctx, id, updateFromForm(r))
	switch {
	case errors.Is(err, memberstore.ErrNotFound):
		uierrors.RenderForbidden(w, r, "Member not found.", httpnav.ResolveBackURL(r, "/portal/members"))
		return
	case err != nil:
		if ve, ok := memberstore.AsValidation(err); ok {
			m, getErr := h.Members.GetByID(ctx, id)
			if getErr != nil {
				h.ErrLog.LogError(r, "reload member after validation", getErr)
				http.Error(w, "A server error occurred.", http.StatusInternalServerError)
				return
			}
			msgs := make([]string, 0, len(ve.Fields))
			for _, f := range ve.Fields {
				msgs = append(msgs, fieldErrorMessage(f))
			}
			templates.Render(w, r, "member_form", formData{
				BaseVM: viewdata.NewBaseVM(r, "Edit Member", "/portal/members"),
				Member: *m,
				Errors: msgs,
				IsEdit: true,
			})
			return
		}
		h.ErrLog.LogError(r, "update member", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	h.Log.Info("member updated", zap.String("member_id", updated.ID.Hex()))

	h.Flash.Add(w, r, "Member saved.")
	http.Redirect(w, r, "/portal/members/"+updated.ID.Hex()+"/view", http.StatusSeeOther)
}
