// internal/app/features/members/create.go
package members

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	accountstore "github.com/kapatiranph/portal/internal/app/store/accounts"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/members/new – blank creation form                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can add members.", "/"); !res.OK {
		return
	}

	templates.Render(w, r, "member_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "Add Member", "/portal/members"),
		Member: models.Member{Status: models.StatusNew},
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /portal/members – create roster record (and optional login account)    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can add members.", "/"); !res.OK {
		return
	}

	if err := r.ParseForm(); err != nil {
		uierrors.RenderForbidden(w, r, "Invalid form data.", "/portal/members")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	in := memberFromForm(r)
	created, err := h.Members.Create(ctx, in)
	if err != nil {
		if ve, ok := memberstore.AsValidation(err); ok {
			h.renderFormErrors(w, r, in, ve)
			return
		}
		h.ErrLog.LogError(r, "create member", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	// Optional login account, issued with the member's email.
	if password := strings.TrimSpace(r.FormValue("account_password")); password != "" {
		_, err := h.Accounts.Create(ctx, created.Email, password, models.RoleMember, &created.ID)
		if err != nil && !errors.Is(err, accountstore.ErrDuplicateEmail) {
			// The roster record exists; surface the account problem without
			// failing the whole creation.
			h.ErrLog.LogError(r, "create member account", err)
		}
	}

	h.Log.Info("member created",
		zap.String("member_id", created.ID.Hex()),
		zap.String("status", created.Status))

	h.Flash.Add(w, r, "Member added.")
	http.Redirect(w, r, "/portal/members/"+created.ID.Hex()+"/view", http.StatusSeeOther)
}

func (h *Handler) renderFormErrors(w http.ResponseWriter, r *http.Request, in models.Member, ve *memberstore.ValidationError) {
	msgs := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		msgs = append(msgs, fieldErrorMessage(f))
	}
	templates.Render(w, r, "member_form", formData{
		BaseVM: viewdata.NewBaseVM(r, "Add Member", "/portal/members"),
		Member: in,
		Errors: msgs,
	})
}

func fieldErrorMessage(field string) string {
	switch field {
	case "email":
		return "A valid, unused email address is required."
	case "age":
		return "Age must be a positive number."
	case "status":
		return "Status must be Active, Inactive, New, or Pending."
	default:
		return "The " + field + " field is required."
	}
}
