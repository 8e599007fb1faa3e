// internal/app/features/members/export.go
package members

import (
	"context"
	"net/http"

	"github.com/kapatiranph/portal/internal/app/system/csvutil"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/members/export.csv – roster download                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can export the roster.", "/"); !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogError(r, "export members", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)
	if err := csvutil.WriteMembers(w, list); err != nil {
		// Headers are gone already; just record it.
		h.ErrLog.LogError(r, "write members csv", err)
	}
}
