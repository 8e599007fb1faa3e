// internal/app/features/members/list.go
package members

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/kapatiranph/portal/internal/domain/models"
)

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/members – roster list with name search                          |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can manage the roster.", "/"); !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		list []models.Member
		err  error
	)
	if q != "" {
		list, err = h.Members.Search(ctx, q)
	} else {
		list, err = h.Members.List(ctx)
	}
	if err != nil {
		h.ErrLog.LogError(r, "list members", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "members_list", listData{
		BaseVM:  viewdata.NewBaseVM(r, "Members", "/portal"),
		Members: toRows(list),
		Query:   q,
	})
}
