// internal/app/features/orgchart/handler.go
package orgchart

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/gates"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the organizational chart: active members grouped by
// position, officers first.
type Handler struct {
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Members *memberstore.Store
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:     logger,
		ErrLog:  errLog,
		Members: memberstore.New(db),
	}
}

// officerOrder fixes the display order of the chapter's elected positions.
// Unlisted positions sort after these, alphabetically.
var officerOrder = []string{
	"President",
	"Vice President",
	"Secretary",
	"Treasurer",
	"Auditor",
	"Public Relations Officer",
}

// Group is one box of the chart.
type Group struct {
	Position string
	Members  []string
}

type chartData struct {
	viewdata.BaseVM
	Groups []Group
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /portal/orgchart                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeChart(w http.ResponseWriter, r *http.Request) {
	if res := gates.RequireAdmin(w, r, "Only administrators can view the org chart.", "/"); !res.OK {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	roster, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogError(r, "list members for org chart", err)
		http.Error(w, "A server error occurred.", http.StatusInternalServerError)
		return
	}

	templates.Render(w, r, "orgchart", chartData{
		BaseVM: viewdata.NewBaseVM(r, "Organization Chart", "/portal"),
		Groups: BuildGroups(roster),
	})
}

// BuildGroups arranges active members by position: elected positions in
// their fixed order, everything else alphabetically after them. Inactive
// members do not appear on the chart.
func BuildGroups(roster []models.Member) []Group {
	byPosition := make(map[string][]string)
	for i := range roster {
		m := &roster[i]
		if m.Status == models.StatusInactive {
			continue
		}
		pos := strings.TrimSpace(m.Position)
		if pos == "" {
			pos = "Member"
		}
		byPosition[pos] = append(byPosition[pos], m.FullName())
	}

	rank := make(map[string]int, len(officerOrder))
	for i, p := range officerOrder {
		rank[p] = i
	}

	positions := make([]string, 0, len(byPosition))
	for pos := range byPosition {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		ri, iOK := rank[positions[i]]
		rj, jOK := rank[positions[j]]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return positions[i] < positions[j]
		}
	})

	groups := make([]Group, 0, len(positions))
	for _, pos := range positions {
		names := byPosition[pos]
		sort.Strings(names)
		groups = append(groups, Group{Position: pos, Members: names})
	}
	return groups
}
