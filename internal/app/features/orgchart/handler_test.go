package orgchart_test

import (
	"testing"

	"github.com/kapatiranph/portal/internal/app/features/orgchart"
	"github.com/kapatiranph/portal/internal/domain/models"
)

func member(first, last, position, status string) models.Member {
	return models.Member{
		FirstName: first,
		LastName:  last,
		Position:  position,
		Status:    status,
	}
}

func TestBuildGroups_OfficersFirst(t *testing.T) {
	roster := []models.Member{
		member("Zosimo", "Reyes", "Member", "Active"),
		member("Juan", "Dela Cruz", "President", "Active"),
		member("Ana", "Lim", "Treasurer", "Active"),
		member("Ben", "Cruz", "Archivist", "Active"),
	}

	groups := orgchart.BuildGroups(roster)

	want := []string{"President", "Treasurer", "Archivist", "Member"}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i, pos := range want {
		if groups[i].Position != pos {
			t.Errorf("group %d: got %q, want %q", i, groups[i].Position, pos)
		}
	}
}

func TestBuildGroups_SkipsInactive(t *testing.T) {
	roster := []models.Member{
		member("Juan", "Dela Cruz", "President", "Active"),
		member("Gone", "Guy", "Member", "Inactive"),
	}

	groups := orgchart.BuildGroups(roster)

	for _, g := range groups {
		for _, name := range g.Members {
			if name == "Gone Guy" {
				t.Error("inactive members must not appear on the chart")
			}
		}
	}
}

func TestBuildGroups_EmptyPositionBecomesMember(t *testing.T) {
	roster := []models.Member{member("Juan", "Dela Cruz", "  ", "Active")}

	groups := orgchart.BuildGroups(roster)

	if len(groups) != 1 || groups[0].Position != "Member" {
		t.Fatalf("expected a single Member group, got %+v", groups)
	}
}
