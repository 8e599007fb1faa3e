package csvutil

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/kapatiranph/portal/internal/domain/models"
)

func TestWriteMembers_HeaderAndRows(t *testing.T) {
	members := []models.Member{
		{
			FirstName:     "Juan",
			LastName:      "Dela Cruz",
			NameExtension: "Jr.",
			Email:         "juan@example.com",
			Contact:       "+639171234567",
			Age:           34,
			Address:       "Quezon City",
			Status:        models.StatusActive,
			Position:      "Treasurer",
			DateJoined:    "2019-03-16",
			Profession:    "Accountant",
			Contribution:  1500,
			Absences:      2,
			Skills:        []string{"bookkeeping", "driving"},
		},
		{
			FirstName: "Maria",
			LastName:  "Santos",
			Email:     "maria@example.com",
			Status:    models.StatusNew,
		},
	}

	var buf bytes.Buffer
	if err := WriteMembers(&buf, members); err != nil {
		t.Fatalf("WriteMembers: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}

	if rows[0][0] != "Name" || rows[0][1] != "Email" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	juan := rows[1]
	if juan[0] != "Juan Dela Cruz Jr." {
		t.Errorf("expected assembled full name, got %q", juan[0])
	}
	if juan[9] != "1500" {
		t.Errorf("expected contribution 1500, got %q", juan[9])
	}
	if juan[11] != "bookkeeping; driving" {
		t.Errorf("expected joined skills, got %q", juan[11])
	}

	maria := rows[2]
	if maria[5] != models.StatusNew {
		t.Errorf("expected status %q, got %q", models.StatusNew, maria[5])
	}
}

func TestWriteMembers_EmptyRosterStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMembers(&buf, nil); err != nil {
		t.Fatalf("WriteMembers: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}
