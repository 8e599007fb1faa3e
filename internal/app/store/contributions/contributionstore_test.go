package contributionstore

import (
	"errors"
	"testing"
	"time"

	"github.com/kapatiranph/portal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func newStore(t *testing.T) (*Store, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	s := New(db)
	if err := s.EnsureIndexes(testutil.TestContext(t)); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return s, db
}

func TestAppend(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	memberID := primitive.NewObjectID()
	entry, err := s.Append(ctx, memberID, 500)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.ID.IsZero() {
		t.Error("expected an assigned id")
	}
	if entry.Amount != 500 {
		t.Errorf("amount: got %d", entry.Amount)
	}
	if entry.CreatedAt.IsZero() {
		t.Error("expected a timestamp")
	}
}

func TestAppend_RejectsNonPositiveAmounts(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	memberID := primitive.NewObjectID()
	for _, amount := range []int64{0, -1, -500} {
		if _, err := s.Append(ctx, memberID, amount); !errors.Is(err, ErrBadAmount) {
			t.Errorf("Append(%d): got %v, want ErrBadAmount", amount, err)
		}
	}

	entries, err := s.ListForMember(ctx, memberID)
	if err != nil {
		t.Fatalf("ListForMember: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected amounts must not be recorded, found %d entries", len(entries))
	}
}

func TestListForMember_NewestFirstAndScoped(t *testing.T) {
	s, db := newStore(t)
	ctx := testutil.TestContext(t)
	fix := testutil.NewFixtures(t, db)

	memberID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	fix.CreateContribution(ctx, memberID, 100, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	fix.CreateContribution(ctx, memberID, 300, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC))
	fix.CreateContribution(ctx, otherID, 999, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))

	entries, err := s.ListForMember(ctx, memberID)
	if err != nil {
		t.Fatalf("ListForMember: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].Amount != 300 || entries[1].Amount != 100 {
		t.Errorf("order: got %d then %d, want newest first", entries[0].Amount, entries[1].Amount)
	}
}

func TestTotalForMember(t *testing.T) {
	s, db := newStore(t)
	ctx := testutil.TestContext(t)
	fix := testutil.NewFixtures(t, db)

	memberID := primitive.NewObjectID()
	now := time.Now().UTC()
	fix.CreateContribution(ctx, memberID, 1500, now)
	fix.CreateContribution(ctx, memberID, 250, now.Add(-time.Hour))
	fix.CreateContribution(ctx, primitive.NewObjectID(), 10000, now)

	total, err := s.TotalForMember(ctx, memberID)
	if err != nil {
		t.Fatalf("TotalForMember: %v", err)
	}
	if total != 1750 {
		t.Errorf("total: got %d, want 1750", total)
	}
}

func TestTotalForMember_NoEntries(t *testing.T) {
	s, _ := newStore(t)
	ctx := testutil.TestContext(t)

	total, err := s.TotalForMember(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("TotalForMember: %v", err)
	}
	if total != 0 {
		t.Errorf("total: got %d, want 0", total)
	}
}

func TestQuarterlyTotals(t *testing.T) {
	s, db := newStore(t)
	ctx := testutil.TestContext(t)
	fix := testutil.NewFixtures(t, db)

	memberID := primitive.NewObjectID()
	// Q1: Jan + Mar, Q3: Aug. Q2 and Q4 have no entries.
	fix.CreateContribution(ctx, memberID, 100, time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC))
	fix.CreateContribution(ctx, memberID, 200, time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC))
	fix.CreateContribution(ctx, memberID, 700, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC))
	// A different year must not leak in.
	fix.CreateContribution(ctx, memberID, 5000, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))

	totals, err := s.QuarterlyTotals(ctx, 2026)
	if err != nil {
		t.Fatalf("QuarterlyTotals: %v", err)
	}
	if got := totals["Q1"]; got != 300 {
		t.Errorf("Q1: got %d, want 300", got)
	}
	if got := totals["Q3"]; got != 700 {
		t.Errorf("Q3: got %d, want 700", got)
	}
	if _, ok := totals["Q2"]; ok {
		t.Error("empty quarter should be absent from the map")
	}
	if _, ok := totals["Q4"]; ok {
		t.Error("empty quarter should be absent from the map")
	}
}

func TestAnnualTotal(t *testing.T) {
	s, db := newStore(t)
	ctx := testutil.TestContext(t)
	fix := testutil.NewFixtures(t, db)

	memberID := primitive.NewObjectID()
	fix.CreateContribution(ctx, memberID, 400, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))
	fix.CreateContribution(ctx, memberID, 600, time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC))
	fix.CreateContribution(ctx, memberID, 123, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC))

	total, err := s.AnnualTotal(ctx, 2026)
	if err != nil {
		t.Fatalf("AnnualTotal: %v", err)
	}
	if total != 1000 {
		t.Errorf("total: got %d, want 1000", total)
	}
}
