package eventstore

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kapatiranph/portal/internal/domain/models"
	"github.com/kapatiranph/portal/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validEvent() models.Event {
	return models.Event{
		Name:      "General Assembly",
		Date:      "2026-09-15",
		StartTime: "18:00",
		EndTime:   "21:00",
	}
}

func newStores(t *testing.T) (*Store, *AttendanceStore) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	s := New(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes (events): %v", err)
	}
	a := NewAttendance(db)
	if err := a.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes (attendance): %v", err)
	}
	return s, a
}

func TestCreate_AssignsAttendanceCode(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected an assigned id")
	}
	if len(created.AttendanceCode) != 8 {
		t.Errorf("code length: got %q", created.AttendanceCode)
	}
	if created.AttendanceCode != strings.ToUpper(created.AttendanceCode) {
		t.Errorf("expected uppercase code, got %q", created.AttendanceCode)
	}
	if created.NameCI == "" {
		t.Error("expected folded search key to be set")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestCreate_CodesAreDistinct(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		ev, err := s.Create(ctx, validEvent())
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		if seen[ev.AttendanceCode] {
			t.Fatalf("duplicate code %q", ev.AttendanceCode)
		}
		seen[ev.AttendanceCode] = true
	}
}

func TestCreate_MissingFields(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	for _, breakIt := range []func(*models.Event){
		func(e *models.Event) { e.Name = "   " },
		func(e *models.Event) { e.Date = "" },
		func(e *models.Event) { e.StartTime = "" },
		func(e *models.Event) { e.EndTime = "" },
	} {
		in := validEvent()
		breakIt(&in)
		if _, err := s.Create(ctx, in); !errors.Is(err, ErrMissingFields) {
			t.Errorf("Create(%+v): got %v, want ErrMissingFields", in, err)
		}
	}
}

func TestGetByCode(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Members type codes however they like; lookup is trimmed and uppercased.
	got, err := s.GetByCode(ctx, "  "+strings.ToLower(created.AttendanceCode)+" ")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("resolved wrong event: got %s", got.ID.Hex())
	}

	if _, err := s.GetByCode(ctx, "NOPE1234"); !errors.Is(err, ErrBadCode) {
		t.Errorf("unknown code: got %v, want ErrBadCode", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	if _, err := s.GetByID(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestList_NewestDateFirst(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	older := validEvent()
	older.Date = "2026-01-10"
	newer := validEvent()
	newer.Name = "Induction Night"
	newer.Date = "2026-11-02"

	if _, err := s.Create(ctx, older); err != nil {
		t.Fatalf("Create older: %v", err)
	}
	if _, err := s.Create(ctx, newer); err != nil {
		t.Fatalf("Create newer: %v", err)
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List: got %d events", len(got))
	}
	if got[0].Date != "2026-11-02" || got[1].Date != "2026-01-10" {
		t.Errorf("order: got %s then %s", got[0].Date, got[1].Date)
	}
}

func strPtr(s string) *string { return &s }

func TestApply_PartialUpdate(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := s.Apply(ctx, created.ID, Update{
		Name:     strPtr("  Grand Assembly "),
		ImageURL: strPtr("https://cdn.example.com/ga.jpg"),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Name != "Grand Assembly" {
		t.Errorf("name: got %q", got.Name)
	}
	if got.ImageURL != "https://cdn.example.com/ga.jpg" {
		t.Errorf("image: got %q", got.ImageURL)
	}
	if got.Date != created.Date || got.StartTime != created.StartTime {
		t.Error("untouched fields should survive a partial update")
	}
	if got.AttendanceCode != created.AttendanceCode {
		t.Error("attendance code must not change on update")
	}

	// The renamed event is findable under its new folded key.
	renamed, err := s.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if renamed.NameCI != "grand assembly" {
		t.Errorf("name_ci: got %q", renamed.NameCI)
	}
}

func TestApply_NotFound(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	if _, err := s.Apply(ctx, primitive.NewObjectID(), Update{Name: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s, _ := newStores(t)
	ctx := testutil.TestContext(t)

	created, err := s.Create(ctx, validEvent())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.GetByID(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete: got %v, want ErrNotFound", err)
	}
}

func TestMark_SecondMarkIsNoOp(t *testing.T) {
	_, a := newStores(t)
	ctx := testutil.TestContext(t)

	eventID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	if err := a.Mark(ctx, eventID, memberID); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if err := a.Mark(ctx, eventID, memberID); err != nil {
		t.Fatalf("second Mark should be a no-op, got %v", err)
	}

	n, err := a.CountForEvent(ctx, eventID)
	if err != nil {
		t.Fatalf("CountForEvent: %v", err)
	}
	if n != 1 {
		t.Errorf("count: got %d, want 1", n)
	}

	attended, err := a.HasAttended(ctx, eventID, memberID)
	if err != nil {
		t.Fatalf("HasAttended: %v", err)
	}
	if !attended {
		t.Error("expected HasAttended true")
	}
}

func TestCountForEvent_ScopedToEvent(t *testing.T) {
	_, a := newStores(t)
	ctx := testutil.TestContext(t)

	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	for i := 0; i < 3; i++ {
		if err := a.Mark(ctx, first, primitive.NewObjectID()); err != nil {
			t.Fatalf("Mark: %v", err)
		}
	}
	if err := a.Mark(ctx, second, primitive.NewObjectID()); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	n, err := a.CountForEvent(ctx, first)
	if err != nil {
		t.Fatalf("CountForEvent: %v", err)
	}
	if n != 3 {
		t.Errorf("count: got %d, want 3", n)
	}

	entries, err := a.ListForEvent(ctx, second)
	if err != nil {
		t.Fatalf("ListForEvent: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries: got %d, want 1", len(entries))
	}
}

func TestSaveFeedback_UpsertsAndSanitizes(t *testing.T) {
	_, a := newStores(t)
	ctx := testutil.TestContext(t)

	eventID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	if err := a.SaveFeedback(ctx, eventID, memberID, "First thoughts"); err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if err := a.SaveFeedback(ctx, eventID, memberID, "<b>Revised</b><script>alert(1)</script> thoughts"); err != nil {
		t.Fatalf("SaveFeedback (revise): %v", err)
	}

	entries, err := a.ListFeedback(ctx, eventID)
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("feedback entries: got %d, want 1", len(entries))
	}
	got := entries[0].Text
	if strings.Contains(got, "<") {
		t.Errorf("expected plain text, got %q", got)
	}
	if !strings.Contains(got, "Revised") {
		t.Errorf("expected revised text, got %q", got)
	}
	if strings.Contains(got, "First") {
		t.Errorf("old feedback should be replaced, got %q", got)
	}
}

func TestHappeningNow(t *testing.T) {
	ev := models.Event{Date: "2026-09-15", StartTime: "18:00", EndTime: "21:00"}

	at := func(hhmm string) time.Time {
		ts, err := time.ParseInLocation("2006-01-02 15:04", "2026-09-15 "+hhmm, time.UTC)
		if err != nil {
			t.Fatalf("parse %q: %v", hhmm, err)
		}
		return ts
	}

	if ev.HappeningNow(at("17:59")) {
		t.Error("before start should not be live")
	}
	if !ev.HappeningNow(at("18:00")) {
		t.Error("start instant should be live")
	}
	if !ev.HappeningNow(at("20:30")) {
		t.Error("mid-window should be live")
	}
	if ev.HappeningNow(at("21:00")) {
		t.Error("end instant should not be live")
	}

	broken := models.Event{Date: "soon", StartTime: "18:00", EndTime: "21:00"}
	if broken.HappeningNow(at("19:00")) {
		t.Error("unparseable window should never be live")
	}
}
