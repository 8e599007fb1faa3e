package portalmember_test

import (
	"testing"
	"time"

	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	"github.com/kapatiranph/portal/internal/app/features/portalmember"
	eventstore "github.com/kapatiranph/portal/internal/app/store/events"
	"github.com/kapatiranph/portal/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*portalmember.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := eventstore.NewAttendance(db).EnsureIndexes(testutil.TestContext(t)); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	logger := zap.NewNop()
	h := portalmember.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestHandleAttend_LiveEventCode(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)
	m := fx.CreateMember(ctx, "Juan", "Dela Cruz", "juan@example.com")

	// An event whose window spans the whole of today.
	ev := fx.CreateEvent(ctx, "Live Assembly", time.Now().Format("2006-01-02"))
	_, err := fx.DB().Collection("events").UpdateByID(ctx, ev.ID, map[string]any{
		"$set": map[string]any{"start_time": "00:00", "end_time": "23:59"},
	})
	if err != nil {
		t.Fatalf("widen event window: %v", err)
	}

	req := testutil.NewFormRequest("/portal-member/events/attend", map[string]string{
		"code": ev.AttendanceCode,
	})
	req = testutil.WithUser(req, testutil.MemberUser(m.ID))
	rec := testutil.NewRecorder()

	// The confirmation re-render needs booted templates; the attendance
	// write happens before it.
	func() {
		defer func() { _ = recover() }()
		h.HandleAttend(rec.ResponseRecorder, req)
	}()

	n, err := fx.DB().Collection("event_attendance").CountDocuments(ctx, map[string]any{
		"event_id":  ev.ID,
		"member_id": m.ID,
	})
	if err != nil {
		t.Fatalf("count attendance: %v", err)
	}
	if n != 1 {
		t.Errorf("expected one attendance entry, found %d", n)
	}
}

func TestHandleAttend_PastEventRejected(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)
	m := fx.CreateMember(ctx, "Juan", "Dela Cruz", "juan@example.com")
	ev := fx.CreateEvent(ctx, "Old Meeting", "2020-01-01")

	req := testutil.NewFormRequest("/portal-member/events/attend", map[string]string{
		"code": ev.AttendanceCode,
	})
	req = testutil.WithUser(req, testutil.MemberUser(m.ID))
	rec := testutil.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.HandleAttend(rec.ResponseRecorder, req)
	}()

	n, err := fx.DB().Collection("event_attendance").CountDocuments(ctx, map[string]any{"event_id": ev.ID})
	if err != nil {
		t.Fatalf("count attendance: %v", err)
	}
	if n != 0 {
		t.Error("codes must not work outside the event window")
	}
}

func TestHandleAttend_DuplicateIsNoOp(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)
	m := fx.CreateMember(ctx, "Juan", "Dela Cruz", "juan@example.com")

	ev := fx.CreateEvent(ctx, "Live Assembly", time.Now().Format("2006-01-02"))
	_, err := fx.DB().Collection("events").UpdateByID(ctx, ev.ID, map[string]any{
		"$set": map[string]any{"start_time": "00:00", "end_time": "23:59"},
	})
	if err != nil {
		t.Fatalf("widen event window: %v", err)
	}

	attend := func() {
		req := testutil.NewFormRequest("/portal-member/events/attend", map[string]string{
			"code": ev.AttendanceCode,
		})
		req = testutil.WithUser(req, testutil.MemberUser(m.ID))
		rec := testutil.NewRecorder()
		func() {
			defer func() { _ = recover() }()
			h.HandleAttend(rec.ResponseRecorder, req)
		}()
	}
	attend()
	attend()

	n, err := fx.DB().Collection("event_attendance").CountDocuments(ctx, map[string]any{
		"event_id":  ev.ID,
		"member_id": m.ID,
	})
	if err != nil {
		t.Fatalf("count attendance: %v", err)
	}
	if n != 1 {
		t.Errorf("marking twice must keep a single entry, found %d", n)
	}
}
