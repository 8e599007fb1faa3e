package contributions_test

import (
	"net/http"
	"testing"

	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	"github.com/kapatiranph/portal/internal/app/features/contributions"
	"github.com/kapatiranph/portal/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*contributions.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := contributions.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func TestHandleAppend_RecordsEntry(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)
	m := fx.CreateMember(ctx, "Juan", "Dela Cruz", "juan@example.com")

	req := testutil.NewFormRequest("/portal/contributions/"+m.ID.Hex(), map[string]string{
		"amount": "500",
	})
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", m.ID.Hex())
	rec := testutil.NewRecorder()

	h.HandleAppend(rec.ResponseRecorder, req)

	rec.AssertRedirect(t, "/portal/contributions/"+m.ID.Hex())

	n, err := fx.DB().Collection("contributions").CountDocuments(ctx, map[string]any{"member_id": m.ID})
	if err != nil {
		t.Fatalf("count contributions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected one ledger entry, found %d", n)
	}
}

func TestHandleAppend_RejectsZeroAmount(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx := testutil.TestContext(t)
	m := fx.CreateMember(ctx, "Juan", "Dela Cruz", "juan@example.com")

	req := testutil.NewFormRequest("/portal/contributions/"+m.ID.Hex(), map[string]string{
		"amount": "0",
	})
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "id", m.ID.Hex())
	rec := testutil.NewRecorder()

	func() {
		defer func() { _ = recover() }()
		h.HandleAppend(rec.ResponseRecorder, req)
	}()

	if rec.Code == http.StatusSeeOther {
		t.Error("a zero amount must not be recorded")
	}
	n, err := fx.DB().Collection("contributions").CountDocuments(ctx, map[string]any{"member_id": m.ID})
	if err != nil {
		t.Fatalf("count contributions: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no ledger entries, found %d", n)
	}
}
