package members_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	"github.com/kapatiranph/portal/internal/app/features/members"
	"github.com/kapatiranph/portal/internal/app/system/auth"
	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newAPIServer(t *testing.T) (http.Handler, *testutil.Fixtures, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if err := memberstore.New(db).EnsureIndexes(testutil.TestContext(t)); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	logger := zap.NewNop()
	h := members.NewHandler(db, auth.NewFlashStore("", false, logger), uierrors.NewErrorLogger(logger), logger)
	return members.APIRoutes(h), testutil.NewFixtures(t, db), db
}

func postJSON(t *testing.T, router http.Handler, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest("POST", target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validMemberBody() map[string]any {
	return map[string]any{
		"firstname":  "Juan",
		"lastname":   "Dela Cruz",
		"age":        28,
		"address":    "123 Mabini St, Quezon City",
		"email":      "juan@example.com",
		"contact":    "+639171234567",
		"status":     "Active",
		"datajoined": "2021-06-01",
		"position":   "Member",
		"profession": "Engineer",
	}
}

func TestAPIList_Empty(t *testing.T) {
	router, _, _ := newAPIServer(t)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Members []json.RawMessage `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Members == nil {
		t.Error(`"members" must be an empty array, not null`)
	}
}

func TestAPICreate_Valid(t *testing.T) {
	router, _, _ := newAPIServer(t)

	rec := postJSON(t, router, "/", validMemberBody())

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Member  struct {
			ID        string `json:"id"`
			FirstName string `json:"firstname"`
			Status    string `json:"status"`
		} `json:"member"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Message == "" {
		t.Error("expected a message in the creation response")
	}
	if resp.Member.ID == "" {
		t.Error("created member should carry its assigned id")
	}
	if resp.Member.FirstName != "Juan" {
		t.Errorf("firstname: got %q, want %q", resp.Member.FirstName, "Juan")
	}
}

func TestAPICreate_MissingEmailStoresNothing(t *testing.T) {
	router, _, db := newAPIServer(t)

	body := validMemberBody()
	delete(body, "email")
	rec := postJSON(t, router, "/", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}

	var resp struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	var sawEmail bool
	for _, d := range resp.Details {
		if d == "email" {
			sawEmail = true
		}
	}
	if !sawEmail {
		t.Errorf("details should name the email field, got %v", resp.Details)
	}

	ctx := testutil.TestContext(t)
	n, err := db.Collection("members").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if n != 0 {
		t.Errorf("a rejected creation must store nothing, found %d records", n)
	}
}

func TestAPICreate_DuplicateEmail(t *testing.T) {
	router, _, _ := newAPIServer(t)

	if rec := postJSON(t, router, "/", validMemberBody()); rec.Code != http.StatusCreated {
		t.Fatalf("first create: got %d, want 201", rec.Code)
	}
	rec := postJSON(t, router, "/", validMemberBody())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate email: got %d, want 400", rec.Code)
	}
}

func TestAPIGet(t *testing.T) {
	router, fx, _ := newAPIServer(t)
	ctx := testutil.TestContext(t)
	m := fx.CreateMember(ctx, "Pedro", "Santos", "pedro@example.com")

	req := httptest.NewRequest("GET", "/"+m.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp struct {
		Member struct {
			Email string `json:"email"`
		} `json:"member"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Member.Email != "pedro@example.com" {
		t.Errorf("email: got %q", resp.Member.Email)
	}
}

func TestAPIGet_NotFound(t *testing.T) {
	router, _, _ := newAPIServer(t)

	for _, id := range []string{"64b000000000000000000000", "not-a-hex-id"} {
		req := httptest.NewRequest("GET", "/"+id, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("id %q: got %d, want 404", id, rec.Code)
		}

		// The error envelope always carries a details array, even when empty.
		var resp struct {
			Error   string    `json:"error"`
			Details *[]string `json:"details"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("id %q: decode error body: %v", id, err)
		}
		if resp.Details == nil || *resp.Details == nil {
			t.Errorf("id %q: details should be an empty array, not absent or null", id)
		}
	}
}

func TestAPIUpdate_PartialLeavesOtherFields(t *testing.T) {
	router, fx, _ := newAPIServer(t)
	ctx := testutil.TestContext(t)
	m := fx.CreateMember(ctx, "Maria", "Clara", "maria@example.com")

	raw, _ := json.Marshal(map[string]any{"position": "Treasurer"})
	req := httptest.NewRequest("PATCH", "/"+m.ID.Hex(), bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Member struct {
			FirstName string `json:"firstname"`
			Position  string `json:"position"`
			Email     string `json:"email"`
		} `json:"member"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if resp.Member.Position != "Treasurer" {
		t.Errorf("position: got %q, want Treasurer", resp.Member.Position)
	}
	if resp.Member.FirstName != "Maria" || resp.Member.Email != "maria@example.com" {
		t.Error("fields absent from the patch must keep their stored values")
	}
}
