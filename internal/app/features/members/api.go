// internal/app/features/members/api.go
package members

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	memberstore "github.com/kapatiranph/portal/internal/app/store/members"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// The JSON shapes here are frozen: the deployed mobile client parses these
// exact field names ("firstname", "name_extensions", "datajoined", …) and
// envelope keys.

type apiError struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// apiErr keeps the error envelope shape stable: details is always a JSON
// array, never null or absent.
func apiErr(msg string, details []string) apiError {
	if details == nil {
		details = []string{}
	}
	return apiError{Error: msg, Details: details}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/members                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) APIList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogError(r, "api list members", err)
		writeJSON(w, http.StatusInternalServerError, apiErr("Failed to load members", nil))
		return
	}
	if list == nil {
		list = []models.Member{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": list})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/members                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) APICreate(w http.ResponseWriter, r *http.Request) {
	var in models.Member
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, apiErr("Invalid JSON body", nil))
		return
	}
	// Client-supplied ids and counters are ignored; the store assigns them.
	in.ID = primitive.NilObjectID

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Members.Create(ctx, in)
	if err != nil {
		if ve, ok := memberstore.AsValidation(err); ok {
			writeJSON(w, http.StatusBadRequest, apiErr("Validation failed", ve.Fields))
			return
		}
		h.ErrLog.LogError(r, "api create member", err)
		writeJSON(w, http.StatusInternalServerError, apiErr("Failed to create member", nil))
		return
	}

	h.Log.Info("member created via api", zap.String("member_id", created.ID.Hex()))

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Member created",
		"member":  created,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/members/{id}                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) APIGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		// A malformed id can never name a member.
		writeJSON(w, http.StatusNotFound, apiErr("Member not found", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, memberstore.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, apiErr("Member not found", nil))
			return
		}
		h.ErrLog.LogError(r, "api get member", err)
		writeJSON(w, http.StatusInternalServerError, apiErr("Failed to load member", nil))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"member": m})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PATCH /api/members/{id}                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// apiUpdate mirrors the independently editable form groups; absent fields
// stay untouched.
type apiUpdate struct {
	FirstName     *string   `json:"firstname"`
	MiddleName    *string   `json:"middlename"`
	LastName      *string   `json:"lastname"`
	NameExtension *string   `json:"name_extensions"`
	Age           *int      `json:"age"`
	Address       *string   `json:"address"`
	Email         *string   `json:"email"`
	Contact       *string   `json:"contact"`
	Status        *string   `json:"status"`
	DateJoined    *string   `json:"datajoined"`
	Position      *string   `json:"position"`
	Absences      *int      `json:"absences"`
	Profession    *string   `json:"profession"`
	Feedback      *string   `json:"feedback"`
	Skills        *[]string `json:"skills"`
	Hobbies       *[]string `json:"hobbies"`
	BusinessInfo  *string   `json:"business_info"`
	EducationInfo *string   `json:"education_info"`
}

func (h *Handler) APIUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiErr("Member not found", nil))
		return
	}

	var in apiUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, apiErr("Invalid JSON body", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Members.Apply(ctx, id, memberstore.Update{
		FirstName:     in.FirstName,
		MiddleName:    in.MiddleName,
		LastName:      in.LastName,
		NameExtension: in.NameExtension,
		Age:           in.Age,
		Address:       in.Address,
		Email:         in.Email,
		Contact:       in.Contact,
		Status:        in.Status,
		DateJoined:    in.DateJoined,
		Position:      in.Position,
		Absences:      in.Absences,
		Profession:    in.Profession,
		Feedback:      in.Feedback,
		Skills:        in.Skills,
		Hobbies:       in.Hobbies,
		BusinessInfo:  in.BusinessInfo,
		EducationInfo: in.EducationInfo,
	})
	switch {
	case errors.Is(err, memberstore.ErrNotFound):
		writeJSON(w, http.StatusNotFound, apiErr("Member not found", nil))
		return
	case err != nil:
		if ve, ok := memberstore.AsValidation(err); ok {
			writeJSON(w, http.StatusBadRequest, apiErr("Validation failed", ve.Fields))
			return
		}
		h.ErrLog.LogError(r, "api update member", err)
		writeJSON(w, http.StatusInternalServerError, apiErr("Failed to update member", nil))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Member updated",
		"member":  updated,
	})
}
