// Package gates provides handler-level authorization checks.
//
// The zone guard in bootstrap already keeps members out of /portal and
// admins out of /portal-member; gates exist for handlers that additionally
// need the user's identity, or that live on mixed-access routes. A gate
// renders the error page itself and returns OK=false, so handlers read as:
//
//	g := gates.RequireAdmin(w, r, "Admins only.", "/")
//	if !g.OK {
//	    return
//	}
package gates

import (
	"net/http"

	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	"github.com/kapatiranph/portal/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result contains the outcome of a gate check.
type Result struct {
	Role   string
	Name   string
	UserID primitive.ObjectID
	OK     bool
}

// RequireAuth ensures a user is authenticated; loginURL is where the error
// page offers to send them.
func RequireAuth(w http.ResponseWriter, r *http.Request, loginURL string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, loginURL)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireAdmin ensures the user is authenticated with the admin role.
func RequireAdmin(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if role != "admin" {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}

// RequireMember ensures the user is authenticated with the member role and
// linked to a roster record.
func RequireMember(w http.ResponseWriter, r *http.Request, forbiddenMsg, fallbackURL string) Result {
	role, name, uid, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r, "/login")
		return Result{OK: false}
	}
	if role != "member" {
		uierrors.RenderForbidden(w, r, forbiddenMsg, fallbackURL)
		return Result{OK: false}
	}
	if authz.MemberID(r) == primitive.NilObjectID {
		uierrors.RenderForbidden(w, r, "Your account is not linked to a member record.", fallbackURL)
		return Result{OK: false}
	}
	return Result{Role: role, Name: name, UserID: uid, OK: true}
}
