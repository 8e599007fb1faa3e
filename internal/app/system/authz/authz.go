// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/kapatiranph/portal/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, account ObjectID, and a
// found flag. If no user is present or the stored ID is malformed it returns
// "visitor", "", NilObjectID, false — ok=true always means a valid,
// authenticated user with a parseable ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed ID in the session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == auth.RoleAdmin
}

// IsMember reports whether the current request's user is a member.
func IsMember(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == auth.RoleMember
}

// MemberID returns the roster record ObjectID linked to the current user's
// account. NilObjectID when not signed in or the account has no roster link.
func MemberID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok || user.MemberID == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(user.MemberID)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}
