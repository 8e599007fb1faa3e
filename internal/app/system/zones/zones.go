// internal/app/system/zones/zones.go

// Package zones classifies request paths into access zones and decides, from
// (zone, session), what happens to a request before any handler runs.
//
// The decision is a pure function with no side effects: handlers never see a
// request the gate did not allow, and the gate itself logs nothing.
package zones

import "strings"

// Zone is a path-prefix-defined access category.
type Zone int

const (
	// ZoneOpen paths are reachable by everyone.
	ZoneOpen Zone = iota
	// ZoneAdmin paths require an admin session.
	ZoneAdmin
	// ZoneMember paths require a member session.
	ZoneMember
	// ZonePublicOnly paths (login screens) bounce signed-in users to their
	// home instead of showing them another login form.
	ZonePublicOnly
)

func (z Zone) String() string {
	switch z {
	case ZoneAdmin:
		return "admin"
	case ZoneMember:
		return "member"
	case ZonePublicOnly:
		return "public-only"
	default:
		return "open"
	}
}

// Well-known destinations used by the gate.
const (
	LoginPath  = "/login"
	AdminHome  = "/portal"
	MemberHome = "/portal-member"
)

// Config holds the path prefixes for each restricted zone. Anything that
// matches no list is open.
type Config struct {
	Admin  []string
	Member []string
	Public []string
}

// Default is the portal's zone map. /portal-member must win over /portal,
// which segment-aware longest-prefix matching guarantees.
func Default() Config {
	return Config{
		Admin:  []string{AdminHome, "/api/members"},
		Member: []string{MemberHome},
		Public: []string{LoginPath, "/auth/google"},
	}
}

// Classify places a path in exactly one zone. The longest matching prefix
// wins; equal-length matches resolve in admin, member, public order.
// Prefixes match whole path segments: "/portal" matches "/portal/members"
// but not "/portal-member".
func (c Config) Classify(path string) Zone {
	best, bestLen := ZoneOpen, -1
	check := func(prefixes []string, z Zone) {
		for _, p := range prefixes {
			if matchesPrefix(path, p) && len(p) > bestLen {
				best, bestLen = z, len(p)
			}
		}
	}
	check(c.Admin, ZoneAdmin)
	check(c.Member, ZoneMember)
	check(c.Public, ZonePublicOnly)
	return best
}

func matchesPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix) && len(path) > len(prefix) && path[len(prefix)] == '/'
}

// Action is the gate's verdict on a request.
type Action int

const (
	// Allow lets the request through to its handler.
	Allow Action = iota
	// RedirectLogin sends the request to the login page.
	RedirectLogin
	// RedirectAdminHome sends a signed-in admin to /portal.
	RedirectAdminHome
	// RedirectMemberHome sends a signed-in member to /portal-member.
	RedirectMemberHome
)

// Target returns the redirect destination for the action, or "" for Allow.
func (a Action) Target() string {
	switch a {
	case RedirectLogin:
		return LoginPath
	case RedirectAdminHome:
		return AdminHome
	case RedirectMemberHome:
		return MemberHome
	default:
		return ""
	}
}

// Decide applies the zone x session transition table:
//
//	zone         no session   admin        member
//	admin        login        allow        member home
//	member       login        admin home   allow
//	public-only  allow        admin home   member home
//	open         allow        allow        allow
//
// Any signed-in role other than admin is treated as member.
func Decide(zone Zone, role string, signedIn bool) Action {
	isAdmin := signedIn && role == "admin"
	switch zone {
	case ZoneAdmin:
		if !signedIn {
			return RedirectLogin
		}
		if isAdmin {
			return Allow
		}
		return RedirectMemberHome
	case ZoneMember:
		if !signedIn {
			return RedirectLogin
		}
		if isAdmin {
			return RedirectAdminHome
		}
		return Allow
	case ZonePublicOnly:
		if !signedIn {
			return Allow
		}
		if isAdmin {
			return RedirectAdminHome
		}
		return RedirectMemberHome
	default:
		return Allow
	}
}
