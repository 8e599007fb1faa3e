// internal/app/system/zones/middleware.go
package zones

import (
	"net/http"

	"github.com/kapatiranph/portal/internal/app/system/auth"
)

// Guard returns middleware enforcing the zone table. It must be installed
// after auth.SessionManager.LoadSessionUser so the session user is already
// in context. API callers under an admin-zone prefix get a bare 401/403
// rather than an HTML redirect.
func Guard(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, signedIn := "", false
			if u, ok := auth.CurrentUser(r); ok {
				role, signedIn = u.Role, true
			}

			action := Decide(cfg.Classify(r.URL.Path), role, signedIn)
			if action == Allow {
				next.ServeHTTP(w, r)
				return
			}

			if isAPIRequest(r) {
				if action == RedirectLogin {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
				} else {
					http.Error(w, "forbidden", http.StatusForbidden)
				}
				return
			}

			http.Redirect(w, r, action.Target(), http.StatusSeeOther)
		})
	}
}

func isAPIRequest(r *http.Request) bool {
	return len(r.URL.Path) >= 5 && r.URL.Path[:5] == "/api/"
}
