// internal/app/system/auth/manager.go
package auth

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// CookieName is the session cookie. HTTP-only and signed; Secure in prod.
const CookieName = "session"

// SessionUser is what LoadSessionUser injects into r.Context().
// When a UserFetcher is configured it is fresh from the database, so role
// changes and disabled accounts take effect on the next request.
type SessionUser struct {
	ID       string
	Name     string
	Email    string
	Role     string
	MemberID string // roster record hex id for member accounts, "" for admins
}

// UserFetcher loads fresh user data for a verified session. Returning nil
// means the account no longer exists or may not sign in; the request is then
// treated as unauthenticated.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the session user and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// SessionManager issues, clears, and reads the session cookie.
type SessionManager struct {
	codec   *Codec
	name    string
	domain  string
	secure  bool
	log     *zap.Logger
	fetcher UserFetcher
}

// NewSessionManager builds a SessionManager. cookieName "" means CookieName.
// The secure flag controls the cookie's Secure attribute; keep it false only
// for http://localhost development.
func NewSessionManager(secret, cookieName, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	codec, err := NewCodec(secret, SessionTTL)
	if err != nil {
		return nil, err
	}
	if len(secret) < 32 {
		logger.Warn("session secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if cookieName == "" {
		cookieName = CookieName
	}
	return &SessionManager{
		codec:  codec,
		name:   cookieName,
		domain: domain,
		secure: secure,
		log:    logger,
	}, nil
}

// SetUserFetcher makes LoadSessionUser fetch fresh user data per request
// instead of trusting the token's role claim alone.
func (m *SessionManager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// CookieNameInUse returns the configured cookie name (tests use it).
func (m *SessionManager) CookieNameInUse() string { return m.name }

// SignIn creates a session token for the user and sets the cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, userID, role string) error {
	token, exp, err := m.codec.Create(userID, role)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    token,
		Path:     "/",
		Domain:   m.domain,
		Expires:  exp,
		MaxAge:   int(time.Until(exp).Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// SignOut deletes the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		Domain:   m.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionFromRequest decodes and verifies the session cookie. It never
// returns an error: anything short of a valid, unexpired signature is nil.
func (m *SessionManager) SessionFromRequest(r *http.Request) *Session {
	c, err := r.Cookie(m.name)
	if err != nil || c.Value == "" {
		return nil
	}
	return m.codec.Verify(c.Value)
}

// LoadSessionUser is global middleware: it decodes the cookie once per
// request and injects the SessionUser into context if the session verifies.
// Verification failures fall through silently — downstream middleware sees
// an unauthenticated request.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.SessionFromRequest(r)
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		if m.fetcher != nil {
			if u := m.fetcher.FetchUser(r.Context(), sess.UserID); u != nil {
				next.ServeHTTP(w, withUser(r, u))
				return
			}
			// Account gone or disabled since the token was minted.
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withUser(r, &SessionUser{ID: sess.UserID, Role: sess.Role}))
	})
}

// WithTestUser injects a user into the request context, bypassing the
// session middleware. For handler tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
