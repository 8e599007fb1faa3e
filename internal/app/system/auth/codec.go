// internal/app/system/auth/codec.go
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session stays valid. The cookie MaxAge
// is kept in lockstep so the browser drops it when the token expires.
const SessionTTL = 7 * 24 * time.Hour

// DefaultRole is assumed when a verified token carries no role claim.
// This is a deliberate rule, not a fallback: tokens minted before roles
// were added belong to regular members.
const DefaultRole = RoleMember

// Roles carried in session tokens.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ErrNoSessionSecret is returned when a codec is constructed without a
// signing secret. The server must not start without one.
var ErrNoSessionSecret = errors.New("auth: session secret is not configured")

// Session is the decoded, verified contents of the session cookie.
type Session struct {
	UserID    string
	Role      string
	ExpiresAt time.Time
}

type sessionClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session tokens. Tokens are HS256 JWTs carrying
// {sub, role, exp}; nothing else is trusted from the client.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec with the given signing secret and token lifetime.
// A ttl of 0 means SessionTTL.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSessionSecret
	}
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// Create signs a token for the user and returns it with its expiry instant.
func (c *Codec) Create(userID, role string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(c.ttl)
	claims := sessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Verify checks the token's signature and expiry. It returns nil for any
// failure — malformed token, wrong signature, expired — so callers can only
// ever distinguish "session" from "no session".
func (c *Codec) Verify(token string) *Session {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil
	}
	role := claims.Role
	if role == "" {
		role = DefaultRole
	}
	return &Session{
		UserID:    claims.Subject,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
