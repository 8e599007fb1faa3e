// internal/app/system/auth/flash.go
package auth

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const flashSessionName = "portal-flash"

// FlashStore carries one-shot messages (login errors, "member saved" notices)
// across a redirect. It is separate from the auth session: flashes are
// server-written cookies that must survive exactly one read.
type FlashStore struct {
	store *sessions.CookieStore
}

// NewFlashStore builds a FlashStore. With an empty key (dev, tests) a random
// key is generated, which means flashes do not survive a process restart.
func NewFlashStore(key string, secure bool, logger *zap.Logger) *FlashStore {
	if key == "" {
		key = string(securecookie.GenerateRandomKey(32))
		logger.Warn("flash store using a generated key; set one for production")
	}
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: store}
}

// Add queues a flash message.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, msg string) {
	sess, _ := f.store.Get(r, flashSessionName)
	sess.AddFlash(msg)
	_ = sess.Save(r, w)
}

// Pop returns and clears any queued flash messages.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []string {
	sess, _ := f.store.Get(r, flashSessionName)
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save(r, w) // persist the cleared state
	}
	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs
}
