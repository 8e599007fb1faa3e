// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kapatiranph/portal/internal/app/features/login"
	accounts "github.com/kapatiranph/portal/internal/app/store/accounts"
	"github.com/kapatiranph/portal/internal/app/system/auth"
	"github.com/kapatiranph/portal/internal/app/system/normalize"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// stateCookie holds the anti-forgery state between the redirect to Google
// and the callback. Ten minutes is plenty for a consent screen.
const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 10 * time.Minute
)

type Handler struct {
	Accounts   *accounts.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger

	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g. "https://kapatiran.ph/auth/google/callback"
	Secure       bool
}

func NewHandler(
	accts *accounts.Store,
	sessionMgr *auth.SessionManager,
	clientID, clientSecret, baseURL string,
	secure bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Accounts:     accts,
		SessionMgr:   sessionMgr,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		Secure:       secure,
	}
}

// Enabled reports whether Google sign-in is configured.
func (h *Handler) Enabled() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google – start the OAuth flow                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeStart(w http.ResponseWriter, r *http.Request) {
	if !h.Enabled() {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("generate oauth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=server", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if state == "" || err != nil ||
		subtle.ConstantTimeCompare([]byte(state), []byte(cookie.Value)) != 1 {
		h.Log.Warn("oauth state mismatch")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}
	h.clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/login?error=denied", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("oauth code exchange failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=exchange", http.StatusSeeOther)
		return
	}

	info, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("fetch google userinfo failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=userinfo", http.StatusSeeOther)
		return
	}

	acct, err := h.lookupAccount(ctx, info)
	switch {
	case errors.Is(err, accounts.ErrNotFound):
		// No portal account for this Google identity; accounts are created
		// by an admin, never on first sign-in.
		h.Log.Info("google sign-in for unknown account",
			zap.String("email", info.Email))
		http.Redirect(w, r, "/login?error=no_account", http.StatusSeeOther)
		return
	case err != nil:
		h.Log.Error("google account lookup failed", zap.Error(err))
		http.Redirect(w, r, "/login?error=server", http.StatusSeeOther)
		return
	}

	if err := h.SessionMgr.SignIn(w, acct.ID.Hex(), acct.Role); err != nil {
		h.Log.Error("issue session after google sign-in", zap.Error(err))
		http.Redirect(w, r, "/login?error=server", http.StatusSeeOther)
		return
	}

	h.Log.Info("signed in with google",
		zap.String("account_id", acct.ID.Hex()),
		zap.String("role", acct.Role))

	http.Redirect(w, r, login.HomeFor(acct.Role), http.StatusSeeOther)
}

// lookupAccount finds the portal account for a Google identity: first by the
// stored Google subject, then by verified email. A first-time email match
// links the subject to the account.
func (h *Handler) lookupAccount(ctx context.Context, info *googleUserInfo) (*models.Account, error) {
	if acct, err := h.Accounts.GetByGoogleSub(ctx, info.ID); err == nil {
		return acct, nil
	} else if !errors.Is(err, accounts.ErrNotFound) {
		return nil, err
	}

	if !info.VerifiedEmail {
		return nil, accounts.ErrNotFound
	}

	acct, err := h.Accounts.GetByEmail(ctx, normalize.Email(info.Email))
	if err != nil {
		return nil, err
	}
	if err := h.Accounts.AttachGoogleSub(ctx, acct.ID, info.ID); err != nil {
		h.Log.Warn("attach google subject failed", zap.Error(err))
	}
	return acct, nil
}

func (h *Handler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// googleUserInfo is the subset of Google's userinfo response the portal uses.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
