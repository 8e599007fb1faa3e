// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/kapatiranph/portal/internal/app/features/errors"
	accounts "github.com/kapatiranph/portal/internal/app/store/accounts"
	"github.com/kapatiranph/portal/internal/app/system/auth"
	"github.com/kapatiranph/portal/internal/app/system/normalize"
	"github.com/kapatiranph/portal/internal/app/system/ratelimit"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"github.com/kapatiranph/portal/internal/app/system/zones"
	"github.com/kapatiranph/portal/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type Handler struct {
	Accounts      *accounts.Store
	SessionMgr    *auth.SessionManager
	ErrLog        *uierrors.ErrorLogger
	GoogleEnabled bool
	Limiter       *ratelimit.LoginLimiter
	Log           *zap.Logger
}

func NewHandler(
	accts *accounts.Store,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Accounts:      accts,
		SessionMgr:    sessionMgr,
		ErrLog:        errLog,
		GoogleEnabled: googleEnabled,
		Limiter:       ratelimit.NewLoginLimiter(),
		Log:           logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	GoogleEnabled bool
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /login                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	// Already signed in: the login page has nothing to offer, route by role.
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, HomeFor(u.Role), http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign In", "/"),
		GoogleEnabled: h.GoogleEnabled,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /login                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderFormWithError(w, r, "Invalid form data.", "")
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := strings.TrimSpace(r.FormValue("password"))
	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email)
		return
	}

	if ok, msg := h.Limiter.Check(r, email); !ok {
		h.Log.Warn("login throttled",
			zap.String("ip", ratelimit.ClientIP(r)),
			zap.String("email", email))
		h.renderFormWithError(w, r, msg, email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Accounts.Authenticate(ctx, email, password)
	switch {
	case errors.Is(err, accounts.ErrBadCredentials):
		h.renderFormWithError(w, r, "Invalid email or password.", email)
		return
	case err != nil:
		h.ErrLog.LogError(r, "authenticate account", err)
		h.renderFormWithError(w, r, "A server error occurred. Please try again.", email)
		return
	}

	h.Limiter.ResetEmail(email)

	if err := h.SessionMgr.SignIn(w, acct.ID.Hex(), acct.Role); err != nil {
		h.ErrLog.LogError(r, "issue session", err)
		h.renderFormWithError(w, r, "A server error occurred. Please try again.", email)
		return
	}

	h.Log.Info("signed in",
		zap.String("account_id", acct.ID.Hex()),
		zap.String("role", acct.Role))

	http.Redirect(w, r, HomeFor(acct.Role), http.StatusSeeOther)
}

// HomeFor maps a role to its landing page after sign-in.
func HomeFor(role string) string {
	if role == models.RoleAdmin {
		return zones.AdminHome
	}
	return zones.MemberHome
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:        viewdata.NewBaseVM(r, "Sign In", "/"),
		Error:         msg,
		Email:         email,
		GoogleEnabled: h.GoogleEnabled,
	})
}
