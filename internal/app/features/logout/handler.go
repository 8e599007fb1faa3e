// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/kapatiranph/portal/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles GET /logout. Signing out an already signed-out visitor
// is harmless; the deletion cookie is sent either way.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("signed out", zap.String("account_id", u.ID))
	}

	h.SessionMgr.SignOut(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
