// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/kapatiranph/portal/internal/app/system/authz"
	"go.uber.org/zap"
)

// pageData is the view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

// ErrorLogger logs handler-level failures with enough context to find them
// without leaking internals to the visitor.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogError records a handler failure.
func (e *ErrorLogger) LogError(r *http.Request, op string, err error) {
	e.log.Error("handler error",
		zap.String("op", op),
		zap.String("path", r.URL.Path),
		zap.Error(err))
}

// Handler serves the standalone error pages.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden handles GET /forbidden.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "error_forbidden", pageData{
		Title:      "Access denied",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "You don't have access to that page.",
		BackURL:    "/",
	})
}

// Unauthorized handles GET /unauthorized.
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)
	templates.Render(w, r, "error_forbidden", pageData{
		Title:      "Sign in required",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "Please sign in to continue.",
		BackURL:    "/login",
	})
}
