// internal/app/features/portalmember/routes.go
package portalmember

import "github.com/go-chi/chi/v5"

// Routes mounts the member self-service portal.
// Typically: r.Mount("/portal-member", portalmember.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeProfile)
	r.Get("/events", h.ServeEvents)
	r.Post("/events/attend", h.HandleAttend)
	r.Get("/contributions", h.ServeContributions)

	return r
}
