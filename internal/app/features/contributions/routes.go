// internal/app/features/contributions/routes.go
package contributions

import "github.com/go-chi/chi/v5"

// Routes mounts the admin contribution ledger.
// Typically: r.Mount("/portal/contributions", contributions.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeIndex)
	r.Get("/{id}", h.ServeLedger)
	r.Post("/{id}", h.HandleAppend)

	return r
}
