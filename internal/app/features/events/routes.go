// internal/app/features/events/routes.go
package events

import "github.com/go-chi/chi/v5"

// Routes mounts the admin event screens.
// Typically: r.Mount("/portal/events", events.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.ServeDetail)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
