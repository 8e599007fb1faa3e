// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

// Routes mounts the admin roster screens.
// Typically: r.Mount("/portal/members", members.Routes(handler))
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Get("/export.csv", h.ServeExport)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}/view", h.ServeView)
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)

	return r
}

// APIRoutes mounts the JSON API for the mobile client.
// Typically: r.Mount("/api/members", members.APIRoutes(handler))
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.APIList)
	r.Post("/", h.APICreate)
	r.Get("/{id}", h.APIGet)
	r.Patch("/{id}", h.APIUpdate)

	return r
}
