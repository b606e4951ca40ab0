package camp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the public catalog router mounted at /camps.
// extra lets other domains hang sub-routes off /camps/{id}.
func (h *Handler) Routes(optionalAuth func(http.Handler) http.Handler, extra ...func(chi.Router)) chi.Router {
	r := chi.NewRouter()
	r.Use(optionalAuth)

	r.Get("/", h.Search)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Get("/quote", h.Quote)
		for _, fn := range extra {
			fn(r)
		}
	})

	return r
}

// HostRoutes returns the listing management router mounted at /host/camps.
// Callers wrap it with auth and host role middleware.
func (h *Handler) HostRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMine)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Patch("/", h.Update)
		r.Post("/publish", h.Publish)
		r.Post("/archive", h.Archive)
		r.Post("/images", h.UploadImage)
		r.Post("/accommodations", h.AddAccommodation)
		r.Patch("/accommodations/{accID}", h.UpdateAccommodation)
		r.Post("/addons", h.AddAddon)
	})

	return r
}
