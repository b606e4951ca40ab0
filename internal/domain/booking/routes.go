package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the guest booking router mounted at /bookings
func (h *Handler) Routes(authMiddleware, optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.With(optionalAuth).Post("/quote", h.Quote)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListMine)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Modify)
		r.Post("/{id}/cancel", h.Cancel)
	})

	return r
}

// HostRoutes returns the router mounted at /host/bookings.
// Callers wrap it with auth and host role middleware.
func (h *Handler) HostRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListForHost)
	r.Post("/{id}/confirm", h.Confirm)
	r.Post("/{id}/complete", h.Complete)

	return r
}
