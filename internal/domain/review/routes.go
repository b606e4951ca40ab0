package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the router mounted at /reviews
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)

	return r
}

// CampRoutes hangs the public review reads off /camps/{id}
func (h *Handler) CampRoutes(r chi.Router) {
	r.Get("/reviews", h.ListByCamp)
	r.Get("/reviews/summary", h.Summary)
}
