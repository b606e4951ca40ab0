package payment

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the guest payment router mounted at /payments.
// Callers wrap it with auth middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.History)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/slip", h.UploadSlip)

	return r
}

// HostRoutes returns the router mounted at /host/payments
func (h *Handler) HostRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListForHost)
	r.Post("/{id}/verify", h.Verify)
	r.Post("/{id}/reject", h.Reject)

	return r
}
