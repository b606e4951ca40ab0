package review

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/errorhandler"
	"github.com/campy/campy-api/internal/pkg/response"
	"github.com/campy/campy-api/internal/pkg/validator"
)

// Handler handles review HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new review handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /reviews
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rev, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	switch {
	case errors.Is(err, ErrNotEligible):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyReviewed):
		response.Conflict(w, err.Error())
	case err != nil:
		errorhandler.Internal(r.Context(), w, "review.create", err)
	default:
		response.Created(w, rev.ToResponse())
	}
}

// Delete handles DELETE /reviews/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid review ID")
		return
	}

	err = h.service.Delete(r.Context(), id, middleware.GetUserID(r.Context()))
	switch {
	case errors.Is(err, ErrReviewNotFound):
		response.NotFound(w, "Review not found")
	case errors.Is(err, ErrNotAuthor):
		response.Forbidden(w, err.Error())
	case err != nil:
		errorhandler.Internal(r.Context(), w, "review.delete", err)
	default:
		response.NoContent(w)
	}
}

// ListByCamp handles GET /camps/{id}/reviews
func (h *Handler) ListByCamp(w http.ResponseWriter, r *http.Request) {
	campID, ok := campIDParam(w, r)
	if !ok {
		return
	}
	page, limit := response.Pagination(r.URL.Query(), 10, 50)

	reviews, total, err := h.service.ListByCamp(r.Context(), campID, page, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "review.list", err)
		return
	}

	items := make([]*ReviewResponse, len(reviews))
	for i, rev := range reviews {
		items[i] = rev.ToResponse()
	}
	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Summary handles GET /camps/{id}/reviews/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	campID, ok := campIDParam(w, r)
	if !ok {
		return
	}
	summary, err := h.service.Summary(r.Context(), campID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "review.summary", err)
		return
	}
	response.OK(w, summary)
}

func campIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid camp ID")
		return uuid.Nil, false
	}
	return id, true
}
