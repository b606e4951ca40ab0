package booking

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/currency"
	"github.com/campy/campy-api/internal/pkg/errorhandler"
	"github.com/campy/campy-api/internal/pkg/response"
	"github.com/campy/campy-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Quote handles POST /bookings/quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	var req StayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	quote, err := h.service.Quote(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "booking.quote", err)
		return
	}
	response.OK(w, quote)
}

// Create handles POST /bookings
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

	b, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "booking.create", err)
		return
	}
	response.Created(w, b)
}

// ListMine handles GET /bookings
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	page, limit := response.Pagination(r.URL.Query(), 20, 100)

	bookings, total, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()), filter, page, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "booking.list_mine", err)
		return
	}
	response.WithMeta(w, bookings, response.NewMeta(total, page, limit))
}

// Get handles GET /bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, "booking.get", err)
		return
	}
	response.OK(w, b)
}

// Modify handles PATCH /bookings/{id}
func (h *Handler) Modify(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	var req ModifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Modify(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "booking.modify", err)
		return
	}
	response.OK(w, b)
}

// Cancel handles POST /bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}

	var req CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	b, err := h.service.Cancel(r.Context(), id, middleware.GetUserID(r.Context()), req.Reason)
	if err != nil {
		h.writeError(w, r, "booking.cancel", err)
		return
	}
	response.OK(w, b)
}

// ListForHost handles GET /host/bookings
func (h *Handler) ListForHost(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	page, limit := response.Pagination(r.URL.Query(), 20, 100)

	bookings, total, err := h.service.ListForHost(r.Context(), middleware.GetUserID(r.Context()), filter, page, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "booking.list_host", err)
		return
	}
	response.WithMeta(w, bookings, response.NewMeta(total, page, limit))
}

// Confirm handles POST /host/bookings/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Confirm(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, "booking.confirm", err)
		return
	}
	response.OK(w, b)
}

// Complete handles POST /host/bookings/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookingID(w, r)
	if !ok {
		return
	}
	b, err := h.service.Complete(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, "booking.complete", err)
		return
	}
	response.OK(w, b)
}

// Dashboard handles GET /host/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, "booking.dashboard", err)
		return
	}
	response.OK(w, stats)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var invalid *ValidationError
	var mismatch *PriceMismatchError

	switch {
	case errors.As(err, &invalid):
		response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "BOOKING_INVALID", "Booking is not valid", map[string][]string{
			"errors":   invalid.Result.Errors,
			"warnings": invalid.Result.Warnings,
		})
	case errors.As(err, &mismatch):
		response.ErrorWithDetails(w, http.StatusConflict, "PRICE_MISMATCH", "Price has changed, please review the new total", mismatch)
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrCampNotBookable):
		response.NotFound(w, "Camp not found")
	case errors.Is(err, ErrAccommodationNotFound):
		response.NotFound(w, "Accommodation not found")
	case errors.Is(err, ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotModifiable), errors.Is(err, ErrCancelWindowClosed):
		response.Error(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, ErrPaymentInReview):
		response.Error(w, http.StatusConflict, "PAYMENT_IN_REVIEW", err.Error())
	case errors.Is(err, ErrDatesUnavailable):
		response.Error(w, http.StatusConflict, "DATES_UNAVAILABLE", err.Error())
	case errors.Is(err, pricing.ErrInvalidDate):
		response.ValidationError(w, map[string]string{"dates": "Dates must be YYYY-MM-DD"})
	case errors.Is(err, currency.ErrUnsupportedCurrency):
		response.ValidationError(w, map[string]string{"currency": "Unsupported currency"})
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}

func parseFilter(w http.ResponseWriter, r *http.Request) (ListFilter, bool) {
	status := Status(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		response.BadRequest(w, "Invalid status filter")
		return ListFilter{}, false
	}
	return ListFilter{Status: status}, true
}

func bookingID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking ID")
		return uuid.Nil, false
	}
	return id, true
}
