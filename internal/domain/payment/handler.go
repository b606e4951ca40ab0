package payment

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/booking"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/errorhandler"
	"github.com/campy/campy-api/internal/pkg/response"
	"github.com/campy/campy-api/internal/pkg/storage"
	"github.com/campy/campy-api/internal/pkg/validator"
)

// MaxSlipUploadSize bounds the multipart body of a slip upload
const MaxSlipUploadSize = 6 << 20

// Handler handles payment HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates payment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /payments
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

	p, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "payment.create", err)
		return
	}
	response.Created(w, p)
}

// Get handles GET /payments/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, "payment.get", err)
		return
	}
	response.OK(w, p)
}

// UploadSlip handles POST /payments/{id}/slip
// Multipart form: file
func (h *Handler) UploadSlip(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxSlipUploadSize)
	if err := r.ParseMultipartForm(MaxSlipUploadSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	p, err := h.service.UploadSlip(r.Context(), id, middleware.GetUserID(r.Context()), file)
	if err != nil {
		h.writeError(w, r, "payment.upload_slip", err)
		return
	}
	response.OK(w, p)
}

// History handles GET /payments
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	page, limit := response.Pagination(r.URL.Query(), 20, 100)

	payments, total, err := h.service.History(r.Context(), middleware.GetUserID(r.Context()), page, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "payment.history", err)
		return
	}
	response.WithMeta(w, payments, response.NewMeta(total, page, limit))
}

// ListForHost handles GET /host/payments
func (h *Handler) ListForHost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := response.Pagination(q, 20, 100)

	status := Status(q.Get("status"))
	switch status {
	case "", StatusPending, StatusSubmitted, StatusVerified, StatusRejected:
	default:
		response.BadRequest(w, "Invalid status filter")
		return
	}

	payments, total, err := h.service.ListForHost(r.Context(), middleware.GetUserID(r.Context()), status, page, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "payment.list_host", err)
		return
	}
	response.WithMeta(w, payments, response.NewMeta(total, page, limit))
}

// Verify handles POST /host/payments/{id}/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Verify(r.Context(), id, middleware.GetUserID(r.Context()), req.PaidAmount)
	if err != nil {
		h.writeError(w, r, "payment.verify", err)
		return
	}
	response.OK(w, p)
}

// Reject handles POST /host/payments/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := paymentID(w, r)
	if !ok {
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	p, err := h.service.Reject(r.Context(), id, middleware.GetUserID(r.Context()), req.Reason)
	if err != nil {
		h.writeError(w, r, "payment.reject", err)
		return
	}
	response.OK(w, p)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var mismatch *AmountMismatchError

	switch {
	case errors.As(err, &mismatch):
		response.ErrorWithDetails(w, http.StatusUnprocessableEntity, "AMOUNT_MISMATCH", "Paid amount does not match the booking total", mismatch)
	case errors.Is(err, ErrPaymentNotFound):
		response.NotFound(w, "Payment not found")
	case errors.Is(err, booking.ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrForbidden), errors.Is(err, booking.ErrForbidden):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrBookingNotPayable), errors.Is(err, ErrInvalidStatus):
		response.Error(w, http.StatusConflict, "INVALID_STATUS", err.Error())
	case errors.Is(err, ErrPaymentExists):
		response.Conflict(w, err.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		response.BadRequest(w, "File exceeds maximum size")
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.BadRequest(w, "File type not allowed")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "File is empty")
	case errors.Is(err, image.ErrFormat):
		response.BadRequest(w, "Image could not be decoded")
	default:
		errorhandler.Internal(r.Context(), w, op, err)
	}
}

func paymentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return uuid.Nil, false
	}
	return id, true
}
