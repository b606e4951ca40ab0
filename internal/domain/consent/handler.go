package consent

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/errorhandler"
	"github.com/campy/campy-api/internal/pkg/response"
	"github.com/campy/campy-api/internal/pkg/validator"
)

// HeaderConsentID carries the browser id of visitors without an account
const HeaderConsentID = "X-Consent-ID"

// Handler handles consent HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates consent handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /consent
func (h *Handler) Routes(optionalAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(optionalAuth)

	r.Get("/", h.Get)
	r.Put("/", h.Update)
	r.Get("/history", h.History)

	return r
}

// Get handles GET /consent
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Current(r.Context(), subject)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "consent.get", err)
		return
	}
	response.OK(w, rec)
}

// Update handles PUT /consent
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rec, err := h.service.Update(r.Context(), subject, &req, clientIP(r), r.UserAgent())
	switch {
	case errors.Is(err, ErrUnknownCategory), errors.Is(err, ErrNecessaryRequired):
		response.ValidationError(w, map[string]string{"categories": err.Error()})
	case err != nil:
		errorhandler.Internal(r.Context(), w, "consent.update", err)
	default:
		response.OK(w, rec)
	}
}

// History handles GET /consent/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}
	limit := 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}

	records, err := h.service.History(r.Context(), subject, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "consent.history", err)
		return
	}
	response.OK(w, records)
}

// subjectFrom prefers the signed-in user over the anonymous header
func subjectFrom(w http.ResponseWriter, r *http.Request) (Subject, bool) {
	if userID := middleware.GetUserID(r.Context()); userID != uuid.Nil {
		return Subject{Type: SubjectUser, ID: userID}, true
	}
	id, err := uuid.Parse(r.Header.Get(HeaderConsentID))
	if err != nil || id == uuid.Nil {
		response.BadRequest(w, ErrMissingSubject.Error())
		return Subject{}, false
	}
	return Subject{Type: SubjectAnonymous, ID: id}, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
