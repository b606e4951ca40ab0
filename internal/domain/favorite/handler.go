package favorite

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campy/campy-api/internal/domain/camp"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/errorhandler"
	"github.com/campy/campy-api/internal/pkg/response"
	"github.com/campy/campy-api/internal/pkg/validator"
)

// CampLookup resolves camps before they are saved
type CampLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*camp.Camp, error)
}

// Handler for favorites API
type Handler struct {
	repo  Repository
	camps CampLookup
}

// NewHandler creates favorites handler
func NewHandler(repo Repository, camps CampLookup) *Handler {
	return &Handler{repo: repo, camps: camps}
}

// Add handles POST /favorites
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c, err := h.camps.GetByID(r.Context(), req.CampID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "favorite.add", err)
		return
	}
	if c == nil || c.Status != camp.StatusPublished {
		response.NotFound(w, "Camp not found")
		return
	}

	created, err := h.repo.Add(r.Context(), userID, req.CampID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "favorite.add", err)
		return
	}
	if created {
		log.Debug().Str("user_id", userID.String()).Str("camp_id", req.CampID.String()).Msg("camp saved to favorites")
	}

	response.Created(w, map[string]interface{}{"camp_id": req.CampID, "is_favorited": true})
}

// Remove handles DELETE /favorites/{campID}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	campID, ok := campIDParam(w, r)
	if !ok {
		return
	}
	if err := h.repo.Remove(r.Context(), middleware.GetUserID(r.Context()), campID); err != nil {
		errorhandler.Internal(r.Context(), w, "favorite.remove", err)
		return
	}
	response.NoContent(w)
}

// Check handles GET /favorites/{campID}/check
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	campID, ok := campIDParam(w, r)
	if !ok {
		return
	}
	exists, err := h.repo.Exists(r.Context(), middleware.GetUserID(r.Context()), campID)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "favorite.check", err)
		return
	}
	response.OK(w, map[string]bool{"is_favorited": exists})
}

// List handles GET /favorites
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := response.Pagination(r.URL.Query(), 20, 100)

	items, total, err := h.repo.ListByUser(r.Context(), middleware.GetUserID(r.Context()), limit, (page-1)*limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "favorite.list", err)
		return
	}
	response.WithMeta(w, items, response.NewMeta(total, page, limit))
}

// Routes returns favorites routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Add)
	r.Get("/", h.List)
	r.Delete("/{campID}", h.Remove)
	r.Get("/{campID}/check", h.Check)

	return r
}

func campIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "campID"))
	if err != nil {
		response.BadRequest(w, "Invalid camp ID")
		return uuid.Nil, false
	}
	return id, true
}
