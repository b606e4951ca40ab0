package camp

import (
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/currency"
	"github.com/campy/campy-api/internal/pkg/errorhandler"
	"github.com/campy/campy-api/internal/pkg/response"
	"github.com/campy/campy-api/internal/pkg/storage"
	"github.com/campy/campy-api/internal/pkg/validator"
)

// MaxImageUploadSize bounds the multipart body of an image upload
const MaxImageUploadSize = 12 << 20

// Handler handles camp HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates camp handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search handles GET /camps
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := response.Pagination(q, 20, 50)

	filter := SearchFilter{
		Query:    strings.TrimSpace(q.Get("q")),
		Province: strings.TrimSpace(q.Get("province")),
		Type:     pricing.AccommodationType(q.Get("type")),
	}
	if filter.Type != "" && !filter.Type.IsValid() {
		response.BadRequest(w, "Invalid accommodation type")
		return
	}
	if v := q.Get("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	if v := q.Get("guests"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Guests = n
		}
	}
	if in, out := q.Get("check_in"), q.Get("check_out"); in != "" && out != "" {
		from, err1 := pricing.ParseDate(in)
		to, err2 := pricing.ParseDate(out)
		if err1 != nil || err2 != nil || !to.After(from) {
			response.BadRequest(w, "check_in and check_out must be YYYY-MM-DD with check_out after check_in")
			return
		}
		filter.CheckIn, filter.CheckOut = &from, &to
	}

	camps, total, err := h.service.Search(r.Context(), filter, page, limit)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "camp.search", err)
		return
	}

	response.WithMeta(w, camps, response.NewMeta(total, page, limit))
}

// Get handles GET /camps/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.service.GetDetail(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, "camp.get", err)
		return
	}
	response.OK(w, detail)
}

// Quote handles GET /camps/{id}/quote
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	req, errs := parseQuoteQuery(r)
	if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	quote, err := h.service.Quote(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, "camp.quote", err)
		return
	}
	response.OK(w, quote)
}

func parseQuoteQuery(r *http.Request) (*QuoteRequest, map[string]string) {
	q := r.URL.Query()
	errs := map[string]string{}
	req := &QuoteRequest{
		CheckIn:  q.Get("check_in"),
		CheckOut: q.Get("check_out"),
		Currency: strings.ToUpper(strings.TrimSpace(q.Get("currency"))),
	}

	accID, err := uuid.Parse(q.Get("accommodation_id"))
	if err != nil {
		errs["accommodation_id"] = "Invalid accommodation ID"
	}
	req.AccommodationID = accID

	if req.CheckIn == "" {
		errs["check_in"] = "This field is required"
	}
	if req.CheckOut == "" {
		errs["check_out"] = "This field is required"
	}

	req.Guests.Adults = 1
	for field, dst := range map[string]*int{"adults": &req.Guests.Adults, "children": &req.Guests.Children} {
		if v := q.Get(field); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				errs[field] = "Must be a non-negative number"
				continue
			}
			*dst = n
		}
	}

	if v := q.Get("addons"); v != "" {
		for _, part := range strings.Split(v, ",") {
			addonID, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				errs["addons"] = "Invalid add-on ID"
				break
			}
			req.AddonIDs = append(req.AddonIDs, addonID)
		}
	}

	if req.Currency != "" && !currency.IsSupported(req.Currency) {
		errs["currency"] = "Unsupported currency"
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// ListMine handles GET /host/camps
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	camps, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.Internal(r.Context(), w, "camp.list_mine", err)
		return
	}
	response.OK(w, camps)
}

// Create handles POST /host/camps
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	camp, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		errorhandler.Internal(r.Context(), w, "camp.create", err)
		return
	}
	response.Created(w, camp)
}

// Update handles PATCH /host/camps/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateCampRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	camp, err := h.service.Update(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "camp.update", err)
		return
	}
	response.OK(w, camp)
}

// Publish handles POST /host/camps/{id}/publish
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	camp, err := h.service.Publish(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, "camp.publish", err)
		return
	}
	response.OK(w, camp)
}

// Archive handles POST /host/camps/{id}/archive
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	camp, err := h.service.Archive(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		h.writeError(w, r, "camp.archive", err)
		return
	}
	response.OK(w, camp)
}

// AddAccommodation handles POST /host/camps/{id}/accommodations
func (h *Handler) AddAccommodation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AccommodationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	acc, err := h.service.AddAccommodation(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "camp.add_accommodation", err)
		return
	}
	response.Created(w, acc)
}

// UpdateAccommodation handles PATCH /host/camps/{id}/accommodations/{accID}
func (h *Handler) UpdateAccommodation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	accID, ok := pathUUID(w, r, "accID")
	if !ok {
		return
	}

	var req UpdateAccommodationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	acc, err := h.service.UpdateAccommodation(r.Context(), id, accID, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "camp.update_accommodation", err)
		return
	}
	response.OK(w, acc)
}

// AddAddon handles POST /host/camps/{id}/addons
func (h *Handler) AddAddon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	addon, err := h.service.AddAddon(r.Context(), id, middleware.GetUserID(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "camp.add_addon", err)
		return
	}
	response.Created(w, addon)
}

// UploadImage handles POST /host/camps/{id}/images
// Multipart form: file
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxImageUploadSize)
	if err := r.ParseMultipartForm(MaxImageUploadSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "No file provided")
		return
	}
	defer file.Close()

	url, err := h.service.UploadImage(r.Context(), id, middleware.GetUserID(r.Context()), file)
	if err != nil {
		h.writeError(w, r, "camp.upload_image", err)
		return
	}
	response.Created(w, map[string]string{"url": url})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrCampNotFound):
		response.NotFound(w, "Camp not found")
	case errors.Is(err, ErrAccommodationNotFound):
		response.NotFound(w, "Accommodation not found")
	case errors.Is(err, ErrNotOwner):
		response.Forbidden(w, "You do not host this camp")
	case errors.Is(err, ErrNoAccommodations):
		response.Error(w, http.StatusUnprocessableEntity, "NO_ACCOMMODATIONS", err.Error())
	case errors.Is(err, ErrInvalidStatus):
		response.Conflict(w, err.Error())
	case errors.Is(err, pricing.ErrInvalidDate):
		response.ValidationError(w, map[string]string{"dates": "Dates must be YYYY-MM-DD"})
	case errors.Is(err, currency.ErrUnsupportedCurrency):
		response.ValidationError(w, map[string]string{"currency": "Unsupported currency"})
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

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.BadRequest(w, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
