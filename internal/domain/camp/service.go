package camp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/pkg/currency"
	"github.com/campy/campy-api/internal/pkg/imaging"
	"github.com/campy/campy-api/internal/pkg/storage"
)

// Service handles catalog and host listing logic
type Service struct {
	repo       Repository
	cache      DetailCache
	storage    storage.Storage
	images     *imaging.Processor
	calculator *pricing.Calculator
}

// NewService creates camp service
func NewService(repo Repository, cache DetailCache, store storage.Storage, images *imaging.Processor, calculator *pricing.Calculator) *Service {
	return &Service{
		repo:       repo,
		cache:      cache,
		storage:    store,
		images:     images,
		calculator: calculator,
	}
}

// Search lists published camps
func (s *Service) Search(ctx context.Context, filter SearchFilter, page, limit int) ([]*Summary, int, error) {
	return s.repo.Search(ctx, filter, limit, (page-1)*limit)
}

// GetDetail returns a published camp with accommodations and add-ons.
// Hosts can also read their own drafts.
func (s *Service) GetDetail(ctx context.Context, id, viewerID uuid.UUID) (*Detail, error) {
	if d, ok := s.cache.Get(ctx, id); ok {
		return d, nil
	}

	camp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if camp == nil {
		return nil, ErrCampNotFound
	}
	if camp.Status != StatusPublished && !camp.IsOwnedBy(viewerID) {
		return nil, ErrCampNotFound
	}

	accs, err := s.repo.ListAccommodations(ctx, id)
	if err != nil {
		return nil, err
	}
	addons, err := s.repo.ListAddons(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{Camp: camp, Accommodations: accs, Addons: addons}
	if camp.Status == StatusPublished {
		s.cache.Set(ctx, d)
	}
	return d, nil
}

// Quote prices a stay for the detail page without validating or persisting it
func (s *Service) Quote(ctx context.Context, campID uuid.UUID, req *QuoteRequest) (*QuoteResponse, error) {
	d, err := s.GetDetail(ctx, campID, uuid.Nil)
	if err != nil {
		return nil, err
	}

	var acc *Accommodation
	for _, a := range d.Accommodations {
		if a.ID == req.AccommodationID {
			acc = a
			break
		}
	}
	if acc == nil {
		return nil, ErrAccommodationNotFound
	}

	from, err := pricing.ParseDate(req.CheckIn)
	if err != nil {
		return nil, err
	}
	to, err := pricing.ParseDate(req.CheckOut)
	if err != nil {
		return nil, err
	}

	// zero or negative nights leave Pricing and Display null
	b := s.calculator.Compute(acc.ToPricing(), pricing.DateRange{From: from, To: to}, req.Guests, PricingAddons(d.Addons), req.AddonIDs)

	code := req.Currency
	if code == "" {
		code = currency.Base
	}
	display, err := pricing.Display(b, code)
	if err != nil {
		return nil, err
	}
	return &QuoteResponse{Pricing: b, Display: display}, nil
}

// ListMine returns every camp of a host regardless of status
func (s *Service) ListMine(ctx context.Context, hostID uuid.UUID) ([]*Camp, error) {
	return s.repo.ListByHost(ctx, hostID)
}

// Create creates a draft camp
func (s *Service) Create(ctx context.Context, hostID uuid.UUID, req *CreateCampRequest) (*Camp, error) {
	now := time.Now()
	camp := &Camp{
		ID:          uuid.New(),
		HostID:      hostID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Province:    strings.TrimSpace(req.Province),
		Location:    req.Location,
		Status:      StatusDraft,
		Images:      []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, camp); err != nil {
		return nil, err
	}
	log.Info().Str("camp_id", camp.ID.String()).Str("host_id", hostID.String()).Msg("camp created")
	return camp, nil
}

func (s *Service) owned(ctx context.Context, id, hostID uuid.UUID) (*Camp, error) {
	camp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if camp == nil {
		return nil, ErrCampNotFound
	}
	if !camp.IsOwnedBy(hostID) {
		return nil, ErrNotOwner
	}
	return camp, nil
}

// Update edits camp fields
func (s *Service) Update(ctx context.Context, id, hostID uuid.UUID, req *UpdateCampRequest) (*Camp, error) {
	camp, err := s.owned(ctx, id, hostID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		camp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		camp.Description = *req.Description
	}
	if req.Province != nil {
		camp.Province = strings.TrimSpace(*req.Province)
	}
	if req.Location != nil {
		camp.Location = *req.Location
	}
	if err := s.repo.Update(ctx, camp); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)
	return camp, nil
}

// Publish makes a camp visible in search
func (s *Service) Publish(ctx context.Context, id, hostID uuid.UUID) (*Camp, error) {
	camp, err := s.owned(ctx, id, hostID)
	if err != nil {
		return nil, err
	}
	if camp.Status == StatusPublished {
		return camp, nil
	}
	accs, err := s.repo.ListAccommodations(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(accs) == 0 {
		return nil, ErrNoAccommodations
	}
	return s.setStatus(ctx, camp, StatusPublished)
}

// Archive hides a camp from search; existing bookings are unaffected
func (s *Service) Archive(ctx context.Context, id, hostID uuid.UUID) (*Camp, error) {
	camp, err := s.owned(ctx, id, hostID)
	if err != nil {
		return nil, err
	}
	if camp.Status == StatusArchived {
		return nil, ErrInvalidStatus
	}
	return s.setStatus(ctx, camp, StatusArchived)
}

func (s *Service) setStatus(ctx context.Context, camp *Camp, status Status) (*Camp, error) {
	if err := s.repo.UpdateStatus(ctx, camp.ID, status); err != nil {
		return nil, err
	}
	camp.Status = status
	s.cache.Invalidate(ctx, camp.ID)
	log.Info().Str("camp_id", camp.ID.String()).Str("status", string(status)).Msg("camp status changed")
	return camp, nil
}

// AddAccommodation adds a bookable unit to a camp
func (s *Service) AddAccommodation(ctx context.Context, campID, hostID uuid.UUID, req *AccommodationRequest) (*Accommodation, error) {
	if _, err := s.owned(ctx, campID, hostID); err != nil {
		return nil, err
	}
	now := time.Now()
	amenities := req.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	acc := &Accommodation{
		ID:              uuid.New(),
		CampID:          campID,
		Type:            pricing.AccommodationType(req.Type),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		PricePerNight:   req.PricePerNight,
		MaxGuests:       req.MaxGuests,
		ExtraAdultPrice: req.ExtraAdultPrice,
		ExtraChildPrice: req.ExtraChildPrice,
		Amenities:       amenities,
		Available:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateAccommodation(ctx, acc); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, campID)
	return acc, nil
}

// UpdateAccommodation edits a unit. Prices changed here only affect new bookings.
func (s *Service) UpdateAccommodation(ctx context.Context, campID, accID, hostID uuid.UUID, req *UpdateAccommodationRequest) (*Accommodation, error) {
	if _, err := s.owned(ctx, campID, hostID); err != nil {
		return nil, err
	}
	acc, err := s.repo.GetAccommodation(ctx, accID)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.CampID != campID {
		return nil, ErrAccommodationNotFound
	}

	if req.Name != nil {
		acc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		acc.Description = *req.Description
	}
	if req.PricePerNight != nil {
		acc.PricePerNight = *req.PricePerNight
	}
	if req.MaxGuests != nil {
		acc.MaxGuests = *req.MaxGuests
	}
	if req.ExtraAdultPrice != nil {
		acc.ExtraAdultPrice = *req.ExtraAdultPrice
	}
	if req.ExtraChildPrice != nil {
		acc.ExtraChildPrice = *req.ExtraChildPrice
	}
	if req.Amenities != nil {
		acc.Amenities = *req.Amenities
	}
	if req.Available != nil {
		acc.Available = *req.Available
	}

	if err := s.repo.UpdateAccommodation(ctx, acc); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, campID)
	return acc, nil
}

// AddAddon adds an optional extra to a camp
func (s *Service) AddAddon(ctx context.Context, campID, hostID uuid.UUID, req *AddonRequest) (*Addon, error) {
	if _, err := s.owned(ctx, campID, hostID); err != nil {
		return nil, err
	}
	addon := &Addon{
		ID:          uuid.New(),
		CampID:      campID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateAddon(ctx, addon); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, campID)
	return addon, nil
}

// UploadImage validates, resizes and stores a gallery photo, returning its URL
func (s *Service) UploadImage(ctx context.Context, campID, hostID uuid.UUID, file io.Reader) (string, error) {
	if _, err := s.owned(ctx, campID, hostID); err != nil {
		return "", err
	}

	buf, _, err := storage.ValidateAndBuffer(file, storage.CategoryCampImage)
	if err != nil {
		return "", err
	}
	img, err := s.images.Process(buf)
	if err != nil {
		return "", err
	}

	originalKey, thumbKey := imaging.Keys(fmt.Sprintf("camps/%s", campID), img.ContentType)
	if err := s.storage.Put(ctx, originalKey, bytes.NewReader(img.Original), img.ContentType); err != nil {
		return "", err
	}
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(img.Thumbnail), img.ContentType); err != nil {
		_ = s.storage.Delete(ctx, originalKey)
		return "", err
	}

	url := s.storage.GetURL(originalKey)
	if err := s.repo.AddImage(ctx, campID, url); err != nil {
		return "", err
	}
	s.cache.Invalidate(ctx, campID)
	return url, nil
}

// RefreshRating stores a recomputed review average on the camp
func (s *Service) RefreshRating(ctx context.Context, campID uuid.UUID, rating float64, count int) error {
	if err := s.repo.UpdateRating(ctx, campID, rating, count); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, campID)
	return nil
}
