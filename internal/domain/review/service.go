package review

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campy/campy-api/internal/domain/booking"
)

// BookingLookup loads the stay a review is written for
type BookingLookup interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*booking.Booking, error)
}

// RatingSink stores the aggregate rating on the camp
type RatingSink interface {
	RefreshRating(ctx context.Context, campID uuid.UUID, rating float64, count int) error
}

// Service handles review business logic
type Service struct {
	repo     Repository
	bookings BookingLookup
	ratings  RatingSink
}

// NewService creates review service
func NewService(repo Repository, bookings BookingLookup, ratings RatingSink) *Service {
	return &Service{repo: repo, bookings: bookings, ratings: ratings}
}

// Create records a review for a completed booking of the caller
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRequest) (*Review, error) {
	b, err := s.bookings.Get(ctx, req.BookingID, userID)
	if errors.Is(err, booking.ErrBookingNotFound) || errors.Is(err, booking.ErrForbidden) {
		return nil, ErrNotEligible
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID || b.CampID != req.CampID || b.Status != booking.StatusCompleted {
		return nil, ErrNotEligible
	}

	reviewed, err := s.repo.HasReviewed(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	comment := strings.TrimSpace(req.Comment)
	now := time.Now()
	rev := &Review{
		ID:        uuid.New(),
		CampID:    b.CampID,
		BookingID: b.ID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   sql.NullString{String: comment, Valid: comment != ""},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, rev); err != nil {
		return nil, err
	}

	log.Info().
		Str("review_id", rev.ID.String()).
		Str("camp_id", rev.CampID.String()).
		Int("rating", rev.Rating).
		Msg("review created")
	s.refresh(ctx, rev.CampID)
	return rev, nil
}

// Delete removes the caller's own review
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	rev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rev == nil {
		return ErrReviewNotFound
	}
	if rev.UserID != userID {
		return ErrNotAuthor
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refresh(ctx, rev.CampID)
	return nil
}

// ListByCamp returns a page of a camp's reviews, newest first
func (s *Service) ListByCamp(ctx context.Context, campID uuid.UUID, page, limit int) ([]*Review, int, error) {
	return s.repo.ListByCamp(ctx, campID, limit, (page-1)*limit)
}

// Summary returns the rating overview of a camp
func (s *Service) Summary(ctx context.Context, campID uuid.UUID) (*RatingSummary, error) {
	return s.repo.Summary(ctx, campID)
}

// refresh recomputes the stored camp rating, logging failures
func (s *Service) refresh(ctx context.Context, campID uuid.UUID) {
	summary, err := s.repo.Summary(ctx, campID)
	if err == nil {
		err = s.ratings.RefreshRating(ctx, campID, summary.AverageRating, summary.TotalReviews)
	}
	if err != nil {
		log.Warn().Err(err).Str("camp_id", campID.String()).Msg("failed to refresh camp rating")
	}
}
