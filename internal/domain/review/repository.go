package review

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campy/campy-api/internal/pkg/database"
)

// Repository defines review data access
type Repository interface {
	// Create fails with ErrAlreadyReviewed when the booking has a review
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	HasReviewed(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ListByCamp(ctx context.Context, campID uuid.UUID, limit, offset int) ([]*Review, int, error)
	Summary(ctx context.Context, campID uuid.UUID) (*RatingSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates a new review repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, review *Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, camp_id, booking_id, user_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		review.ID,
		review.CampID,
		review.BookingID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return ErrAlreadyReviewed
	}
	return err
}

const selectReview = `
	SELECT rv.id, rv.camp_id, rv.booking_id, rv.user_id, rv.rating, rv.comment,
		rv.created_at, rv.updated_at, COALESCE(u.full_name, '') AS reviewer_name
	FROM reviews rv
	LEFT JOIN users u ON u.id = rv.user_id`

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	var review Review
	err := r.db.GetContext(ctx, &review, selectReview+` WHERE rv.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repository) HasReviewed(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID)
	return exists, err
}

func (r *repository) ListByCamp(ctx context.Context, campID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reviews WHERE camp_id = $1`, campID); err != nil {
		return nil, 0, err
	}

	var reviews []*Review
	err := r.db.SelectContext(ctx, &reviews, selectReview+`
		WHERE rv.camp_id = $1
		ORDER BY rv.created_at DESC
		LIMIT $2 OFFSET $3
	`, campID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *repository) Summary(ctx context.Context, campID uuid.UUID) (*RatingSummary, error) {
	type ratingCount struct {
		Rating int `db:"rating"`
		Count  int `db:"count"`
	}
	var counts []ratingCount
	err := r.db.SelectContext(ctx, &counts, `
		SELECT rating, COUNT(*) AS count
		FROM reviews
		WHERE camp_id = $1
		GROUP BY rating
	`, campID)
	if err != nil {
		return nil, err
	}

	ratings := make(map[int]int, len(counts))
	for _, c := range counts {
		ratings[c.Rating] = c.Count
	}
	return summarize(ratings), nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return err
}

// summarize builds the 1..5 distribution and the average rounded to one decimal
func summarize(counts map[int]int) *RatingSummary {
	s := &RatingSummary{Distribution: make(map[int]int, 5)}
	sum := 0
	for star := 1; star <= 5; star++ {
		n := counts[star]
		s.Distribution[star] = n
		s.TotalReviews += n
		sum += star * n
	}
	if s.TotalReviews > 0 {
		s.AverageRating = math.Round(float64(sum)/float64(s.TotalReviews)*10) / 10
	}
	return s
}
