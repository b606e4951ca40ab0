package review

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Review is a guest's rating of a camp after a completed stay
type Review struct {
	ID        uuid.UUID      `db:"id"`
	CampID    uuid.UUID      `db:"camp_id"`
	BookingID uuid.UUID      `db:"booking_id"`
	UserID    uuid.UUID      `db:"user_id"`
	Rating    int            `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`

	// joined from users on reads
	ReviewerName string `db:"reviewer_name"`
}

// ReviewResponse for API response
type ReviewResponse struct {
	ID           string `json:"id"`
	CampID       string `json:"camp_id"`
	BookingID    string `json:"booking_id"`
	ReviewerName string `json:"reviewer_name,omitempty"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// ToResponse converts entity to response
func (r *Review) ToResponse() *ReviewResponse {
	resp := &ReviewResponse{
		ID:           r.ID.String(),
		CampID:       r.CampID.String(),
		BookingID:    r.BookingID.String(),
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
	if r.Comment.Valid {
		resp.Comment = r.Comment.String
	}
	return resp
}

// CreateRequest for POST /reviews
type CreateRequest struct {
	CampID    uuid.UUID `json:"camp_id" validate:"required"`
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string    `json:"comment" validate:"max=2000"`
}

// RatingSummary for a camp's rating overview
type RatingSummary struct {
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	Distribution  map[int]int `json:"distribution"`
}
