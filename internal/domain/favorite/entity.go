package favorite

import (
	"time"

	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/camp"
)

// Favorite is a camp bookmarked by a user
type Favorite struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CampID    uuid.UUID `json:"camp_id" db:"camp_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Item is a favorite joined with the camp it points to
type Item struct {
	CampID      uuid.UUID   `json:"camp_id" db:"camp_id"`
	Name        string      `json:"name" db:"name"`
	Province    string      `json:"province" db:"province"`
	Status      camp.Status `json:"status" db:"status"`
	CoverImage  string      `json:"cover_image" db:"cover_image"`
	Rating      float64     `json:"rating" db:"rating"`
	ReviewCount int         `json:"review_count" db:"review_count"`
	MinPrice    float64     `json:"min_price" db:"min_price"`
	SavedAt     time.Time   `json:"saved_at" db:"created_at"`
}

// AddRequest for POST /favorites
type AddRequest struct {
	CampID uuid.UUID `json:"camp_id" validate:"required"`
}
