package camp

import (
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/pricing"
)

// CreateCampRequest for POST /host/camps
type CreateCampRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=150"`
	Description string `json:"description" validate:"max=5000"`
	Province    string `json:"province" validate:"required,max=100"`
	Location    string `json:"location" validate:"max=255"`
}

// UpdateCampRequest for PATCH /host/camps/{id}
type UpdateCampRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=150"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Province    *string `json:"province" validate:"omitempty,max=100"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
}

// AccommodationRequest for creating an accommodation
type AccommodationRequest struct {
	Type            string   `json:"type" validate:"required,accommodation_type"`
	Name            string   `json:"name" validate:"required,min=2,max=120"`
	Description     string   `json:"description" validate:"max=2000"`
	PricePerNight   float64  `json:"price_per_night" validate:"gt=0"`
	MaxGuests       int      `json:"max_guests" validate:"gte=1,lte=50"`
	ExtraAdultPrice float64  `json:"extra_adult_price" validate:"gte=0"`
	ExtraChildPrice float64  `json:"extra_child_price" validate:"gte=0"`
	Amenities       []string `json:"amenities" validate:"max=30,dive,max=50"`
}

// UpdateAccommodationRequest for PATCH .../accommodations/{accID}
type UpdateAccommodationRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=2,max=120"`
	Description     *string   `json:"description" validate:"omitempty,max=2000"`
	PricePerNight   *float64  `json:"price_per_night" validate:"omitempty,gt=0"`
	MaxGuests       *int      `json:"max_guests" validate:"omitempty,gte=1,lte=50"`
	ExtraAdultPrice *float64  `json:"extra_adult_price" validate:"omitempty,gte=0"`
	ExtraChildPrice *float64  `json:"extra_child_price" validate:"omitempty,gte=0"`
	Amenities       *[]string `json:"amenities"`
	Available       *bool     `json:"available"`
}

// AddonRequest for POST /host/camps/{id}/addons
type AddonRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=120"`
	Description string  `json:"description" validate:"max=1000"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// QuoteRequest is the pricing preview input, read from the query string
type QuoteRequest struct {
	AccommodationID uuid.UUID
	CheckIn         string
	CheckOut        string
	Guests          pricing.GuestCount
	AddonIDs        []uuid.UUID
	Currency        string
}

// QuoteResponse is the pricing preview output. Pricing is null when the
// dates do not make a priceable stay.
type QuoteResponse struct {
	Pricing *pricing.Breakdown        `json:"pricing"`
	Display *pricing.DisplayBreakdown `json:"display"`
}
