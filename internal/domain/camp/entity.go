package camp

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/campy/campy-api/internal/domain/pricing"
)

// Status of a camp listing
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// Camp is a campsite listed by a host
type Camp struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	HostID      uuid.UUID      `json:"host_id" db:"host_id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Province    string         `json:"province" db:"province"`
	Location    string         `json:"location" db:"location"`
	Status      Status         `json:"status" db:"status"`
	Images      pq.StringArray `json:"images" db:"images"`
	Rating      float64        `json:"rating" db:"rating"`
	ReviewCount int            `json:"review_count" db:"review_count"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// IsOwnedBy reports whether userID hosts the camp
func (c *Camp) IsOwnedBy(userID uuid.UUID) bool {
	return c.HostID == userID
}

// Summary is a search result row
type Summary struct {
	Camp
	MinPrice float64 `json:"min_price" db:"min_price"`
}

// Accommodation is a bookable unit inside a camp
type Accommodation struct {
	ID              uuid.UUID                 `json:"id" db:"id"`
	CampID          uuid.UUID                 `json:"camp_id" db:"camp_id"`
	Type            pricing.AccommodationType `json:"type" db:"type"`
	Name            string                    `json:"name" db:"name"`
	Description     string                    `json:"description" db:"description"`
	PricePerNight   float64                   `json:"price_per_night" db:"price_per_night"`
	MaxGuests       int                       `json:"max_guests" db:"max_guests"`
	ExtraAdultPrice float64                   `json:"extra_adult_price" db:"extra_adult_price"`
	ExtraChildPrice float64                   `json:"extra_child_price" db:"extra_child_price"`
	Amenities       pq.StringArray            `json:"amenities" db:"amenities"`
	Available       bool                      `json:"available" db:"available"`
	CreatedAt       time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at" db:"updated_at"`
}

// ToPricing returns the rate card the calculator works on
func (a *Accommodation) ToPricing() *pricing.Accommodation {
	return &pricing.Accommodation{
		ID:              a.ID,
		Type:            a.Type,
		Name:            a.Name,
		PricePerNight:   a.PricePerNight,
		MaxGuests:       a.MaxGuests,
		ExtraAdultPrice: a.ExtraAdultPrice,
		ExtraChildPrice: a.ExtraChildPrice,
		Amenities:       a.Amenities,
		Available:       a.Available,
	}
}

// Addon is an optional extra sold with a stay
type Addon struct {
	ID          uuid.UUID `json:"id" db:"id"`
	CampID      uuid.UUID `json:"camp_id" db:"camp_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PricingAddons converts active add-ons for the calculator
func PricingAddons(addons []*Addon) []pricing.Addon {
	out := make([]pricing.Addon, 0, len(addons))
	for _, a := range addons {
		if a.Active {
			out = append(out, pricing.Addon{ID: a.ID, Name: a.Name, Price: a.Price})
		}
	}
	return out
}

// Detail is a camp with everything the detail page needs
type Detail struct {
	Camp           *Camp            `json:"camp"`
	Accommodations []*Accommodation `json:"accommodations"`
	Addons         []*Addon         `json:"addons"`
}

// SearchFilter for the public catalog
type SearchFilter struct {
	Query    string
	Province string
	Type     pricing.AccommodationType
	MinPrice *float64
	MaxPrice *float64
	Guests   int
	CheckIn  *time.Time
	CheckOut *time.Time
}
