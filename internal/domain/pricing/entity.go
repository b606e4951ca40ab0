package pricing

import (
	"time"

	"github.com/google/uuid"
)

// AccommodationType is the kind of sleeping unit a camp offers
type AccommodationType string

const (
	AccommodationTent  AccommodationType = "tent"
	AccommodationDome  AccommodationType = "dome"
	AccommodationCabin AccommodationType = "cabin"
)

// IsValid reports whether t is a known accommodation type
func (t AccommodationType) IsValid() bool {
	switch t {
	case AccommodationTent, AccommodationDome, AccommodationCabin:
		return true
	}
	return false
}

// Accommodation is the read-only rate card the calculator prices against.
// All amounts are THB.
type Accommodation struct {
	ID              uuid.UUID
	Type            AccommodationType
	Name            string
	PricePerNight   float64
	MaxGuests       int
	ExtraAdultPrice float64
	ExtraChildPrice float64
	Amenities       []string
	Available       bool
}

// GuestCount is the party size for one booking
type GuestCount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
	Pets     int `json:"pets"`
}

// Occupants counts guests that take a sleeping place
func (g GuestCount) Occupants() int {
	return g.Adults + g.Children
}

// DateRange is a stay from check-in date to check-out date
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Nights returns whole calendar days between From and To.
// Time of day is ignored, so 23:00 -> 01:00 the next day is one night.
func (d DateRange) Nights() int {
	from := calendarDate(d.From)
	to := calendarDate(d.To)
	return int(to.Sub(from).Hours() / 24)
}

// Overlaps reports whether two stays share at least one night
func (d DateRange) Overlaps(other DateRange) bool {
	return calendarDate(d.From).Before(calendarDate(other.To)) &&
		calendarDate(d.To).After(calendarDate(other.From))
}

func calendarDate(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// Addon is an optional extra with a flat price per booking
type Addon struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// Breakdown is the full price of a stay. Total = Subtotal + VAT.
type Breakdown struct {
	BasePrice       float64 `json:"base_price"`
	ExtraAdultPrice float64 `json:"extra_adult_price"`
	ExtraChildPrice float64 `json:"extra_child_price"`
	AddonPrice      float64 `json:"addon_price"`
	Subtotal        float64 `json:"subtotal"`
	VAT             float64 `json:"vat"`
	Total           float64 `json:"total"`
	Nights          int     `json:"nights"`
}
