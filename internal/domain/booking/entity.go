package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/campy/campy-api/internal/domain/pricing"
)

// Status of a booking (matches booking_status enum)
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Booking is a reserved stay. Money columns hold the server-computed THB breakdown.
type Booking struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	UserID          uuid.UUID      `json:"user_id" db:"user_id"`
	HostID          uuid.UUID      `json:"host_id" db:"host_id"`
	CampID          uuid.UUID      `json:"camp_id" db:"camp_id"`
	AccommodationID uuid.UUID      `json:"accommodation_id" db:"accommodation_id"`
	CheckIn         time.Time      `json:"check_in" db:"check_in"`
	CheckOut        time.Time      `json:"check_out" db:"check_out"`
	Adults          int            `json:"adults" db:"adults"`
	Children        int            `json:"children" db:"children"`
	Infants         int            `json:"infants" db:"infants"`
	Pets            int            `json:"pets" db:"pets"`
	AddonIDs        pq.StringArray `json:"addon_ids" db:"addon_ids"`

	Nights          int     `json:"nights" db:"nights"`
	BasePrice       float64 `json:"base_price" db:"base_price"`
	ExtraAdultPrice float64 `json:"extra_adult_price" db:"extra_adult_price"`
	ExtraChildPrice float64 `json:"extra_child_price" db:"extra_child_price"`
	AddonPrice      float64 `json:"addon_price" db:"addon_price"`
	Subtotal        float64 `json:"subtotal" db:"subtotal"`
	VAT             float64 `json:"vat" db:"vat"`
	Total           float64 `json:"total" db:"total"`

	Status        Status     `json:"status" db:"status"`
	PaymentMethod string     `json:"payment_method,omitempty" db:"payment_method"`
	Note          string     `json:"note,omitempty" db:"note"`
	CancelReason  string     `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// Guests returns the party as the calculator sees it
func (b *Booking) Guests() pricing.GuestCount {
	return pricing.GuestCount{Adults: b.Adults, Children: b.Children, Infants: b.Infants, Pets: b.Pets}
}

// Dates returns the stay range
func (b *Booking) Dates() pricing.DateRange {
	return pricing.DateRange{From: b.CheckIn, To: b.CheckOut}
}

// Addons returns the selected add-on IDs, skipping malformed entries
func (b *Booking) Addons() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.AddonIDs))
	for _, s := range b.AddonIDs {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Breakdown returns the stored price
func (b *Booking) Breakdown() *pricing.Breakdown {
	return &pricing.Breakdown{
		BasePrice:       b.BasePrice,
		ExtraAdultPrice: b.ExtraAdultPrice,
		ExtraChildPrice: b.ExtraChildPrice,
		AddonPrice:      b.AddonPrice,
		Subtotal:        b.Subtotal,
		VAT:             b.VAT,
		Total:           b.Total,
		Nights:          b.Nights,
	}
}

func (b *Booking) setStay(dates pricing.DateRange, guests pricing.GuestCount, addons []uuid.UUID, price *pricing.Breakdown) {
	b.CheckIn, b.CheckOut = dates.From, dates.To
	b.Adults, b.Children, b.Infants, b.Pets = guests.Adults, guests.Children, guests.Infants, guests.Pets

	b.AddonIDs = make(pq.StringArray, 0, len(addons))
	for _, id := range addons {
		b.AddonIDs = append(b.AddonIDs, id.String())
	}

	b.Nights = price.Nights
	b.BasePrice = price.BasePrice
	b.ExtraAdultPrice = price.ExtraAdultPrice
	b.ExtraChildPrice = price.ExtraChildPrice
	b.AddonPrice = price.AddonPrice
	b.Subtotal = price.Subtotal
	b.VAT = price.VAT
	b.Total = price.Total
}

// IsParty reports whether userID is the guest or the host of the booking
func (b *Booking) IsParty(userID uuid.UUID) bool {
	return b.UserID == userID || b.HostID == userID
}

// ListFilter narrows booking lists
type ListFilter struct {
	Status Status
}

// DashboardStats is the host overview
type DashboardStats struct {
	Pending          int        `json:"pending" db:"pending"`
	Confirmed        int        `json:"confirmed" db:"confirmed"`
	Cancelled        int        `json:"cancelled" db:"cancelled"`
	Completed        int        `json:"completed" db:"completed"`
	Revenue          float64    `json:"revenue" db:"revenue"`
	UpcomingCheckIns []*Booking `json:"upcoming_check_ins" db:"-"`
}
