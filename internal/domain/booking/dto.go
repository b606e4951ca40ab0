package booking

import (
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/pricing"
)

// StayRequest describes a stay to price or book
type StayRequest struct {
	CampID          uuid.UUID   `json:"camp_id" validate:"required"`
	AccommodationID uuid.UUID   `json:"accommodation_id" validate:"required"`
	CheckIn         string      `json:"check_in" validate:"required"`
	CheckOut        string      `json:"check_out" validate:"required"`
	Adults          int         `json:"adults"`
	Children        int         `json:"children"`
	Infants         int         `json:"infants"`
	Pets            int         `json:"pets"`
	AddonIDs        []uuid.UUID `json:"addon_ids" validate:"max=20"`
	Currency        string      `json:"currency" validate:"currency"`
}

func (r *StayRequest) guests() pricing.GuestCount {
	return pricing.GuestCount{Adults: r.Adults, Children: r.Children, Infants: r.Infants, Pets: r.Pets}
}

// CreateRequest for POST /bookings
type CreateRequest struct {
	StayRequest
	// ExpectedTotal is the THB total the client showed the guest
	ExpectedTotal *float64 `json:"expected_total" validate:"omitempty,gte=0"`
	PaymentMethod string   `json:"payment_method" validate:"omitempty,payment_method"`
	Note          string   `json:"note" validate:"max=1000"`
}

// ModifyRequest for PATCH /bookings/{id}
type ModifyRequest struct {
	CheckIn       *string      `json:"check_in"`
	CheckOut      *string      `json:"check_out"`
	Adults        *int         `json:"adults"`
	Children      *int         `json:"children"`
	Infants       *int         `json:"infants"`
	Pets          *int         `json:"pets"`
	AddonIDs      *[]uuid.UUID `json:"addon_ids"`
	ExpectedTotal *float64     `json:"expected_total" validate:"omitempty,gte=0"`
	Note          *string      `json:"note" validate:"omitempty,max=1000"`
}

// CancelRequest for POST /bookings/{id}/cancel
type CancelRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// QuoteResponse for POST /bookings/quote. Pricing is null when the dates
// do not make a priceable stay.
type QuoteResponse struct {
	Pricing    *pricing.Breakdown        `json:"pricing"`
	Validation pricing.ValidationResult  `json:"validation"`
	Display    *pricing.DisplayBreakdown `json:"display"`
}
