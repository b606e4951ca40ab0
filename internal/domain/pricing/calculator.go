package pricing

import "github.com/google/uuid"

// DefaultVATRate is the Thai VAT applied on top of the subtotal
const DefaultVATRate = 0.07

// Calculator prices stays. The zero value is not usable, use NewCalculator.
type Calculator struct {
	vatRate float64
}

// NewCalculator creates a calculator with the given VAT rate.
// A negative rate falls back to DefaultVATRate.
func NewCalculator(vatRate float64) *Calculator {
	if vatRate < 0 {
		vatRate = DefaultVATRate
	}
	return &Calculator{vatRate: vatRate}
}

var defaultCalculator = NewCalculator(DefaultVATRate)

// Compute prices a stay with the default VAT rate
func Compute(acc *Accommodation, dates DateRange, guests GuestCount, addons []Addon, selected []uuid.UUID) *Breakdown {
	return defaultCalculator.Compute(acc, dates, guests, addons, selected)
}

// VATRate returns the rate the calculator applies
func (c *Calculator) VATRate() float64 {
	return c.vatRate
}

// Compute returns the price breakdown, or nil when the stay has no nights
// (or there is nothing to price). nil means "not yet priceable", not a failure.
//
// Every child is surcharged, while adults are surcharged only beyond MaxGuests.
// Add-ons are flat per booking.
func (c *Calculator) Compute(acc *Accommodation, dates DateRange, guests GuestCount, addons []Addon, selected []uuid.UUID) *Breakdown {
	if acc == nil {
		return nil
	}

	nights := dates.Nights()
	if nights <= 0 {
		return nil
	}
	n := float64(nights)

	base := acc.PricePerNight * n

	extraAdults := guests.Adults - acc.MaxGuests
	if extraAdults < 0 {
		extraAdults = 0
	}
	extraAdultPrice := float64(extraAdults) * acc.ExtraAdultPrice * n

	extraChildren := guests.Children
	if extraChildren < 0 {
		extraChildren = 0
	}
	extraChildPrice := float64(extraChildren) * acc.ExtraChildPrice * n

	addonPrice := sumSelected(addons, selected)

	subtotal := base + extraAdultPrice + extraChildPrice + addonPrice
	vat := subtotal * c.vatRate

	return &Breakdown{
		BasePrice:       base,
		ExtraAdultPrice: extraAdultPrice,
		ExtraChildPrice: extraChildPrice,
		AddonPrice:      addonPrice,
		Subtotal:        subtotal,
		VAT:             vat,
		Total:           subtotal + vat,
		Nights:          nights,
	}
}

func sumSelected(addons []Addon, selected []uuid.UUID) float64 {
	if len(addons) == 0 || len(selected) == 0 {
		return 0
	}
	want := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}

	var total float64
	for _, a := range addons {
		if _, ok := want[a.ID]; ok {
			total += a.Price
		}
	}
	return total
}
