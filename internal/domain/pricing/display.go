package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/campy/campy-api/internal/pkg/currency"
)

// DateLayout is the wire format for check-in and check-out dates
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned for dates not in DateLayout
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q, expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// DisplayBreakdown is a Breakdown converted and formatted for one currency.
// Amounts stay THB in Breakdown; this is presentation only.
type DisplayBreakdown struct {
	Currency        string `json:"currency"`
	BasePrice       string `json:"base_price"`
	ExtraAdultPrice string `json:"extra_adult_price"`
	ExtraChildPrice string `json:"extra_child_price"`
	AddonPrice      string `json:"addon_price"`
	Subtotal        string `json:"subtotal"`
	VAT             string `json:"vat"`
	Total           string `json:"total"`
}

// Display formats every line of b in the given currency
func Display(b *Breakdown, code string) (*DisplayBreakdown, error) {
	if b == nil {
		return nil, nil
	}
	c, err := currency.Lookup(code)
	if err != nil {
		return nil, err
	}

	out := &DisplayBreakdown{Currency: c.Code}
	for _, line := range []struct {
		dst    *string
		amount float64
	}{
		{&out.BasePrice, b.BasePrice},
		{&out.ExtraAdultPrice, b.ExtraAdultPrice},
		{&out.ExtraChildPrice, b.ExtraChildPrice},
		{&out.AddonPrice, b.AddonPrice},
		{&out.Subtotal, b.Subtotal},
		{&out.VAT, b.VAT},
		{&out.Total, b.Total},
	} {
		s, err := currency.Format(line.amount, c.Code, currency.Options{})
		if err != nil {
			return nil, err
		}
		*line.dst = s
	}
	return out, nil
}
