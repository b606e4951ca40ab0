package pricing

import (
	"math"
	"strings"
)

// OverCapacityPolicy decides what happens when a party is larger than MaxGuests
// but still inside the overflow allowance.
type OverCapacityPolicy string

const (
	// OverCapacitySurcharge accepts the booking and charges extra adults
	OverCapacitySurcharge OverCapacityPolicy = "surcharge"
	// OverCapacityBlock rejects any party larger than MaxGuests
	OverCapacityBlock OverCapacityPolicy = "block"
)

// ParseOverCapacityPolicy falls back to surcharge for unknown values
func ParseOverCapacityPolicy(s string) OverCapacityPolicy {
	if OverCapacityPolicy(strings.ToLower(strings.TrimSpace(s))) == OverCapacityBlock {
		return OverCapacityBlock
	}
	return OverCapacitySurcharge
}

// Policy holds the booking rules that are product decisions rather than arithmetic
type Policy struct {
	MinimumNights     int
	OverflowAllowance int
	OverCapacity      OverCapacityPolicy
	RequireLogin      bool
	// PriceTolerance is the largest THB difference accepted between a client
	// estimate and the server total.
	PriceTolerance float64
}

// DefaultPolicy returns the rules used when nothing is configured
func DefaultPolicy() Policy {
	return Policy{
		MinimumNights:     1,
		OverflowAllowance: 2,
		OverCapacity:      OverCapacitySurcharge,
		RequireLogin:      true,
		PriceTolerance:    1.0,
	}
}

// WithinTolerance reports whether two THB amounts agree under the policy tolerance
func (p Policy) WithinTolerance(expected, actual float64) bool {
	tol := p.PriceTolerance
	if tol < 0 {
		tol = 0
	}
	return math.Abs(expected-actual) <= tol+1e-9
}
