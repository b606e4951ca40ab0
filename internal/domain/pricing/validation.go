package pricing

import (
	"fmt"

	"github.com/google/uuid"
)

// Validation messages. Callers match on these in tests and the web client shows them as-is.
const (
	MsgInvalidDateRange    = "invalid date range"
	MsgAccommodationNeeded = "accommodation is required"
	MsgNotAvailable        = "accommodation is not available for the selected dates"
	MsgUnavailable         = "accommodation is currently unavailable"
	MsgAdultsRequired      = "at least one adult is required"
	MsgNegativeGuests      = "guest counts cannot be negative"
	MsgLoginRequired       = "login is required to book"
	MsgLoginRecommended    = "you will need to log in before paying"
)

// ValidationRequest is a snapshot of what the guest picked
type ValidationRequest struct {
	Accommodation *Accommodation
	Dates         DateRange
	Guests        GuestCount
	UserID        uuid.UUID
	// Existing holds stays already booked on the same accommodation
	Existing []DateRange
}

// ValidationResult lists every problem found, not only the first one
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *ValidationResult) fail(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *ValidationResult) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Validator checks booking requests against a Policy
type Validator struct {
	policy Policy
}

// NewValidator creates a validator for the given policy
func NewValidator(policy Policy) *Validator {
	if policy.MinimumNights < 1 {
		policy.MinimumNights = 1
	}
	if policy.OverflowAllowance < 0 {
		policy.OverflowAllowance = 0
	}
	return &Validator{policy: policy}
}

// Policy returns the rules the validator enforces
func (v *Validator) Policy() Policy {
	return v.policy
}

// Validate runs all checks and accumulates errors and warnings
func Validate(req ValidationRequest) ValidationResult {
	return NewValidator(DefaultPolicy()).Validate(req)
}

// Validate runs all checks and accumulates errors and warnings
func (v *Validator) Validate(req ValidationRequest) ValidationResult {
	res := ValidationResult{Errors: []string{}, Warnings: []string{}}

	nights := req.Dates.Nights()
	if nights <= 0 {
		res.fail(MsgInvalidDateRange)
	}
	if nights < v.policy.MinimumNights {
		res.fail(minimumStayMessage(v.policy.MinimumNights))
	}

	g := req.Guests
	if g.Adults < 0 || g.Children < 0 || g.Infants < 0 || g.Pets < 0 {
		res.fail(MsgNegativeGuests)
	}
	if g.Adults < 1 {
		res.fail(MsgAdultsRequired)
	}

	acc := req.Accommodation
	if acc == nil {
		res.fail(MsgAccommodationNeeded)
	} else {
		v.checkCapacity(&res, acc, g)
		if !acc.Available {
			res.fail(MsgUnavailable)
		}
		if nights > 0 {
			for _, existing := range req.Existing {
				if req.Dates.Overlaps(existing) {
					res.fail(MsgNotAvailable)
					break
				}
			}
		}
	}

	if req.UserID == uuid.Nil {
		if v.policy.RequireLogin {
			res.fail(MsgLoginRequired)
		} else {
			res.warn(MsgLoginRecommended)
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func (v *Validator) checkCapacity(res *ValidationResult, acc *Accommodation, g GuestCount) {
	occupants := g.Occupants()
	if occupants <= acc.MaxGuests {
		return
	}

	limit := acc.MaxGuests + v.policy.OverflowAllowance
	if occupants > limit {
		res.fail(fmt.Sprintf("%s sleeps at most %d guests", accommodationLabel(acc), limit))
		return
	}

	extra := occupants - acc.MaxGuests
	if v.policy.OverCapacity == OverCapacityBlock {
		res.fail(fmt.Sprintf("%s sleeps %d guests, party has %d", accommodationLabel(acc), acc.MaxGuests, occupants))
		return
	}
	res.warn(fmt.Sprintf("%d extra guest(s) over the standard capacity of %d will be charged", extra, acc.MaxGuests))
}

func minimumStayMessage(n int) string {
	return fmt.Sprintf("minimum stay is %d night(s)", n)
}

func accommodationLabel(acc *Accommodation) string {
	if acc.Name != "" {
		return acc.Name
	}
	return "accommodation"
}
