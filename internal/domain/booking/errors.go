package booking

import (
	"errors"
	"fmt"

	"github.com/campy/campy-api/internal/domain/pricing"
)

var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrCampNotBookable       = errors.New("camp is not open for bookings")
	ErrAccommodationNotFound = errors.New("accommodation not found")
	ErrForbidden             = errors.New("not allowed to access this booking")
	ErrInvalidTransition     = errors.New("booking status does not allow this action")
	ErrNotModifiable         = errors.New("only pending bookings can be changed")
	ErrPaymentInReview       = errors.New("booking has a payment slip under review")
	ErrCancelWindowClosed    = errors.New("confirmed bookings can only be cancelled before check-in")
	ErrDatesUnavailable      = errors.New(pricing.MsgNotAvailable)
	ErrValidationFailed      = errors.New("booking validation failed")
	ErrPriceMismatch         = errors.New("price has changed")
)

// ValidationError carries the full validation result of a rejected booking
type ValidationError struct {
	Result pricing.ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidationFailed, e.Result.Errors)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// PriceMismatchError reports the client estimate against the server total
type PriceMismatchError struct {
	Expected float64 `json:"expected_total"`
	Actual   float64 `json:"server_total"`
}

func (e *PriceMismatchError) Error() string {
	return fmt.Sprintf("%s: client %.2f, server %.2f", ErrPriceMismatch, e.Expected, e.Actual)
}

func (e *PriceMismatchError) Is(target error) bool {
	return target == ErrPriceMismatch
}
