package payment

import (
	"errors"
	"fmt"
)

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrBookingNotPayable = errors.New("booking is no longer open for payment")
	ErrForbidden         = errors.New("not allowed to access this payment")
	ErrInvalidStatus     = errors.New("payment status does not allow this action")
	ErrPaymentExists     = errors.New("booking already has an open payment")
	ErrAmountMismatch    = errors.New("paid amount does not match booking total")
)

// AmountMismatchError reports the paid amount against the booking total
type AmountMismatchError struct {
	Expected float64 `json:"expected_amount"`
	Paid     float64 `json:"paid_amount"`
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %.2f, paid %.2f", ErrAmountMismatch, e.Expected, e.Paid)
}

func (e *AmountMismatchError) Is(target error) bool {
	return target == ErrAmountMismatch
}
