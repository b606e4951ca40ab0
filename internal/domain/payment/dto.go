package payment

import "github.com/google/uuid"

// CreateRequest for POST /payments
type CreateRequest struct {
	BookingID uuid.UUID `json:"booking_id" validate:"required"`
	Method    string    `json:"method" validate:"required,payment_method"`
}

// VerifyRequest for POST /host/payments/{id}/verify
type VerifyRequest struct {
	PaidAmount float64 `json:"paid_amount" validate:"gt=0"`
}

// RejectRequest for POST /host/payments/{id}/reject
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
