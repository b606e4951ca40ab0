package payment

import (
	"time"

	"github.com/google/uuid"
)

// Status represents payment status
type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusVerified  Status = "verified"
	StatusRejected  Status = "rejected"
)

// Method represents how the guest pays
type Method string

const (
	MethodPromptPay    Method = "promptpay"
	MethodBankTransfer Method = "bank_transfer"
	MethodCard         Method = "card"
)

// Payment is a guest's payment for one booking. Amount is copied from the
// stored booking total and is always THB.
type Payment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	BookingID    uuid.UUID  `db:"booking_id" json:"booking_id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	HostID       uuid.UUID  `db:"host_id" json:"host_id"`
	Amount       float64    `db:"amount" json:"amount"`
	PaidAmount   *float64   `db:"paid_amount" json:"paid_amount,omitempty"`
	Currency     string     `db:"currency" json:"currency"`
	Method       Method     `db:"method" json:"method"`
	Status       Status     `db:"status" json:"status"`
	SlipURL      string     `db:"slip_url" json:"slip_url,omitempty"`
	SlipThumbURL string     `db:"slip_thumb_url" json:"slip_thumb_url,omitempty"`
	RejectReason string     `db:"reject_reason" json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	SubmittedAt  *time.Time `db:"submitted_at" json:"submitted_at,omitempty"`
	VerifiedAt   *time.Time `db:"verified_at" json:"verified_at,omitempty"`
}

// AcceptsSlip reports whether a (new) slip may be uploaded
func (p *Payment) AcceptsSlip() bool {
	return p.Status == StatusPending || p.Status == StatusRejected
}
