package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campy/campy-api/internal/pkg/database"
)

// Repository defines payment data access
type Repository interface {
	// Create fails with ErrPaymentExists while the booking has an open payment
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	AttachSlip(ctx context.Context, id uuid.UUID, slipURL, thumbURL string) (*Payment, error)
	// Verify marks a submitted payment verified while its booking is confirmed
	Verify(ctx context.Context, id uuid.UUID, paidAmount float64) (*Payment, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*Payment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, int, error)
	ListByHost(ctx context.Context, hostID uuid.UUID, status Status, limit, offset int) ([]*Payment, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const paymentColumns = `id, booking_id, user_id, host_id, amount, paid_amount, currency, method, status,
	slip_url, slip_thumb_url, reject_reason, created_at, updated_at, submitted_at, verified_at`

func (r *repository) Create(ctx context.Context, p *Payment) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (:id, :booking_id, :user_id, :host_id, :amount, :paid_amount, :currency, :method, :status,
			:slip_url, :slip_thumb_url, :reject_reason, :created_at, :updated_at, :submitted_at, :verified_at)
	`, p)
	if database.IsUniqueViolation(err) {
		return ErrPaymentExists
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// transition runs an UPDATE guarded by the current status and maps a
// missed guard to ErrInvalidStatus
func (r *repository) transition(ctx context.Context, query string, args ...interface{}) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, query+` RETURNING `+paymentColumns, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidStatus
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) AttachSlip(ctx context.Context, id uuid.UUID, slipURL, thumbURL string) (*Payment, error) {
	return r.transition(ctx, `
		UPDATE payments SET
			slip_url = $2, slip_thumb_url = $3, status = 'submitted', reject_reason = '',
			submitted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'rejected')`, id, slipURL, thumbURL)
}

func (r *repository) Verify(ctx context.Context, id uuid.UUID, paidAmount float64) (*Payment, error) {
	return r.transition(ctx, `
		UPDATE payments SET
			status = 'verified', paid_amount = $2, verified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'submitted'
		  AND EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.id = payments.booking_id AND b.status = 'confirmed')`, id, paidAmount)
}

func (r *repository) Reject(ctx context.Context, id uuid.UUID, reason string) (*Payment, error) {
	return r.transition(ctx, `
		UPDATE payments SET status = 'rejected', reject_reason = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'submitted'`, id, reason)
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM payments WHERE user_id = $1`, userID); err != nil {
		return nil, 0, err
	}

	var payments []*Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+` FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *repository) ListByHost(ctx context.Context, hostID uuid.UUID, status Status, limit, offset int) ([]*Payment, int, error) {
	where := "WHERE host_id = $1"
	args := []interface{}{hostID}
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM payments "+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM payments %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var payments []*Payment
	if err := r.db.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}
