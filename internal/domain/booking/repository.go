package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/pkg/database"
)

// Repository defines booking data access
type Repository interface {
	// Create inserts a booking unless it overlaps an active stay (ErrDatesUnavailable)
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	// UpdateStay rewrites dates, guests, add-ons and price of a pending booking
	// and carries the new total to its open payment. It fails with
	// ErrPaymentInReview once a slip was submitted or verified.
	UpdateStay(ctx context.Context, b *Booking) error
	// UpdateStatus moves a booking from one status to another. It returns
	// ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason string) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Booking, int, error)
	ListByHost(ctx context.Context, hostID uuid.UUID, filter ListFilter, limit, offset int) ([]*Booking, int, error)
	// ActiveStays returns pending and confirmed stays on an accommodation
	ActiveStays(ctx context.Context, accommodationID, excludeID uuid.UUID) ([]pricing.DateRange, error)
	// ExpirePending cancels stale pending bookings that have no slip under
	// review or verified
	ExpirePending(ctx context.Context, createdBefore time.Time) ([]*Booking, error)
	CompleteFinished(ctx context.Context, today time.Time) ([]*Booking, error)
	Dashboard(ctx context.Context, hostID uuid.UUID, today time.Time) (*DashboardStats, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// paymentInReview matches bookings whose guest has already sent money
const paymentInReview = `EXISTS (
	SELECT 1 FROM payments p
	WHERE p.booking_id = bookings.id AND p.status IN ('submitted', 'verified'))`

const bookingColumns = `id, user_id, host_id, camp_id, accommodation_id, check_in, check_out,
	adults, children, infants, pets, addon_ids,
	nights, base_price, extra_adult_price, extra_child_price, addon_price, subtotal, vat, total,
	status, payment_method, note, cancel_reason, created_at, updated_at, confirmed_at, cancelled_at`

func (r *repository) Create(ctx context.Context, b *Booking) error {
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// serialize bookings per accommodation
		if _, err := tx.ExecContext(ctx, `SELECT id FROM accommodations WHERE id = $1 FOR UPDATE`, b.AccommodationID); err != nil {
			return err
		}

		var overlapping int
		err := tx.GetContext(ctx, &overlapping, `
			SELECT COUNT(*) FROM bookings
			WHERE accommodation_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND check_in < $3 AND check_out > $2
		`, b.AccommodationID, b.CheckIn, b.CheckOut)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrDatesUnavailable
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES (:id, :user_id, :host_id, :camp_id, :accommodation_id, :check_in, :check_out,
				:adults, :children, :infants, :pets, :addon_ids,
				:nights, :base_price, :extra_adult_price, :extra_child_price, :addon_price, :subtotal, :vat, :total,
				:status, :payment_method, :note, :cancel_reason, :created_at, :updated_at, :confirmed_at, :cancelled_at)
		`, b)
		return err
	})
	if database.IsExclusionViolation(err) {
		return ErrDatesUnavailable
	}
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) UpdateStay(ctx context.Context, b *Booking) error {
	b.UpdatedAt = time.Now()
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT id FROM accommodations WHERE id = $1 FOR UPDATE`, b.AccommodationID); err != nil {
			return err
		}

		var overlapping int
		err := tx.GetContext(ctx, &overlapping, `
			SELECT COUNT(*) FROM bookings
			WHERE accommodation_id = $1 AND id <> $4
			  AND status IN ('pending', 'confirmed')
			  AND check_in < $3 AND check_out > $2
		`, b.AccommodationID, b.CheckIn, b.CheckOut, b.ID)
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return ErrDatesUnavailable
		}

		var inReview bool
		if err := tx.GetContext(ctx, &inReview, `SELECT `+paymentInReview+` FROM bookings WHERE id = $1`, b.ID); err != nil {
			return err
		}
		if inReview {
			return ErrPaymentInReview
		}

		res, err := tx.NamedExecContext(ctx, `
			UPDATE bookings SET
				check_in = :check_in, check_out = :check_out,
				adults = :adults, children = :children, infants = :infants, pets = :pets,
				addon_ids = :addon_ids, nights = :nights,
				base_price = :base_price, extra_adult_price = :extra_adult_price,
				extra_child_price = :extra_child_price, addon_price = :addon_price,
				subtotal = :subtotal, vat = :vat, total = :total,
				note = :note, updated_at = :updated_at
			WHERE id = :id AND status = 'pending'
		`, b)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrNotModifiable
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE payments SET amount = $2, updated_at = NOW()
			WHERE booking_id = $1 AND status IN ('pending', 'rejected')
		`, b.ID, b.Total)
		return err
	})
	if database.IsExclusionViolation(err) {
		return ErrDatesUnavailable
	}
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason string) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `
		UPDATE bookings SET
			status = $3,
			cancel_reason = CASE WHEN $3 = 'cancelled' THEN $4 ELSE cancel_reason END,
			confirmed_at = CASE WHEN $3 = 'confirmed' THEN NOW() ELSE confirmed_at END,
			cancelled_at = CASE WHEN $3 = 'cancelled' THEN NOW() ELSE cancelled_at END,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING `+bookingColumns, id, from, to, reason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) list(ctx context.Context, column string, id uuid.UUID, filter ListFilter, limit, offset int) ([]*Booking, int, error) {
	where := fmt.Sprintf("WHERE %s = $1", column)
	args := []interface{}{id}
	if filter.Status != "" {
		where += " AND status = $2"
		args = append(args, filter.Status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bookings "+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings %s ORDER BY check_in DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var bookings []*Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Booking, int, error) {
	return r.list(ctx, "user_id", userID, filter, limit, offset)
}

func (r *repository) ListByHost(ctx context.Context, hostID uuid.UUID, filter ListFilter, limit, offset int) ([]*Booking, int, error) {
	return r.list(ctx, "host_id", hostID, filter, limit, offset)
}

func (r *repository) ActiveStays(ctx context.Context, accommodationID, excludeID uuid.UUID) ([]pricing.DateRange, error) {
	var rows []struct {
		CheckIn  time.Time `db:"check_in"`
		CheckOut time.Time `db:"check_out"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT check_in, check_out FROM bookings
		WHERE accommodation_id = $1 AND id <> $2
		  AND status IN ('pending', 'confirmed')
		  AND check_out >= CURRENT_DATE
	`, accommodationID, excludeID)
	if err != nil {
		return nil, err
	}

	stays := make([]pricing.DateRange, 0, len(rows))
	for _, row := range rows {
		stays = append(stays, pricing.DateRange{From: row.CheckIn, To: row.CheckOut})
	}
	return stays, nil
}

func (r *repository) ExpirePending(ctx context.Context, createdBefore time.Time) ([]*Booking, error) {
	var bookings []*Booking
	err := r.db.SelectContext(ctx, &bookings, `
		UPDATE bookings SET
			status = 'cancelled', cancel_reason = 'payment not received in time',
			cancelled_at = NOW(), updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
		  AND NOT `+paymentInReview+`
		RETURNING `+bookingColumns, createdBefore)
	return bookings, err
}

func (r *repository) CompleteFinished(ctx context.Context, today time.Time) ([]*Booking, error) {
	var bookings []*Booking
	err := r.db.SelectContext(ctx, &bookings, `
		UPDATE bookings SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed' AND check_out <= $1
		RETURNING `+bookingColumns, today)
	return bookings, err
}

func (r *repository) Dashboard(ctx context.Context, hostID uuid.UUID, today time.Time) (*DashboardStats, error) {
	var stats DashboardStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COALESCE(SUM(total) FILTER (WHERE status IN ('confirmed', 'completed')), 0) AS revenue
		FROM bookings WHERE host_id = $1
	`, hostID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &stats.UpcomingCheckIns, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE host_id = $1 AND status = 'confirmed' AND check_in >= $2
		ORDER BY check_in ASC
		LIMIT 10
	`, hostID, today)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
