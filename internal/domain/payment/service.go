package payment

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campy/campy-api/internal/domain/booking"
	"github.com/campy/campy-api/internal/domain/notification"
	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/domain/user"
	"github.com/campy/campy-api/internal/pkg/currency"
	"github.com/campy/campy-api/internal/pkg/email"
	"github.com/campy/campy-api/internal/pkg/imaging"
	"github.com/campy/campy-api/internal/pkg/storage"
)

// Bookings is the booking workflow payments drive
type Bookings interface {
	Get(ctx context.Context, id, userID uuid.UUID) (*booking.Booking, error)
	Confirm(ctx context.Context, id, hostID uuid.UUID) (*booking.Booking, error)
	CampName(ctx context.Context, campID uuid.UUID) string
}

// UserLookup resolves guests for emails
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service handles payment business logic
type Service struct {
	repo     Repository
	bookings Bookings
	users    UserLookup
	storage  storage.Storage
	images   *imaging.Processor
	policy   pricing.Policy
	events   notification.Publisher
	mailer   email.Sender // nil disables emails
}

// NewService creates payment service
func NewService(repo Repository, bookings Bookings, users UserLookup, store storage.Storage, images *imaging.Processor, policy pricing.Policy, events notification.Publisher, mailer email.Sender) *Service {
	if events == nil {
		events = notification.NopPublisher{}
	}
	return &Service{
		repo:     repo,
		bookings: bookings,
		users:    users,
		storage:  store,
		images:   images,
		policy:   policy,
		events:   events,
		mailer:   mailer,
	}
}

// Create opens a payment for a pending booking of the caller.
// The amount is the stored booking total, never a client value.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRequest) (*Payment, error) {
	b, err := s.bookings.Get(ctx, req.BookingID, userID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status != booking.StatusPending {
		return nil, ErrBookingNotPayable
	}

	now := time.Now()
	p := &Payment{
		ID:        uuid.New(),
		BookingID: b.ID,
		UserID:    userID,
		HostID:    b.HostID,
		Amount:    b.Total,
		Currency:  currency.Base,
		Method:    Method(req.Method),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", p.ID.String()).
		Str("booking_id", b.ID.String()).
		Float64("amount", p.Amount).
		Msg("payment created")
	return p, nil
}

// UploadSlip stores a transfer slip and submits the payment for host review
func (s *Service) UploadSlip(ctx context.Context, id, userID uuid.UUID, file io.Reader) (*Payment, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrForbidden
	}
	if !p.AcceptsSlip() {
		return nil, ErrInvalidStatus
	}

	buf, _, err := storage.ValidateAndBuffer(file, storage.CategoryPaymentSlip)
	if err != nil {
		return nil, err
	}
	img, err := s.images.Process(buf)
	if err != nil {
		return nil, err
	}

	originalKey, thumbKey := imaging.Keys(fmt.Sprintf("slips/%s", p.BookingID), img.ContentType)
	if err := s.storage.Put(ctx, originalKey, bytes.NewReader(img.Original), img.ContentType); err != nil {
		return nil, err
	}
	if err := s.storage.Put(ctx, thumbKey, bytes.NewReader(img.Thumbnail), img.ContentType); err != nil {
		_ = s.storage.Delete(ctx, originalKey)
		return nil, err
	}

	updated, err := s.repo.AttachSlip(ctx, p.ID, s.storage.GetURL(originalKey), s.storage.GetURL(thumbKey))
	if err != nil {
		return nil, err
	}

	log.Info().Str("payment_id", p.ID.String()).Msg("payment slip submitted")
	s.publish(ctx, updated.HostID, notification.EventPaymentSubmitted, updated)
	return updated, nil
}

// Verify accepts a submitted payment and confirms its booking. The paid
// amount must match the current booking total within the price tolerance,
// and the booking must still be pending or already confirmed.
//
// The booking is confirmed before the payment row is marked verified, so a
// failure in between leaves a confirmed booking with a submitted payment
// that the host can verify again.
func (s *Service) Verify(ctx context.Context, id, hostID uuid.UUID, paidAmount float64) (*Payment, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.HostID != hostID {
		return nil, ErrForbidden
	}
	if p.Status != StatusSubmitted {
		return nil, ErrInvalidStatus
	}

	b, err := s.bookings.Get(ctx, p.BookingID, hostID)
	if err != nil {
		return nil, err
	}
	if !acceptsPayment(b.Status) {
		return nil, ErrBookingNotPayable
	}
	if !s.policy.WithinTolerance(b.Total, paidAmount) {
		return nil, &AmountMismatchError{Expected: b.Total, Paid: paidAmount}
	}

	if b.Status == booking.StatusPending {
		if err := s.confirmBooking(ctx, b.ID, hostID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Verify(ctx, p.ID, paidAmount)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", p.ID.String()).
		Str("booking_id", p.BookingID.String()).
		Float64("paid_amount", paidAmount).
		Float64("booking_total", b.Total).
		Msg("payment verified")
	s.publish(ctx, updated.UserID, notification.EventPaymentVerified, updated)
	return updated, nil
}

func acceptsPayment(status booking.Status) bool {
	return status == booking.StatusPending || status == booking.StatusConfirmed
}

// confirmBooking confirms a pending booking. Losing the race to a host who
// confirmed by hand is fine; losing it to a cancellation is not.
func (s *Service) confirmBooking(ctx context.Context, bookingID, hostID uuid.UUID) error {
	_, err := s.bookings.Confirm(ctx, bookingID, hostID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, booking.ErrInvalidTransition) {
		return fmt.Errorf("confirm booking before payment: %w", err)
	}

	current, getErr := s.bookings.Get(ctx, bookingID, hostID)
	if getErr != nil {
		return getErr
	}
	if current.Status != booking.StatusConfirmed {
		return ErrBookingNotPayable
	}
	return nil
}

// Reject sends a submitted payment back to the guest with a reason
func (s *Service) Reject(ctx context.Context, id, hostID uuid.UUID, reason string) (*Payment, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.HostID != hostID {
		return nil, ErrForbidden
	}
	if p.Status != StatusSubmitted {
		return nil, ErrInvalidStatus
	}

	updated, err := s.repo.Reject(ctx, p.ID, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}

	log.Info().Str("payment_id", p.ID.String()).Msg("payment rejected")
	s.publish(ctx, updated.UserID, notification.EventPaymentRejected, updated)
	s.sendRejectedEmail(ctx, updated)
	return updated, nil
}

// Get returns a payment visible to its guest and host
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Payment, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID && p.HostID != userID {
		return nil, ErrForbidden
	}
	return p, nil
}

// History returns the caller's payments
func (s *Service) History(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Payment, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, (page-1)*limit)
}

// ListForHost returns payments to review across a host's camps
func (s *Service) ListForHost(ctx context.Context, hostID uuid.UUID, status Status, page, limit int) ([]*Payment, int, error) {
	return s.repo.ListByHost(ctx, hostID, status, limit, (page-1)*limit)
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (s *Service) publish(ctx context.Context, userID uuid.UUID, t notification.EventType, p *Payment) {
	if err := s.events.Publish(ctx, userID, notification.NewEvent(t, p)); err != nil {
		log.Warn().Err(err).Str("payment_id", p.ID.String()).Str("event", string(t)).Msg("failed to publish payment event")
	}
}

func (s *Service) sendRejectedEmail(ctx context.Context, p *Payment) {
	if s.mailer == nil || s.users == nil {
		return
	}
	guest, err := s.users.GetByID(ctx, p.UserID)
	if err != nil || guest == nil {
		log.Warn().Err(err).Str("payment_id", p.ID.String()).Msg("rejection email skipped, guest not found")
		return
	}

	campName := ""
	if b, err := s.bookings.Get(ctx, p.BookingID, p.UserID); err == nil {
		campName = s.bookings.CampName(ctx, b.CampID)
	}

	s.mailer.Queue(guest.Email, guest.FullName, email.TemplatePaymentRejected, "Your Campy payment needs attention", map[string]interface{}{
		"Name":     guest.FullName,
		"CampName": campName,
		"Reason":   p.RejectReason,
	})
}
