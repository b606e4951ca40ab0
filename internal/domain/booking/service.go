package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/campy/campy-api/internal/domain/camp"
	"github.com/campy/campy-api/internal/domain/notification"
	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/domain/user"
	"github.com/campy/campy-api/internal/pkg/currency"
	"github.com/campy/campy-api/internal/pkg/email"
)

// Catalog is the part of the camp store bookings are priced against
type Catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*camp.Camp, error)
	GetAccommodation(ctx context.Context, id uuid.UUID) (*camp.Accommodation, error)
	ListAddons(ctx context.Context, campID uuid.UUID) ([]*camp.Addon, error)
}

// UserLookup resolves guests for emails
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service handles booking business logic
type Service struct {
	repo       Repository
	catalog    Catalog
	users      UserLookup
	calculator *pricing.Calculator
	validator  *pricing.Validator
	events     notification.Publisher
	mailer     email.Sender // nil disables emails
	now        func() time.Time
}

// NewService creates booking service
func NewService(repo Repository, catalog Catalog, users UserLookup, calculator *pricing.Calculator, validator *pricing.Validator, events notification.Publisher, mailer email.Sender) *Service {
	if events == nil {
		events = notification.NopPublisher{}
	}
	return &Service{
		repo:       repo,
		catalog:    catalog,
		users:      users,
		calculator: calculator,
		validator:  validator,
		events:     events,
		mailer:     mailer,
		now:        time.Now,
	}
}

// stay is a priced and validated request
type stay struct {
	camp       *camp.Camp
	acc        *camp.Accommodation
	dates      pricing.DateRange
	guests     pricing.GuestCount
	addons     []uuid.UUID
	price      *pricing.Breakdown
	validation pricing.ValidationResult
}

// evaluate reloads the accommodation and add-ons and runs the calculator and
// the validator on them. excludeID skips the booking being modified when
// looking for overlapping stays.
func (s *Service) evaluate(ctx context.Context, userID, campID, accID uuid.UUID, checkIn, checkOut string, guests pricing.GuestCount, addonIDs []uuid.UUID, excludeID uuid.UUID) (*stay, error) {
	c, err := s.catalog.GetByID(ctx, campID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.Status != camp.StatusPublished {
		return nil, ErrCampNotBookable
	}

	acc, err := s.catalog.GetAccommodation(ctx, accID)
	if err != nil {
		return nil, err
	}
	if acc == nil || acc.CampID != campID {
		return nil, ErrAccommodationNotFound
	}

	from, err := pricing.ParseDate(checkIn)
	if err != nil {
		return nil, err
	}
	to, err := pricing.ParseDate(checkOut)
	if err != nil {
		return nil, err
	}
	dates := pricing.DateRange{From: from, To: to}

	addons, err := s.catalog.ListAddons(ctx, campID)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.ActiveStays(ctx, accID, excludeID)
	if err != nil {
		return nil, err
	}

	rate := acc.ToPricing()
	return &stay{
		camp:   c,
		acc:    acc,
		dates:  dates,
		guests: guests,
		addons: addonIDs,
		price:  s.calculator.Compute(rate, dates, guests, camp.PricingAddons(addons), addonIDs),
		validation: s.validator.Validate(pricing.ValidationRequest{
			Accommodation: rate,
			Dates:         dates,
			Guests:        guests,
			UserID:        userID,
			Existing:      existing,
		}),
	}, nil
}

// accept turns a failed validation or a client estimate that disagrees with
// the server total into an error
func (s *Service) accept(st *stay, expectedTotal *float64) error {
	if !st.validation.Valid || st.price == nil {
		return &ValidationError{Result: st.validation}
	}
	if expectedTotal != nil && !s.validator.Policy().WithinTolerance(st.price.Total, *expectedTotal) {
		return &PriceMismatchError{Expected: *expectedTotal, Actual: st.price.Total}
	}
	return nil
}

// Quote prices and validates a stay without persisting it
func (s *Service) Quote(ctx context.Context, userID uuid.UUID, req *StayRequest) (*QuoteResponse, error) {
	st, err := s.evaluate(ctx, userID, req.CampID, req.AccommodationID, req.CheckIn, req.CheckOut, req.guests(), req.AddonIDs, uuid.Nil)
	if err != nil {
		return nil, err
	}

	code := req.Currency
	if code == "" {
		code = currency.Base
	}
	display, err := pricing.Display(st.price, code)
	if err != nil {
		return nil, err
	}

	return &QuoteResponse{Pricing: st.price, Validation: st.validation, Display: display}, nil
}

// Create books a stay as pending. The stored price is always the server computation.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRequest) (*Booking, error) {
	st, err := s.evaluate(ctx, userID, req.CampID, req.AccommodationID, req.CheckIn, req.CheckOut, req.guests(), req.AddonIDs, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if err := s.accept(st, req.ExpectedTotal); err != nil {
		return nil, err
	}

	now := s.now()
	b := &Booking{
		ID:              uuid.New(),
		UserID:          userID,
		HostID:          st.camp.HostID,
		CampID:          st.camp.ID,
		AccommodationID: st.acc.ID,
		Status:          StatusPending,
		PaymentMethod:   req.PaymentMethod,
		Note:            strings.TrimSpace(req.Note),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	b.setStay(st.dates, st.guests, st.addons, st.price)

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("accommodation_id", b.AccommodationID.String()).
		Float64("total", b.Total).
		Msg("booking created")

	s.publish(ctx, b.HostID, notification.EventBookingCreated, b)
	return b, nil
}

// Get returns a booking visible to its guest and its host
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if !b.IsParty(userID) {
		return nil, ErrForbidden
	}
	return b, nil
}

// ListMine returns the caller's bookings
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, filter ListFilter, page, limit int) ([]*Booking, int, error) {
	return s.repo.ListByUser(ctx, userID, filter, limit, (page-1)*limit)
}

// ListForHost returns bookings across all camps of a host
func (s *Service) ListForHost(ctx context.Context, hostID uuid.UUID, filter ListFilter, page, limit int) ([]*Booking, int, error) {
	return s.repo.ListByHost(ctx, hostID, filter, limit, (page-1)*limit)
}

// Modify changes a pending booking. The new stay is revalidated and repriced.
func (s *Service) Modify(ctx context.Context, id, userID uuid.UUID, req *ModifyRequest) (*Booking, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status != StatusPending {
		return nil, ErrNotModifiable
	}

	checkIn, checkOut := b.CheckIn.Format(pricing.DateLayout), b.CheckOut.Format(pricing.DateLayout)
	if req.CheckIn != nil {
		checkIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		checkOut = *req.CheckOut
	}
	guests := b.Guests()
	for _, f := range []struct {
		src *int
		dst *int
	}{{req.Adults, &guests.Adults}, {req.Children, &guests.Children}, {req.Infants, &guests.Infants}, {req.Pets, &guests.Pets}} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	addons := b.Addons()
	if req.AddonIDs != nil {
		addons = *req.AddonIDs
	}

	st, err := s.evaluate(ctx, userID, b.CampID, b.AccommodationID, checkIn, checkOut, guests, addons, b.ID)
	if err != nil {
		return nil, err
	}
	if err := s.accept(st, req.ExpectedTotal); err != nil {
		return nil, err
	}

	b.setStay(st.dates, st.guests, st.addons, st.price)
	if req.Note != nil {
		b.Note = strings.TrimSpace(*req.Note)
	}
	if err := s.repo.UpdateStay(ctx, b); err != nil {
		return nil, err
	}

	log.Info().Str("booking_id", b.ID.String()).Float64("total", b.Total).Msg("booking modified")
	return b, nil
}

// Cancel lets a guest cancel a pending booking, or a confirmed one before check-in
func (s *Service) Cancel(ctx context.Context, id, userID uuid.UUID, reason string) (*Booking, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if !CanTransition(b.Status, StatusCancelled) {
		return nil, ErrInvalidTransition
	}
	if b.Status == StatusConfirmed && !s.today().Before(dateOnly(b.CheckIn)) {
		return nil, ErrCancelWindowClosed
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, StatusCancelled, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}

	log.Info().Str("booking_id", b.ID.String()).Str("from", string(b.Status)).Msg("booking cancelled by guest")
	s.publish(ctx, updated.HostID, notification.EventBookingCancelled, updated)
	s.sendBookingEmail(ctx, updated, email.TemplateBookingCancelled, "Your Campy booking was cancelled")
	return updated, nil
}

// Confirm is called by the host, or by payment verification on the host's behalf
func (s *Service) Confirm(ctx context.Context, id, hostID uuid.UUID) (*Booking, error) {
	updated, err := s.hostTransition(ctx, id, hostID, StatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated.UserID, notification.EventBookingConfirmed, updated)
	s.sendBookingEmail(ctx, updated, email.TemplateBookingConfirmed, "Your Campy booking is confirmed")
	return updated, nil
}

// Complete marks a confirmed stay as done, which makes it reviewable
func (s *Service) Complete(ctx context.Context, id, hostID uuid.UUID) (*Booking, error) {
	updated, err := s.hostTransition(ctx, id, hostID, StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated.UserID, notification.EventBookingCompleted, updated)
	return updated, nil
}

func (s *Service) hostTransition(ctx context.Context, id, hostID uuid.UUID, to Status) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	if b.HostID != hostID {
		return nil, ErrForbidden
	}
	if !CanTransition(b.Status, to) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, b.ID, b.Status, to, "")
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("booking_id", b.ID.String()).
		Str("from", string(b.Status)).
		Str("to", string(to)).
		Msg("booking status changed")
	return updated, nil
}

// Dashboard returns the host overview
func (s *Service) Dashboard(ctx context.Context, hostID uuid.UUID) (*DashboardStats, error) {
	stats, err := s.repo.Dashboard(ctx, hostID, s.today())
	if err != nil {
		return nil, err
	}
	if stats.UpcomingCheckIns == nil {
		stats.UpcomingCheckIns = []*Booking{}
	}
	return stats, nil
}

// ExpireStale cancels pending bookings created before now-ttl
func (s *Service) ExpireStale(ctx context.Context, ttl time.Duration) (int, error) {
	expired, err := s.repo.ExpirePending(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("expire pending bookings: %w", err)
	}
	for _, b := range expired {
		s.publish(ctx, b.UserID, notification.EventBookingCancelled, b)
		s.publish(ctx, b.HostID, notification.EventBookingCancelled, b)
		s.sendBookingEmail(ctx, b, email.TemplateBookingCancelled, "Your Campy booking has expired")
	}
	return len(expired), nil
}

// CompleteFinished completes confirmed bookings whose check-out has passed
func (s *Service) CompleteFinished(ctx context.Context) (int, error) {
	done, err := s.repo.CompleteFinished(ctx, s.today())
	if err != nil {
		return 0, fmt.Errorf("complete finished bookings: %w", err)
	}
	for _, b := range done {
		s.publish(ctx, b.UserID, notification.EventBookingCompleted, b)
	}
	return len(done), nil
}

// CampName returns the camp's display name, or "" when it cannot be loaded
func (s *Service) CampName(ctx context.Context, campID uuid.UUID) string {
	c, err := s.catalog.GetByID(ctx, campID)
	if err != nil || c == nil {
		return ""
	}
	return c.Name
}

func (s *Service) today() time.Time {
	return dateOnly(s.now())
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *Service) publish(ctx context.Context, userID uuid.UUID, t notification.EventType, b *Booking) {
	if err := s.events.Publish(ctx, userID, notification.NewEvent(t, b)); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID.String()).Str("event", string(t)).Msg("failed to publish booking event")
	}
}

func (s *Service) sendBookingEmail(ctx context.Context, b *Booking, template, subject string) {
	if s.mailer == nil || s.users == nil {
		return
	}
	guest, err := s.users.GetByID(ctx, b.UserID)
	if err != nil || guest == nil {
		log.Warn().Err(err).Str("booking_id", b.ID.String()).Msg("booking email skipped, guest not found")
		return
	}

	campName := s.CampName(ctx, b.CampID)

	code := guest.PreferredCurrency
	if !currency.IsSupported(code) {
		code = currency.Base
	}
	total, _ := currency.Format(b.Total, code, currency.Options{})

	s.mailer.Queue(guest.Email, guest.FullName, template, subject, map[string]interface{}{
		"Name":     guest.FullName,
		"CampName": campName,
		"CheckIn":  b.CheckIn.Format(pricing.DateLayout),
		"CheckOut": b.CheckOut.Format(pricing.DateLayout),
		"Nights":   b.Nights,
		"Total":    total,
		"Reason":   b.CancelReason,
	})
}
