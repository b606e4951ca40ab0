package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/camp"
	"github.com/campy/campy-api/internal/domain/notification"
	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/domain/user"
)

type fakeRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
	// bookings with a submitted or verified payment slip
	slipInReview map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: map[uuid.UUID]*Booking{}, slipInReview: map[uuid.UUID]bool{}}
}

func (f *fakeRepo) overlaps(b *Booking) bool {
	for _, other := range f.bookings {
		if other.ID == b.ID || other.AccommodationID != b.AccommodationID {
			continue
		}
		if other.Status != StatusPending && other.Status != StatusConfirmed {
			continue
		}
		if other.Dates().Overlaps(b.Dates()) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) Create(ctx context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.overlaps(b) {
		return ErrDatesUnavailable
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) UpdateStay(ctx context.Context, b *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookings[b.ID].Status != StatusPending {
		return ErrNotModifiable
	}
	if f.overlaps(b) {
		return ErrDatesUnavailable
	}
	if f.slipInReview[b.ID] {
		return ErrPaymentInReview
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, reason string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return nil, ErrInvalidTransition
	}
	b.Status = to
	if to == StatusCancelled {
		b.CancelReason = reason
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) list(match func(*Booking) bool, filter ListFilter) ([]*Booking, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Booking{}
	for _, b := range f.bookings {
		if match(b) && (filter.Status == "" || b.Status == filter.Status) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, filter ListFilter, limit, offset int) ([]*Booking, int, error) {
	return f.list(func(b *Booking) bool { return b.UserID == userID }, filter)
}

func (f *fakeRepo) ListByHost(ctx context.Context, hostID uuid.UUID, filter ListFilter, limit, offset int) ([]*Booking, int, error) {
	return f.list(func(b *Booking) bool { return b.HostID == hostID }, filter)
}

func (f *fakeRepo) ActiveStays(ctx context.Context, accommodationID, excludeID uuid.UUID) ([]pricing.DateRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pricing.DateRange
	for _, b := range f.bookings {
		if b.AccommodationID == accommodationID && b.ID != excludeID &&
			(b.Status == StatusPending || b.Status == StatusConfirmed) {
			out = append(out, b.Dates())
		}
	}
	return out, nil
}

func (f *fakeRepo) ExpirePending(ctx context.Context, createdBefore time.Time) ([]*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Booking
	for _, b := range f.bookings {
		if b.Status == StatusPending && b.CreatedAt.Before(createdBefore) && !f.slipInReview[b.ID] {
			b.Status = StatusCancelled
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) CompleteFinished(ctx context.Context, today time.Time) ([]*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Booking
	for _, b := range f.bookings {
		if b.Status == StatusConfirmed && !b.CheckOut.After(today) {
			b.Status = StatusCompleted
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) Dashboard(ctx context.Context, hostID uuid.UUID, today time.Time) (*DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &DashboardStats{}
	for _, b := range f.bookings {
		if b.HostID != hostID {
			continue
		}
		switch b.Status {
		case StatusPending:
			stats.Pending++
		case StatusConfirmed:
			stats.Confirmed++
			stats.Revenue += b.Total
		case StatusCancelled:
			stats.Cancelled++
		case StatusCompleted:
			stats.Completed++
			stats.Revenue += b.Total
		}
	}
	return stats, nil
}

type fakeCatalog struct {
	camps  map[uuid.UUID]*camp.Camp
	accs   map[uuid.UUID]*camp.Accommodation
	addons []*camp.Addon
}

func (c *fakeCatalog) GetByID(ctx context.Context, id uuid.UUID) (*camp.Camp, error) {
	return c.camps[id], nil
}

func (c *fakeCatalog) GetAccommodation(ctx context.Context, id uuid.UUID) (*camp.Accommodation, error) {
	return c.accs[id], nil
}

func (c *fakeCatalog) ListAddons(ctx context.Context, campID uuid.UUID) ([]*camp.Addon, error) {
	var out []*camp.Addon
	for _, a := range c.addons {
		if a.CampID == campID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeUsers map[uuid.UUID]*user.User

func (u fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return u[id], nil
}

type sentEvent struct {
	UserID uuid.UUID
	Type   notification.EventType
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []sentEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, userID uuid.UUID, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, sentEvent{UserID: userID, Type: event.Type})
	return nil
}

func (p *recordingPublisher) has(userID uuid.UUID, t notification.EventType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.events {
		if e.UserID == userID && e.Type == t {
			return true
		}
	}
	return false
}

type queuedMail struct {
	To       string
	Template string
	Data     map[string]interface{}
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []queuedMail
}

func (m *recordingMailer) Queue(to, toName, templateName, subject string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, _ := data.(map[string]interface{})
	m.sent = append(m.sent, queuedMail{To: to, Template: templateName, Data: d})
}
