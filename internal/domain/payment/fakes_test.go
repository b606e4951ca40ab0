package payment

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/booking"
	"github.com/campy/campy-api/internal/domain/notification"
	"github.com/campy/campy-api/internal/domain/user"
)

type fakeRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{payments: map[uuid.UUID]*Payment{}}
}

func (f *fakeRepo) Create(ctx context.Context, p *Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.payments {
		if other.BookingID == p.BookingID && other.Status != StatusRejected {
			return ErrPaymentExists
		}
	}
	cp := *p
	f.payments[p.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) update(id uuid.UUID, from []Status, apply func(p *Payment)) (*Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, ErrInvalidStatus
	}
	for _, s := range from {
		if p.Status == s {
			apply(p)
			p.UpdatedAt = time.Now()
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrInvalidStatus
}

func (f *fakeRepo) AttachSlip(ctx context.Context, id uuid.UUID, slipURL, thumbURL string) (*Payment, error) {
	return f.update(id, []Status{StatusPending, StatusRejected}, func(p *Payment) {
		now := time.Now()
		p.SlipURL, p.SlipThumbURL = slipURL, thumbURL
		p.Status = StatusSubmitted
		p.RejectReason = ""
		p.SubmittedAt = &now
	})
}

func (f *fakeRepo) Verify(ctx context.Context, id uuid.UUID, paidAmount float64) (*Payment, error) {
	return f.update(id, []Status{StatusSubmitted}, func(p *Payment) {
		now := time.Now()
		p.Status = StatusVerified
		p.PaidAmount = &paidAmount
		p.VerifiedAt = &now
	})
}

func (f *fakeRepo) Reject(ctx context.Context, id uuid.UUID, reason string) (*Payment, error) {
	return f.update(id, []Status{StatusSubmitted}, func(p *Payment) {
		p.Status = StatusRejected
		p.RejectReason = reason
	})
}

func (f *fakeRepo) list(match func(*Payment) bool) ([]*Payment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*Payment{}
	for _, p := range f.payments {
		if match(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Payment, int, error) {
	return f.list(func(p *Payment) bool { return p.UserID == userID })
}

func (f *fakeRepo) ListByHost(ctx context.Context, hostID uuid.UUID, status Status, limit, offset int) ([]*Payment, int, error) {
	return f.list(func(p *Payment) bool {
		return p.HostID == hostID && (status == "" || p.Status == status)
	})
}

// fakeBookings mimics the booking service's visibility and transition rules
type fakeBookings struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*booking.Booking
	confirmed []uuid.UUID
	// beforeConfirm runs inside Confirm to simulate a concurrent change
	beforeConfirm func(b *booking.Booking)
}

func (f *fakeBookings) Get(ctx context.Context, id, userID uuid.UUID) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	if !b.IsParty(userID) {
		return nil, booking.ErrForbidden
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) Confirm(ctx context.Context, id, hostID uuid.UUID) (*booking.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	if b.HostID != hostID {
		return nil, booking.ErrForbidden
	}
	if f.beforeConfirm != nil {
		f.beforeConfirm(b)
	}
	if b.Status != booking.StatusPending {
		return nil, booking.ErrInvalidTransition
	}
	b.Status = booking.StatusConfirmed
	f.confirmed = append(f.confirmed, id)
	cp := *b
	return &cp, nil
}

func (f *fakeBookings) CampName(ctx context.Context, campID uuid.UUID) string {
	return "Doi Inthanon Base Camp"
}

type fakeUsers map[uuid.UUID]*user.User

func (u fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return u[id], nil
}

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (s *memoryStorage) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = buf.Bytes()
	return nil
}

func (s *memoryStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok, nil
}

func (s *memoryStorage) GetURL(key string) string {
	return "https://cdn.campy.test/" + key
}

type recordingPublisher struct {
	mu    sync.Mutex
	types map[uuid.UUID][]notification.EventType
}

func (p *recordingPublisher) Publish(ctx context.Context, userID uuid.UUID, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.types == nil {
		p.types = map[uuid.UUID][]notification.EventType{}
	}
	p.types[userID] = append(p.types[userID], event.Type)
	return nil
}

func (p *recordingPublisher) has(userID uuid.UUID, t notification.EventType) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, got := range p.types[userID] {
		if got == t {
			return true
		}
	}
	return false
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []map[string]interface{}
	tmpl []string
}

func (m *recordingMailer) Queue(to, toName, templateName, subject string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, _ := data.(map[string]interface{})
	m.sent = append(m.sent, d)
	m.tmpl = append(m.tmpl, templateName)
}
