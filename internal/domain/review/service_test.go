package review

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/domain/booking"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/jwt"
)

type fakeRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*Review
}

func (f *fakeRepo) Create(ctx context.Context, review *Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.BookingID == review.BookingID {
			return ErrAlreadyReviewed
		}
	}
	cp := *review
	f.reviews[review.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) HasReviewed(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reviews {
		if r.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) ListByCamp(ctx context.Context, campID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Review
	for _, r := range f.reviews {
		if r.CampID == campID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) Summary(ctx context.Context, campID uuid.UUID) (*RatingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[int]int{}
	for _, r := range f.reviews {
		if r.CampID == campID {
			counts[r.Rating]++
		}
	}
	return summarize(counts), nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.reviews, id)
	return nil
}

type fakeBookings map[uuid.UUID]*booking.Booking

func (f fakeBookings) Get(ctx context.Context, id, userID uuid.UUID) (*booking.Booking, error) {
	b, ok := f[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	if !b.IsParty(userID) {
		return nil, booking.ErrForbidden
	}
	return b, nil
}

type ratingCall struct {
	rating float64
	count  int
}

type recordingRatings struct {
	calls map[uuid.UUID]ratingCall
}

func (r *recordingRatings) RefreshRating(ctx context.Context, campID uuid.UUID, rating float64, count int) error {
	r.calls[campID] = ratingCall{rating: rating, count: count}
	return nil
}

type fixture struct {
	svc     *Service
	repo    *fakeRepo
	ratings *recordingRatings
	books   fakeBookings
	campID  uuid.UUID
	hostID  uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		repo:    &fakeRepo{reviews: map[uuid.UUID]*Review{}},
		ratings: &recordingRatings{calls: map[uuid.UUID]ratingCall{}},
		books:   fakeBookings{},
		campID:  uuid.New(),
		hostID:  uuid.New(),
	}
	f.svc = NewService(f.repo, f.books, f.ratings)
	return f
}

func (f *fixture) stay(status booking.Status) *booking.Booking {
	b := &booking.Booking{ID: uuid.New(), CampID: f.campID, UserID: uuid.New(), HostID: f.hostID, Status: status}
	f.books[b.ID] = b
	return b
}

func TestCreateRefreshesCampRating(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, rating := range []int{5, 4, 4} {
		b := f.stay(booking.StatusCompleted)
		if _, err := f.svc.Create(ctx, b.UserID, &CreateRequest{CampID: f.campID, BookingID: b.ID, Rating: rating}); err != nil {
			t.Fatal(err)
		}
	}

	got := f.ratings.calls[f.campID]
	if got.count != 3 || got.rating != 4.3 {
		t.Fatalf("expected 4.3 over 3 reviews, got %+v", got)
	}

	summary, _ := f.svc.Summary(ctx, f.campID)
	if summary.Distribution[4] != 2 || summary.Distribution[1] != 0 || len(summary.Distribution) != 5 {
		t.Fatalf("unexpected distribution %v", summary.Distribution)
	}
}

func TestCreateEligibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	confirmed := f.stay(booking.StatusConfirmed)
	if _, err := f.svc.Create(ctx, confirmed.UserID, &CreateRequest{CampID: f.campID, BookingID: confirmed.ID, Rating: 5}); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("unfinished stay: expected ErrNotEligible, got %v", err)
	}

	done := f.stay(booking.StatusCompleted)
	cases := []struct {
		name   string
		userID uuid.UUID
		req    CreateRequest
	}{
		{"host reviewing own camp", f.hostID, CreateRequest{CampID: f.campID, BookingID: done.ID, Rating: 5}},
		{"stranger", uuid.New(), CreateRequest{CampID: f.campID, BookingID: done.ID, Rating: 5}},
		{"other camp", done.UserID, CreateRequest{CampID: uuid.New(), BookingID: done.ID, Rating: 5}},
		{"unknown booking", done.UserID, CreateRequest{CampID: f.campID, BookingID: uuid.New(), Rating: 5}},
	}
	for _, c := range cases {
		if _, err := f.svc.Create(ctx, c.userID, &c.req); !errors.Is(err, ErrNotEligible) {
			t.Fatalf("%s: expected ErrNotEligible, got %v", c.name, err)
		}
	}

	req := &CreateRequest{CampID: f.campID, BookingID: done.ID, Rating: 3, Comment: "  Quiet at night  "}
	rev, err := f.svc.Create(ctx, done.UserID, req)
	if err != nil {
		t.Fatal(err)
	}
	if rev.Comment.String != "Quiet at night" {
		t.Fatalf("comment not trimmed: %q", rev.Comment.String)
	}
	if _, err := f.svc.Create(ctx, done.UserID, req); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestDeleteOnlyByAuthor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.stay(booking.StatusCompleted)
	rev, _ := f.svc.Create(ctx, b.UserID, &CreateRequest{CampID: f.campID, BookingID: b.ID, Rating: 2})

	if err := f.svc.Delete(ctx, rev.ID, f.hostID); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}
	if err := f.svc.Delete(ctx, rev.ID, b.UserID); err != nil {
		t.Fatal(err)
	}
	if got := f.ratings.calls[f.campID]; got.count != 0 || got.rating != 0 {
		t.Fatalf("expected rating reset, got %+v", got)
	}
	if err := f.svc.Delete(ctx, rev.ID, b.UserID); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestReviewRoutes(t *testing.T) {
	f := newFixture()
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	h := NewHandler(f.svc)

	r := chi.NewRouter()
	r.Mount("/reviews", h.Routes(middleware.Auth(jwtSvc)))
	r.Route("/camps/{id}", h.CampRoutes)

	b := f.stay(booking.StatusCompleted)
	token, _ := jwtSvc.GenerateAccessToken(b.UserID, jwt.RoleGuest)

	post := func(body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		json.NewEncoder(&buf).Encode(body)
		req := httptest.NewRequest(http.MethodPost, "/reviews", &buf)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	if rr := post(map[string]interface{}{"camp_id": f.campID, "booking_id": b.ID, "rating": 6}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("rating 6: expected 422, got %d", rr.Code)
	}
	if rr := post(map[string]interface{}{"camp_id": f.campID, "booking_id": b.ID, "rating": 5}); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := post(map[string]interface{}{"camp_id": f.campID, "booking_id": b.ID, "rating": 5}); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", rr.Code)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/camps/"+f.campID.String()+"/reviews/summary", nil))
	var body struct {
		Data RatingSummary `json:"data"`
	}
	json.NewDecoder(rr.Body).Decode(&body)
	if rr.Code != http.StatusOK || body.Data.TotalReviews != 1 || body.Data.AverageRating != 5 {
		t.Fatalf("unexpected summary %d %+v", rr.Code, body.Data)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/camps/"+f.campID.String()+"/reviews", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
}
