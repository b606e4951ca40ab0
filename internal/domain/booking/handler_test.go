package booking

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func newTestRouter(f *fixture) (http.Handler, string, string) {
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	h := NewHandler(f.svc)

	r := chi.NewRouter()
	r.Mount("/bookings", h.Routes(middleware.Auth(jwtSvc), middleware.OptionalAuth(jwtSvc)))
	r.With(middleware.Auth(jwtSvc), middleware.RequireHost()).Mount("/host/bookings", h.HostRoutes())

	guest, _ := jwtSvc.GenerateAccessToken(f.guestID, jwt.RoleGuest)
	host, _ := jwtSvc.GenerateAccessToken(f.hostID, jwt.RoleHost)
	return r, guest, host
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestCreateHandlerErrors(t *testing.T) {
	f := newFixture()
	router, guest, _ := newTestRouter(f)
	stay := f.stay("2026-11-01", "2026-11-04", 3, 1)

	if rr, _ := call(t, router, http.MethodPost, "/bookings", "", CreateRequest{StayRequest: stay}); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr, env := call(t, router, http.MethodPost, "/bookings", guest, CreateRequest{StayRequest: stay, ExpectedTotal: ptr(100.0)})
	if rr.Code != http.StatusConflict || env.Error == nil || env.Error.Code != "PRICE_MISMATCH" {
		t.Fatalf("expected 409 PRICE_MISMATCH, got %d %s", rr.Code, rr.Body.String())
	}
	var mismatch PriceMismatchError
	json.Unmarshal(env.Error.Details, &mismatch)
	if math.Abs(mismatch.Actual-4654.5) > 1e-9 || mismatch.Expected != 100 {
		t.Fatalf("unexpected details %+v", mismatch)
	}

	bad := f.stay("2026-11-04", "2026-11-01", 1, 0)
	rr, env = call(t, router, http.MethodPost, "/bookings", guest, CreateRequest{StayRequest: bad})
	if rr.Code != http.StatusUnprocessableEntity || env.Error.Code != "BOOKING_INVALID" {
		t.Fatalf("expected 422 BOOKING_INVALID, got %d %s", rr.Code, rr.Body.String())
	}
	var details struct {
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	}
	json.Unmarshal(env.Error.Details, &details)
	if len(details.Errors) == 0 || details.Errors[0] != pricing.MsgInvalidDateRange || details.Warnings == nil {
		t.Fatalf("unexpected details %+v", details)
	}

	rr, _ = call(t, router, http.MethodPost, "/bookings", guest, CreateRequest{StayRequest: stay, ExpectedTotal: ptr(4654.5)})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestQuoteHandlerAnonymous(t *testing.T) {
	f := newFixture()
	router, _, _ := newTestRouter(f)

	rr, env := call(t, router, http.MethodPost, "/bookings/quote", "", f.stay("2026-11-01", "2026-11-04", 3, 1))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	var q QuoteResponse
	json.Unmarshal(env.Data, &q)
	if q.Pricing == nil || math.Abs(q.Pricing.Total-4654.5) > 1e-9 || q.Validation.Valid {
		t.Fatalf("unexpected quote %+v", q)
	}
	if q.Display.Total != "฿4,654.50" {
		t.Fatalf("unexpected display %+v", q.Display)
	}
}

func TestHostConfirmHandler(t *testing.T) {
	f := newFixture()
	router, guest, host := newTestRouter(f)
	b := f.book(t, "2026-11-01", "2026-11-03")

	if rr, _ := call(t, router, http.MethodPost, "/host/bookings/"+b.ID.String()+"/confirm", guest, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("guest token should be rejected, got %d", rr.Code)
	}
	if rr, _ := call(t, router, http.MethodPost, "/host/bookings/"+b.ID.String()+"/confirm", host, nil); rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", rr.Code, rr.Body.String())
	}
	rr, env := call(t, router, http.MethodPost, "/host/bookings/"+b.ID.String()+"/confirm", host, nil)
	if rr.Code != http.StatusConflict || env.Error.Code != "INVALID_TRANSITION" {
		t.Fatalf("expected 409 INVALID_TRANSITION, got %d", rr.Code)
	}

	if rr, _ := call(t, router, http.MethodPost, "/bookings/"+b.ID.String()+"/cancel", guest, nil); rr.Code != http.StatusOK {
		t.Fatalf("expected cancel with empty body to succeed, got %d %s", rr.Code, rr.Body.String())
	}
	if rr, _ := call(t, router, http.MethodGet, "/bookings?status=bogus", guest, nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status filter, got %d", rr.Code)
	}
}
