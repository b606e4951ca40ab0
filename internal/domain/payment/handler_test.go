package payment

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campy/campy-api/internal/domain/booking"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/jwt"
)

type testServer struct {
	router     http.Handler
	guestToken string
	hostToken  string
}

func newTestServer(f *fixture) testServer {
	jwtSvc := jwt.NewService("secret", time.Minute, time.Hour)
	h := NewHandler(f.svc)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtSvc))
		r.Mount("/payments", h.Routes())
		r.With(middleware.RequireHost()).Mount("/host/payments", h.HostRoutes())
	})

	guest, _ := jwtSvc.GenerateAccessToken(f.guestID, jwt.RoleGuest)
	host, _ := jwtSvc.GenerateAccessToken(f.hostID, jwt.RoleHost)
	return testServer{router: r, guestToken: guest, hostToken: host}
}

func (s testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s testServer) json(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)
	return s.do(method, path, token, &buf, "application/json")
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rr.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func TestPaymentFlowOverHTTP(t *testing.T) {
	f := newFixture()
	srv := newTestServer(f)

	rr := srv.json(http.MethodPost, "/payments", srv.guestToken, map[string]string{
		"booking_id": f.booking.ID.String(),
		"method":     "promptpay",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var p Payment
	json.Unmarshal(decode(t, rr).Data, &p)

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, _ := mw.CreateFormFile("file", "slip.png")
	part.Write(slipPNG(t).Bytes())
	mw.Close()

	rr = srv.do(http.MethodPost, "/payments/"+p.ID.String()+"/slip", srv.guestToken, &form, mw.FormDataContentType())
	if rr.Code != http.StatusOK {
		t.Fatalf("slip: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = srv.json(http.MethodPost, "/host/payments/"+p.ID.String()+"/verify", srv.hostToken, map[string]float64{"paid_amount": 100})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("verify mismatch: expected 422, got %d", rr.Code)
	}
	env := decode(t, rr)
	var details AmountMismatchError
	json.Unmarshal(env.Error.Details, &details)
	if env.Error.Code != "AMOUNT_MISMATCH" || details.Expected != 4654.5 || details.Paid != 100 {
		t.Fatalf("unexpected error %s %+v", env.Error.Code, details)
	}

	rr = srv.json(http.MethodPost, "/host/payments/"+p.ID.String()+"/verify", srv.hostToken, map[string]float64{"paid_amount": 4654.5})
	if rr.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = srv.do(http.MethodGet, "/payments", srv.guestToken, nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", rr.Code)
	}
}

func TestVerifyCancelledBookingOverHTTP(t *testing.T) {
	f := newFixture()
	srv := newTestServer(f)
	p := f.submitted(t)
	f.booking.Status = booking.StatusCancelled

	rr := srv.json(http.MethodPost, "/host/payments/"+p.ID.String()+"/verify", srv.hostToken, map[string]float64{"paid_amount": 4654.5})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	if env := decode(t, rr); env.Error == nil || env.Error.Code != "INVALID_STATUS" {
		t.Fatalf("unexpected error %+v", env.Error)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newFixture()
	srv := newTestServer(f)

	rr := srv.json(http.MethodPost, "/payments", srv.guestToken, map[string]string{
		"booking_id": f.booking.ID.String(),
		"method":     "bitcoin",
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	rr = srv.json(http.MethodPost, "/payments", "", map[string]string{"booking_id": f.booking.ID.String(), "method": "card"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestHostPaymentRoutes(t *testing.T) {
	f := newFixture()
	srv := newTestServer(f)
	p := f.submitted(t)

	rr := srv.do(http.MethodGet, "/host/payments", srv.guestToken, nil, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("guest on host routes: expected 403, got %d", rr.Code)
	}

	rr = srv.do(http.MethodGet, "/host/payments?status=refunded", srv.hostToken, nil, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad status: expected 400, got %d", rr.Code)
	}

	rr = srv.json(http.MethodPost, "/host/payments/"+p.ID.String()+"/reject", srv.hostToken, map[string]string{})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("reject without reason: expected 422, got %d", rr.Code)
	}

	rr = srv.json(http.MethodPost, "/host/payments/"+p.ID.String()+"/reject", srv.hostToken, map[string]string{"reason": "Wrong amount"})
	if rr.Code != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d", rr.Code)
	}

	rr = srv.json(http.MethodPost, "/host/payments/"+p.ID.String()+"/reject", srv.hostToken, map[string]string{"reason": "again"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("reject twice: expected 409, got %d", rr.Code)
	}

	rr = srv.do(http.MethodGet, "/payments/not-a-uuid", srv.guestToken, nil, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", rr.Code)
	}
}
