package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campy/campy-api/internal/config"
	"github.com/campy/campy-api/internal/domain/auth"
	"github.com/campy/campy-api/internal/domain/booking"
	"github.com/campy/campy-api/internal/domain/camp"
	"github.com/campy/campy-api/internal/domain/consent"
	"github.com/campy/campy-api/internal/domain/favorite"
	"github.com/campy/campy-api/internal/domain/notification"
	"github.com/campy/campy-api/internal/domain/payment"
	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/domain/review"
	"github.com/campy/campy-api/internal/pkg/jwt"
)

// testRouter wires handlers without backing stores; only paths that are
// rejected before reaching a repository are exercised.
func testRouter(t *testing.T) (http.Handler, *jwt.Service) {
	t.Helper()
	jwtService := jwt.NewService("secret", time.Minute, time.Hour)
	calculator := pricing.NewCalculator(pricing.DefaultVATRate)

	bookingService := booking.NewService(nil, nil, nil, calculator, pricing.NewValidator(pricing.DefaultPolicy()), nil, nil)
	campService := camp.NewService(nil, nil, nil, nil, calculator)
	hub := notification.NewHub(nil)

	h := handlers{
		auth:     auth.NewHandler(auth.NewService(nil, jwtService, nil, nil)),
		camp:     camp.NewHandler(campService),
		booking:  booking.NewHandler(bookingService),
		payment:  payment.NewHandler(payment.NewService(nil, bookingService, nil, nil, nil, pricing.DefaultPolicy(), hub, nil)),
		favorite: favorite.NewHandler(nil, nil),
		review:   review.NewHandler(review.NewService(nil, bookingService, campService)),
		consent:  consent.NewHandler(consent.NewService(nil)),
		realtime: notification.NewHandler(hub, nil),
	}
	cfg := &config.Config{AllowedOrigins: []string{"http://localhost:3000"}}
	return newRouter(cfg, jwtService, h), jwtService
}

func TestRouterWiring(t *testing.T) {
	router, jwtService := testRouter(t)
	guest, _ := jwtService.GenerateAccessToken(uuid.New(), jwt.RoleGuest)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"ready without stores", http.MethodGet, "/ready", "", http.StatusOK},
		{"ping", http.MethodGet, "/api/v1/ping", "", http.StatusOK},
		{"currencies", http.MethodGet, "/api/v1/currencies", "", http.StatusOK},
		{"bookings need auth", http.MethodGet, "/api/v1/bookings", "", http.StatusUnauthorized},
		{"payments need auth", http.MethodGet, "/api/v1/payments", "", http.StatusUnauthorized},
		{"favorites need auth", http.MethodGet, "/api/v1/favorites", "", http.StatusUnauthorized},
		{"websocket needs auth", http.MethodGet, "/ws", "", http.StatusUnauthorized},
		{"host area needs host role", http.MethodGet, "/api/v1/host/dashboard", guest, http.StatusForbidden},
		{"camp id is validated", http.MethodGet, "/api/v1/camps/not-a-uuid", "", http.StatusBadRequest},
		{"reviews hang off camps", http.MethodGet, "/api/v1/camps/not-a-uuid/reviews", "", http.StatusBadRequest},
		{"consent needs a subject", http.MethodGet, "/api/v1/consent", "", http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(c.method, c.path, nil)
			if c.token != "" {
				req.Header.Set("Authorization", "Bearer "+c.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != c.want {
				t.Fatalf("expected %d, got %d body=%s", c.want, rr.Code, rr.Body.String())
			}
		})
	}
}
