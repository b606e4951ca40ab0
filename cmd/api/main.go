package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

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
	"github.com/campy/campy-api/internal/domain/user"
	"github.com/campy/campy-api/internal/middleware"
	"github.com/campy/campy-api/internal/pkg/currency"
	"github.com/campy/campy-api/internal/pkg/database"
	"github.com/campy/campy-api/internal/pkg/email"
	"github.com/campy/campy-api/internal/pkg/imaging"
	"github.com/campy/campy-api/internal/pkg/jwt"
	"github.com/campy/campy-api/internal/pkg/logger"
	pkgresponse "github.com/campy/campy-api/internal/pkg/response"
	"github.com/campy/campy-api/internal/pkg/storage"
)

// handlers groups everything the router mounts
type handlers struct {
	auth     *auth.Handler
	camp     *camp.Handler
	booking  *booking.Handler
	payment  *payment.Handler
	favorite *favorite.Handler
	review   *review.Handler
	consent  *consent.Handler
	realtime *notification.Handler
	probe    *database.Probe

	// uploads serves local storage files, nil when objects live in S3
	uploads http.Handler
}

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Campy API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	store, err := storage.New(storage.Config{
		Driver:      cfg.StorageDriver,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3AccessKey: cfg.S3AccessKeyID,
		S3SecretKey: cfg.S3AccessKey,
		S3Bucket:    cfg.S3Bucket,
		S3PublicURL: cfg.S3PublicURL,
		LocalPath:   cfg.LocalStoragePath,
		LocalURL:    cfg.LocalPublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage")
	}

	mailer := email.NewService(email.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	})
	defer mailer.Close()

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	calculator := pricing.NewCalculator(cfg.VATRate)
	policy := cfg.PricingPolicy()

	// ---------- WebSocket hub ----------
	hub := notification.NewHub(redis)
	go hub.Run()
	defer hub.Shutdown()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	campRepo := camp.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	favoriteRepo := favorite.NewRepository(db)
	reviewRepo := review.NewRepository(db)
	consentRepo := consent.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, auth.NewRedisRefreshStore(redis), mailer)
	campService := camp.NewService(campRepo, camp.NewRedisDetailCache(redis), store,
		imaging.NewProcessor(imaging.CampPhotoConfig()), calculator)
	bookingService := booking.NewService(bookingRepo, campRepo, userRepo, calculator,
		pricing.NewValidator(policy), hub, mailer)
	paymentService := payment.NewService(paymentRepo, bookingService, userRepo, store,
		imaging.NewProcessor(imaging.SlipConfig()), policy, hub, mailer)
	reviewService := review.NewService(reviewRepo, bookingService, campService)
	consentService := consent.NewService(consentRepo)

	if cfg.RunBookingWorker {
		worker := booking.NewWorker(bookingService, cfg.PendingBookingTTL, cfg.WorkerInterval)
		worker.Start()
		defer worker.Stop()
	}

	h := handlers{
		auth:     auth.NewHandler(authService),
		camp:     camp.NewHandler(campService),
		booking:  booking.NewHandler(bookingService),
		payment:  payment.NewHandler(paymentService),
		favorite: favorite.NewHandler(favoriteRepo, campRepo),
		review:   review.NewHandler(reviewService),
		consent:  consent.NewHandler(consentService),
		realtime: notification.NewHandler(hub, cfg.AllowedOrigins),
		probe:    database.NewProbe(db, redis),
	}
	if cfg.StorageDriver != "s3" {
		h.uploads = http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalStoragePath)))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, jwtService, h),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newRouter(cfg *config.Config, jwtService *jwt.Service, h handlers) http.Handler {
	authMiddleware := middleware.Auth(jwtService)
	optionalAuth := middleware.OptionalAuth(jwtService)

	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (outside Compress, token comes as ?token=)
	r.With(authMiddleware).Get("/ws", h.realtime.WebSocket)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if failures := h.probe.Check(r.Context()); len(failures) > 0 {
			pkgresponse.ErrorWithDetails(w, http.StatusServiceUnavailable, "NOT_READY", "Dependencies unavailable", failures)
			return
		}
		pkgresponse.OK(w, map[string]string{"status": "ready"})
	})

	if h.uploads != nil {
		r.Handle("/uploads/*", h.uploads)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})
		r.Get("/currencies", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, currency.Supported())
		})

		r.Mount("/auth", h.auth.Routes(authMiddleware))
		r.Mount("/camps", h.camp.Routes(optionalAuth, h.review.CampRoutes))
		r.Mount("/bookings", h.booking.Routes(authMiddleware, optionalAuth))
		r.Mount("/favorites", h.favorite.Routes(authMiddleware))
		r.Mount("/reviews", h.review.Routes(authMiddleware))
		r.Mount("/consent", h.consent.Routes(optionalAuth))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Mount("/payments", h.payment.Routes())
		})

		r.Route("/host", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireHost())

			r.Get("/dashboard", h.booking.Dashboard)
			r.Mount("/camps", h.camp.HostRoutes())
			r.Mount("/bookings", h.booking.HostRoutes())
			r.Mount("/payments", h.payment.HostRoutes())
		})
	})

	return r
}
