package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/campy/campy-api/internal/config"
	"github.com/campy/campy-api/internal/domain/booking"
	"github.com/campy/campy-api/internal/domain/camp"
	"github.com/campy/campy-api/internal/domain/notification"
	"github.com/campy/campy-api/internal/domain/pricing"
	"github.com/campy/campy-api/internal/domain/user"
	"github.com/campy/campy-api/internal/pkg/database"
	"github.com/campy/campy-api/internal/pkg/email"
	"github.com/campy/campy-api/internal/pkg/logger"
)

// booking-worker expires unpaid bookings and completes finished stays.
// Events go out through Redis so API instances deliver them to websockets.
func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise logger")
	}

	log.Info().Msg("Starting booking-worker")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	mailer := email.NewService(email.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	})
	defer mailer.Close()

	service := booking.NewService(
		booking.NewRepository(db),
		camp.NewRepository(db),
		user.NewRepository(db),
		pricing.NewCalculator(cfg.VATRate),
		pricing.NewValidator(cfg.PricingPolicy()),
		notification.NewRelayPublisher(rdb),
		mailer,
	)

	worker := booking.NewWorker(service, cfg.PendingBookingTTL, cfg.WorkerInterval)
	worker.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	worker.Stop()
	log.Info().Msg("booking-worker stopped")
}
