package booking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker expires unpaid bookings and completes finished stays
type Worker struct {
	service    *Service
	pendingTTL time.Duration
	interval   time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewWorker creates a booking worker
func NewWorker(service *Service, pendingTTL, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if pendingTTL <= 0 {
		pendingTTL = 24 * time.Hour
	}
	return &Worker{
		service:    service,
		pendingTTL: pendingTTL,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background loop
func (w *Worker) Start() {
	log.Info().Dur("interval", w.interval).Dur("pending_ttl", w.pendingTTL).Msg("Starting booking worker...")
	w.wg.Add(1)
	go w.loop()
}

// Stop stops the loop and waits for the current run to finish
func (w *Worker) Stop() {
	log.Info().Msg("Stopping booking worker...")
	close(w.stopCh)
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce()

	for {
		select {
		case <-ticker.C:
			w.RunOnce()
		case <-w.stopCh:
			return
		}
	}
}

// RunOnce performs one sweep
func (w *Worker) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expired, err := w.service.ExpireStale(ctx, w.pendingTTL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to expire pending bookings")
	} else if expired > 0 {
		log.Info().Int("count", expired).Msg("Expired pending bookings")
	}

	completed, err := w.service.CompleteFinished(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to complete finished bookings")
	} else if completed > 0 {
		log.Info().Int("count", completed).Msg("Completed finished bookings")
	}
}
