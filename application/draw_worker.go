package application

import (
	"context"
	"time"

	"github.com/JGonCor/lottery-platform-sub001/config"

	log "github.com/sirupsen/logrus"
)

// DrawWorker fires scheduled draws. It polls the open draw and triggers the
// transition to AWAITING_RANDOMNESS once the draw interval has elapsed.
type DrawWorker struct {
	app *App
	cfg *config.Config
}

// NewDrawWorker creates a new draw worker
func NewDrawWorker(app *App, cfg *config.Config) *DrawWorker {
	return &DrawWorker{
		app: app,
		cfg: cfg,
	}
}

// Start begins the draw worker and returns a cleanup function
func (w *DrawWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("pollInterval", w.cfg.WorkerPollInterval).Info("Draw worker started")

		ticker := time.NewTicker(w.cfg.WorkerPollInterval)
		defer ticker.Stop()

		// Fire once immediately so a past-due draw is not delayed by a
		// full poll interval after restart.
		w.tick(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Draw worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Draw worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.tick(ctx)
			}
		}
	}()

	// Return cleanup function
	return func() {
		close(stopChan)
	}
}

// tick triggers a draw if one is due and logs the next draw time otherwise.
// A panic in one tick must not kill the worker loop.
func (w *DrawWorker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Draw worker tick panicked")
		}
	}()

	now := time.Now().UTC()

	triggered, err := w.app.TriggerDrawIfDue(ctx, now)
	if err != nil {
		log.WithError(err).Error("Failed to check for due draw")
		return
	}
	if triggered {
		log.Info("Draw triggered, awaiting oracle randomness")
		return
	}

	wait, err := w.app.GetTimeUntilNextDraw(ctx, now)
	if err != nil {
		log.WithError(err).Error("Failed to compute time until next draw")
		return
	}
	log.WithField("wait", wait).Debug("No draw due yet")
}
