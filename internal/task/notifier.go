// Package task runs background jobs for the library service. The only job
// today is the notifier, which re-derives loan notifications on an interval
// so reminders appear even when nobody logs in.
package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/escolalib/biblio-api/internal/service"
)

// Notifier periodically runs the notification deriver. Derivation itself is
// idempotent within a calendar day, so the interval only controls how quickly
// a loan crossing into the reminder window is noticed.
type Notifier struct {
	notificationService service.NotificationService
	interval            time.Duration
	logger              *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewNotifier creates a Notifier that derives every interval.
// If logger is nil the default logger is used.
func NewNotifier(notificationService service.NotificationService, interval time.Duration, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		notificationService: notificationService,
		interval:            interval,
		logger:              logger.With(slog.String("component", "notifier")),
	}
}

// Start launches the background loop. It derives once immediately, then on
// every tick until Stop is called.
func (n *Notifier) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	n.cancel = cancel

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		n.run(ctx)

		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n.run(ctx)
			}
		}
	}()

	n.logger.Info("notifier started", slog.Duration("interval", n.interval))
}

// Stop cancels the loop and waits for an in-flight derivation to finish.
func (n *Notifier) Stop() {
	if n.cancel == nil {
		return
	}
	n.cancel()
	n.wg.Wait()
	n.logger.Info("notifier stopped")
}

func (n *Notifier) run(ctx context.Context) {
	if _, err := n.notificationService.Derive(ctx); err != nil {
		n.logger.Error("notification derivation failed",
			slog.String("error", err.Error()))
	}
}
