package refresh

import (
	"context"
	"time"

	"github.com/vitrinewallet/vitrine/internal/config"
)

// DefaultWatchInterval is the period between watch-mode refresh sweeps.
const DefaultWatchInterval = 30 * time.Second

// Watcher runs RefreshAll on a fixed interval until its context is
// cancelled. One sweep runs immediately on start so watch mode shows data
// without waiting a full interval.
type Watcher struct {
	coordinator *Coordinator
	interval    time.Duration
	logger      *config.Logger
}

// NewWatcher creates a watcher. A non-positive interval falls back to
// DefaultWatchInterval.
func NewWatcher(coordinator *Coordinator, interval time.Duration, logger *config.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	if logger == nil {
		logger = config.NullLogger()
	}
	return &Watcher{
		coordinator: coordinator,
		interval:    interval,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled, sweeping all entities each interval.
// Sweep failures are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Watcher) sweep(ctx context.Context) {
	if err := w.coordinator.RefreshAll(ctx); err != nil {
		w.logger.Error("watch sweep failed: %v", err)
	}
}
