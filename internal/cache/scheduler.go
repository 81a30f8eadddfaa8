package cache

import (
	"context"
	"log/slog"
	"time"
)

// Refresher is satisfied by *Manager.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// RefreshScheduler calls RefreshAll on a fixed interval so datasets are
// reloaded before a user request finds them stale.
type RefreshScheduler struct {
	interval  time.Duration
	refresher Refresher
}

func NewRefreshScheduler(interval time.Duration, refresher Refresher) *RefreshScheduler {
	return &RefreshScheduler{interval: interval, refresher: refresher}
}

// Start runs until ctx is cancelled. A non-positive interval disables the
// scheduler.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		slog.Info("[RefreshScheduler] Disabled (no interval)")
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[RefreshScheduler] Starting periodic refresh", "interval", s.interval)

	for {
		select {
		case <-ticker.C:
			s.refresh(ctx)
		case <-ctx.Done():
			slog.Info("[RefreshScheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

func (s *RefreshScheduler) refresh(ctx context.Context) {
	started := time.Now()
	if err := s.refresher.RefreshAll(ctx); err != nil {
		slog.Error("[RefreshScheduler] Refresh failed", "error", err)
		return
	}
	slog.Info("[RefreshScheduler] Refresh complete", "duration", time.Since(started))
}
