package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/chat-service/internal/repository"
)

// PendingSweeper periodically drops expired pending registrations.
type PendingSweeper struct {
	store    repository.PendingRegistrationStore
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewPendingSweeper builds a sweeper. A non-positive interval disables it.
func NewPendingSweeper(store repository.PendingRegistrationStore, interval time.Duration, logger *zap.Logger) *PendingSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PendingSweeper{store: store, interval: interval, logger: logger, now: time.Now}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *PendingSweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce removes expired entries and returns how many were dropped.
func (s *PendingSweeper) SweepOnce(ctx context.Context) int {
	removed, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Warn("pending registration sweep failed", zap.Error(err))
		return 0
	}
	if removed > 0 {
		s.logger.Info("expired pending registrations removed", zap.Int("count", removed))
	}
	return removed
}
