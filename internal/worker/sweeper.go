// Package worker holds background jobs of the booking service.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

// ExpiredPaymentPurger drops pending payment requests past their window.
type ExpiredPaymentPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// PendingPaymentSweeper periodically reclaims expired pending requests.
// Verification never depends on it having run.
type PendingPaymentSweeper struct {
	purger   ExpiredPaymentPurger
	interval time.Duration
	logger   *zap.Logger
}

func NewPendingPaymentSweeper(purger ExpiredPaymentPurger, interval time.Duration, logger *zap.Logger) *PendingPaymentSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PendingPaymentSweeper{
		purger:   purger,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *PendingPaymentSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Pending payment sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Pending payment sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single purge.
func (s *PendingPaymentSweeper) Sweep(ctx context.Context) int {
	purged, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		apperrors.LogError(s.logger, err, "Failed to purge expired payment requests")
		return 0
	}
	if purged > 0 {
		s.logger.Info("Purged expired payment requests", zap.Int("count", purged))
	}
	return purged
}
