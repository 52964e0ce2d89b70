package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/capmanage/capmanage/internal/auth/store"
)

// HousekeepingService periodically deletes expired refresh tokens and ledger
// rows so neither table grows without bound.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Clock    Clock

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs cleanup now and then on every tick until Stop is called.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes expired rows. A failure in one table does not stop the
// other.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	now := s.Clock.now()

	refresh, err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired refresh tokens", "error", err)
	}

	// An expired single-use token fails verification before the ledger is
	// consulted, so its row is no longer needed.
	redemptions, err := s.Store.Redemptions().DeleteExpiredRedemptions(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired redemptions", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"refresh_tokens_deleted", refresh,
		"redemptions_deleted", redemptions,
	)
}
