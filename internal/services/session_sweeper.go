package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xenithra/authcore/domain"
)

// SessionSweeper periodically removes expired session records. The sweep is
// an efficiency measure only: reads already treat expired sessions as
// invalid before the sweeper gets to them.
type SessionSweeper struct {
	sessionRepo domain.SessionRepository
	interval    time.Duration
	logger      *zap.Logger
}

// NewSessionSweeper creates a new sweeper.
func NewSessionSweeper(sessionRepo domain.SessionRepository, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		interval:    interval,
		logger:      logger,
	}
}

// Run sweeps on the configured interval until ctx is cancelled. It runs on
// its own goroutine schedule and never blocks request handling.
func (s *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.sessionRepo.DeleteExpired(ctx)
			if err != nil {
				s.logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("session sweep removed expired sessions",
					zap.Int("removed", removed))
			}
		}
	}
}
