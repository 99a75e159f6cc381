package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dronework/marketplace-api/internal/core/ports"
)

const defaultSweepInterval = 5 * time.Minute

// Sweeper periodically flips active-but-expired sessions to inactive so
// abandoned logins do not linger as live rows. Sweeping is safe to run
// concurrently with authorize and refresh: deactivation is monotonic.
type Sweeper struct {
	sessions ports.SessionRepository
	interval time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSweeper creates a Sweeper. If interval <= 0, defaultSweepInterval is
// used.
func NewSweeper(sessions ports.SessionRepository, interval time.Duration, logger zerolog.Logger, now func() time.Time) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Sweeper{sessions: sessions, interval: interval, logger: logger, now: now}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep pass and returns the number of sessions
// deactivated.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	n, err := s.sessions.SweepExpired(ctx, s.now())
	if err != nil {
		s.logger.Error().Err(err).Msg("session sweep failed")
		return 0
	}
	if n > 0 {
		s.logger.Info().Int64("deactivated", n).Msg("swept expired sessions")
	}
	return n
}
