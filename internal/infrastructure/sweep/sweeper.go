// Package sweep runs the periodic bulk removal of expired refresh tokens,
// independent of any request path.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecommerce-platform/auth-service/internal/api/metrics"
	"github.com/ecommerce-platform/auth-service/internal/core/ports"
)

const defaultInterval = time.Hour

// Sweeper deletes expired refresh tokens on a fixed interval. It only ever
// removes rows whose expiry has already passed, so running concurrently with
// request-path operations is safe.
type Sweeper struct {
	tokens   ports.RefreshTokenService
	interval time.Duration
	log      zerolog.Logger
}

// NewSweeper creates a Sweeper. If interval <= 0, defaultInterval is used.
func NewSweeper(tokens ports.RefreshTokenService, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Sweeper{tokens: tokens, interval: interval, log: log}
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
			s.log.Info().Msg("token sweeper stopped")
			return
		case <-ticker.C:
			n, err := s.tokens.SweepExpired(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("token sweep failed")
				continue
			}
			metrics.SweepDeletedTotal.Add(float64(n))
		}
	}
}
