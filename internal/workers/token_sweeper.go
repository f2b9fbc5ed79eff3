package workers

import (
	"context"
	"time"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/service"
)

// TokenSweeper periodically reclaims expired token rows. Expiry is already
// enforced at verification time, so the sweeper only keeps the tokens table
// from growing without bound.
type TokenSweeper struct {
	auth     service.AuthService
	interval time.Duration

	logger *logger.Logger
}

func NewTokenSweeper(auth service.AuthService, interval time.Duration, logger *logger.Logger) *TokenSweeper {
	return &TokenSweeper{
		auth:     auth,
		interval: interval,
		logger:   logger,
	}
}

// Run starts the sweep loop in its own goroutine and returns immediately.
// The loop runs for the process lifetime.
func (t *TokenSweeper) Run() {
	go t.loop()
}

func (t *TokenSweeper) loop() {
	ctx := t.logger.WithContext(context.Background())

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for range ticker.C {
		swept, err := t.auth.SweepExpiredTokens(ctx)
		if err != nil {
			t.logger.Err(err).Msg("expired token sweep failed")
			continue
		}

		if swept > 0 {
			t.logger.Info().Int64("swept", swept).Msg("expired tokens reclaimed")
		}
	}
}
