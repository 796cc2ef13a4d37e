package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Config bounds a retried operation: up to MaxRetries+1 attempts, a fixed
// Delay between attempts, and a per-attempt Timeout (0 disables it).
type Config struct {
	MaxRetries int
	Delay      time.Duration
	Timeout    time.Duration
}

// Do runs operation until it succeeds or the attempt budget is spent, waiting
// the fixed Delay between attempts. Each attempt gets its own timeout context
// derived from ctx.
func Do[T any](ctx context.Context, config Config, operation func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		opCtx := ctx
		cancel := context.CancelFunc(func() {})
		if config.Timeout > 0 {
			opCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		}

		result, err := operation(opCtx)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err

		log.Debug().
			Err(err).
			Int("attempt", attempt+1).
			Msg("Operation failed")

		if attempt < config.MaxRetries {
			log.Debug().
				Dur("delay", config.Delay).
				Int("next_attempt", attempt+2).
				Msg("Retrying after delay")

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(config.Delay):
			}
		}
	}

	return zero, fmt.Errorf("operation failed after %d attempts: %w", config.MaxRetries+1, lastErr)
}
