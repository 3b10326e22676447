package pipeline

import (
	"context"
	"fmt"
	"time"
)

// RetryConfig bounds the wait for a source to become ready.
type RetryConfig struct {
	Delay       time.Duration // Wait between open attempts (default: 1 second)
	MaxAttempts int           // Open attempts before giving up; 0 waits until ctx is done
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Delay: 1 * time.Second,
	}
}

// acquire opens src and keeps reopening it until it is ready. With
// MaxAttempts == 0 this only returns on readiness or ctx cancellation, so a
// caller that needs a deadline must put one on ctx.
func (r *Runner) acquire(ctx context.Context, algorithm string, src Source) error {
	delay := r.retry.Delay
	if delay <= 0 {
		delay = DefaultRetryConfig().Delay
	}

	lastErr := src.Open()
	for attempt := 1; !src.Ready(); attempt++ {
		if r.retry.MaxAttempts > 0 && attempt >= r.retry.MaxAttempts {
			if lastErr != nil {
				return fmt.Errorf("%w after %d attempts: %v", ErrSourceNotReady, attempt, lastErr)
			}
			return fmt.Errorf("%w after %d attempts", ErrSourceNotReady, attempt)
		}

		fields := map[string]interface{}{
			"algorithm": algorithm,
			"attempt":   attempt,
			"delay":     delay.String(),
		}
		if lastErr != nil {
			fields["error"] = lastErr.Error()
		}
		r.logger.Info("Runner", "waiting for the video to be loaded", fields)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		lastErr = src.Open()
	}

	return nil
}
