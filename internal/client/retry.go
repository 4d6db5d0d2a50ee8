package client

import (
	"context"
	"time"
)

// RetryConfig holds the router's retry configuration.
type RetryConfig struct {
	MaxRetries int           // Total attempts per call (default: 3)
	BaseDelay  time.Duration // Delay multiplied by 2^attempt (default: 500ms)
	MaxJitter  time.Duration // Upper bound (exclusive) of the random jitter (default: 100ms)
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  500 * time.Millisecond,
		MaxJitter:  100 * time.Millisecond,
	}
}

// SingleAttemptConfig disables retries. Each call makes exactly one attempt.
func SingleAttemptConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = 1
	return cfg
}

// BackoffDelay returns the wait before the retry that follows attempt
// (0-indexed): 2^attempt * BaseDelay plus a jitter in [0, MaxJitter).
func (r *Router) BackoffDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	delay := time.Duration(1<<uint(attempt)) * r.retry.BaseDelay
	if r.retry.MaxJitter > 0 {
		delay += time.Duration(r.jitterFraction() * float64(r.retry.MaxJitter))
	}
	return delay
}

func (r *Router) jitterFraction() float64 {
	r.randMu.Lock()
	defer r.randMu.Unlock()
	return r.randFloat()
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
