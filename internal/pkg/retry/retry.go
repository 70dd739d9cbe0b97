// Package retry re-runs an operation while it reports a pending or transient condition.
//
// The ethereum adapter polls for transaction receipts with it until the node reports
// the receipt or the context ends. The SNS sink retries throttled publishes.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Unlimited makes Do keep trying until the context is done.
const Unlimited = -1

// Config holds configuration for retry behavior.
type Config struct {
	// MaxRetries is the number of extra attempts after the first one.
	// Unlimited keeps going until the context ends.
	MaxRetries int

	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between attempts.
	MaxBackoff time.Duration

	// BackoffFactor multiplies the wait after each retry. 1.0 gives a fixed interval.
	BackoffFactor float64

	// Jitter adds rand(0, backoff) to every wait.
	Jitter bool
}

// PollConfig returns a fixed-interval config that retries until the context ends.
func PollConfig(interval time.Duration) Config {
	return Config{
		MaxRetries:     Unlimited,
		InitialBackoff: interval,
		MaxBackoff:     interval,
		BackoffFactor:  1.0,
	}
}

// IsRetryableFunc determines if an error should trigger another attempt.
type IsRetryableFunc func(error) bool

// OnRetryFunc is called before each retry. attempt is 1-indexed.
type OnRetryFunc func(attempt int, err error, backoff time.Duration)

type backoff struct {
	cfg     Config
	current time.Duration
}

func newBackoff(cfg Config) *backoff {
	if cfg.BackoffFactor <= 0 {
		cfg.BackoffFactor = 2.0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 10 * time.Millisecond
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = cfg.InitialBackoff
	}
	return &backoff{cfg: cfg, current: cfg.InitialBackoff}
}

// next returns the wait for this retry and advances the schedule.
func (b *backoff) next() time.Duration {
	wait := b.current
	if b.cfg.Jitter {
		wait += time.Duration(rand.Int63n(int64(b.current)))
	}
	b.current = time.Duration(float64(b.current) * b.cfg.BackoffFactor)
	if b.current > b.cfg.MaxBackoff {
		b.current = b.cfg.MaxBackoff
	}
	return wait
}

// Do calls fn at least once and again while isRetryable reports true for its error.
// It returns the first success, the first non-retryable error, or the last error
// once the budget is spent.
func Do[T any](
	ctx context.Context,
	cfg Config,
	isRetryable IsRetryableFunc,
	onRetry OnRetryFunc,
	fn func() (T, error),
) (T, error) {
	var zero T
	b := newBackoff(cfg)

	for attempt := 0; ; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !isRetryable(err) {
			return zero, err
		}
		if cfg.MaxRetries != Unlimited && attempt >= cfg.MaxRetries {
			return zero, fmt.Errorf("operation failed after %d retries: %w", cfg.MaxRetries, err)
		}

		wait := b.next()
		if onRetry != nil {
			onRetry(attempt+1, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("context cancelled while retrying: %w", ctx.Err())
		case <-timer.C:
		}
	}
}

// DoVoid is like Do but for functions that don't return a value.
func DoVoid(
	ctx context.Context,
	cfg Config,
	isRetryable IsRetryableFunc,
	onRetry OnRetryFunc,
	fn func() error,
) error {
	_, err := Do(ctx, cfg, isRetryable, onRetry, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
