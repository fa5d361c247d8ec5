// Package resilience protects the service from an unhealthy database:
// a retry policy for start-up, and a guard combining a bulkhead with a
// circuit breaker for request-time calls.
package resilience

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy describes how often and how patiently to retry.
type RetryPolicy struct {
	// Attempts is the total number of tries, at least one.
	Attempts int
	// Backoff is the wait before the second try. It doubles on every
	// further try, plus up to 50% jitter.
	Backoff time.Duration
	// MaxBackoff caps a single wait, jitter included, when positive.
	MaxBackoff time.Duration
	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error, wait time.Duration)
}

// Retry calls fn until it succeeds, the attempts run out or ctx is done.
// It returns the last error from fn, or the context error.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)

	var err error
	for attempt := 1; ; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err = fn(ctx); err == nil || attempt == attempts {
			return err
		}

		wait := p.wait(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// wait returns the pause after the given failed attempt (1-based).
// MaxBackoff bounds the result, jitter included.
func (p RetryPolicy) wait(attempt int) time.Duration {
	if p.Backoff <= 0 {
		return 0
	}
	shift := min(attempt-1, 32)
	d := p.Backoff << shift
	if d>>shift != p.Backoff {
		d = math.MaxInt64 / 2
	}
	if half := int64(d / 2); half > 0 {
		d += time.Duration(rand.Int63n(half))
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	return d
}
