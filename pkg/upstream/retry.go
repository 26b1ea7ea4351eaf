package upstream

import (
	"context"
	"time"
)

const DefaultAttempts = 3

// Policy bounds how a single upstream call is retried.
type Policy struct {
	// Attempts is the total number of invocations, including the first.
	Attempts int
	// Backoff is the delay before the second attempt; it doubles on every
	// further attempt up to MaxBackoff. Zero retries immediately.
	Backoff    time.Duration
	MaxBackoff time.Duration

	// Retryable decides whether a failure is worth another attempt.
	// Nil means IsTransient.
	Retryable func(error) bool
	// OnRetry runs before attempt n (2-based) is issued.
	OnRetry func(attempt int, err error)
}

func (p Policy) attempts() int {
	if p.Attempts <= 0 {
		return DefaultAttempts
	}
	return p.Attempts
}

func (p Policy) delay(attempt int) time.Duration {
	if p.Backoff <= 0 {
		return 0
	}
	d := p.Backoff << (attempt - 2)
	if d <= 0 || (p.MaxBackoff > 0 && d > p.MaxBackoff) {
		d = p.MaxBackoff
	}
	return d
}

// Do invokes op until it succeeds or the policy is exhausted, returning the
// last failure unchanged.
func Do[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var (
		val T
		err error
	)
	for attempt := 1; ; attempt++ {
		val, err = op(ctx)
		if err == nil {
			return val, nil
		}
		if attempt >= p.attempts() || !retryable(err) || ctx.Err() != nil {
			return val, err
		}

		next := attempt + 1
		if p.OnRetry != nil {
			p.OnRetry(next, err)
		}
		if d := p.delay(next); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return val, err
			case <-t.C:
			}
		}
	}
}
