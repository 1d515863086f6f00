package generator

import (
	"context"
	"time"
)

// RetryPolicy wraps a remote call with bounded retries and exponential
// backoff. The zero value is not usable; build one with the run's tuning
// knobs via NewRetryPolicy.
type RetryPolicy struct {
	// MaxRetries is the total number of attempts, not the number of retries
	// after the first failure.
	MaxRetries int
	// Backoff is the initial delay; attempt n (zero-indexed) sleeps
	// Backoff << n before the next attempt.
	Backoff time.Duration
	// Retryable decides whether an error is worth another attempt. nil
	// retries everything, matching the behaviour users already rely on.
	Retryable func(error) bool
	// Sleep is swappable for tests. nil means time.Sleep.
	Sleep func(time.Duration)
	// OnRetry, when set, observes each scheduled retry (for log panes).
	OnRetry func(attempt int, wait time.Duration, err error)
}

// NewRetryPolicy builds a policy from the per-run settings.
func NewRetryPolicy(maxRetries, backoffSeconds int) RetryPolicy {
	if maxRetries < 1 {
		maxRetries = 1
	}
	if backoffSeconds < 1 {
		backoffSeconds = 1
	}
	return RetryPolicy{
		MaxRetries: maxRetries,
		Backoff:    time.Duration(backoffSeconds) * time.Second,
	}
}

// Do runs fn up to MaxRetries times. Between attempts it sleeps
// Backoff·2^attempt. Once attempts are exhausted, or the predicate rules
// the error out, the failure is surfaced as a RemoteCallError carrying the
// attempt count and the last cause.
func (p RetryPolicy) Do(ctx context.Context, op string, fn func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	var lastErr error
	for attempt := 0; attempt < p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return &RemoteCallError{Op: op, Attempts: attempt + 1, Err: lastErr}
		}
		if attempt < p.MaxRetries-1 {
			wait := p.Backoff << uint(attempt)
			if p.OnRetry != nil {
				p.OnRetry(attempt, wait, lastErr)
			}
			sleep(wait)
		}
	}
	return &RemoteCallError{Op: op, Attempts: p.MaxRetries, Err: lastErr}
}
