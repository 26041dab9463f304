package geo

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// retryOnce runs fn and retries a single time after backoff when it reports a
// retryable failure. Not-found results are final and never retried.
func retryOnce(ctx context.Context, backoff time.Duration, fn func() error) error {
	err := fn()
	if err == nil || !retryable(err) {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
	}
	return fn()
}

func retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests:
		return false
	}
	// Only transport-level failures are worth a second attempt.
	return errors.Is(err, ErrTransport)
}

// newBreaker creates a circuit breaker guarding one upstream service.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}
