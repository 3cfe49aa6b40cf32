package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"botbi/pkg/errors"
)

// Limiter throttles calls to a third-party API
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter creates a new rate limiter
// requestsPerMinute: maximum number of requests allowed per minute.
// Zero or negative disables limiting.
func NewLimiter(name string, requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1), name: name}
	}

	rps := float64(requestsPerMinute) / 60.0

	// Burst of a sixth of the per-minute limit covers one snapshot's symbol fan-out
	burst := requestsPerMinute / 6
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    name,
	}
}

// Name returns the limiter name used in errors and metrics
func (l *Limiter) Name() string {
	return l.name
}

// Wait blocks until the rate limiter allows the request or ctx is done.
// A wait that would overrun the ctx deadline fails immediately.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(errors.ErrRateLimitExceeded, "rate limiter %s: %v", l.name, err)
	}
	return nil
}

// Allow checks if a request is allowed without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
