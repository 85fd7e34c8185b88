// Package ratelimit throttles outbound calls to external metadata services.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between calls to one external service.
// Each service gets its own instance; callers share it and block in Wait until
// their turn. It never drops or reorders calls.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing callsPerSecond sustained calls with no
// burst. Non-positive rates fall back to one call per second.
func New(callsPerSecond float64) *Limiter {
	if callsPerSecond <= 0 {
		callsPerSecond = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(callsPerSecond), 1)}
}

// Wait blocks until the next call is permitted or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
