// Package pacer spaces outbound requests so the broker never exceeds
// the rate the remote reservation services tolerate. One Pacer is
// shared across both services: the ceiling is per client, not per
// service.
package pacer

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing the reference services expect
// between any two requests from the same client.
const DefaultInterval = time.Second

// Pacer blocks callers until the configured interval has elapsed since
// the previous request was admitted. It sleeps only the remainder of
// the interval, never a full fixed delay, and is safe for concurrent
// use: the limiter serializes access to the shared timestamp, so two
// goroutines can never both be admitted inside one interval.
type Pacer struct {
	lim *rate.Limiter
}

// New returns a Pacer admitting one request per interval. A
// non-positive interval disables pacing entirely (useful in tests and
// against in-memory services).
func New(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the caller may issue the next request, or until
// ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}
