package coordinator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

// backoff is the pause before retry attempt n+1. Pure in n.
func backoff(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// ReserveEarliest works toward the goal state: a single matched pair
// at the earliest slot reachable on both services. It is a bounded
// retry loop because the candidate view can change between computing
// it and acting on it; the attempt budget stops the coordinator from
// chasing a moving target forever.
//
// Each attempt: snapshot holds, free capacity if a side is at its
// limit, pick the earliest candidate, short-circuit when the held pair
// is already at least as early, migrate off a later pair, reserve the
// missing sides, tidy up on success, roll back what this attempt newly
// acquired on failure. A non-nil error means the machinery stopped
// (context cancelled); every domain outcome, including exhaustion, is
// in the SnipeResult.
func (c *Coordinator) ReserveEarliest(ctx context.Context) (SnipeResult, error) {
	res := SnipeResult{Status: SnipeExhausted}
	max := c.attempts()

	for attempt := 1; attempt <= max; attempt++ {
		res.Attempts = attempt
		out, retry, err := c.attemptEarliest(ctx, &res)
		if err != nil {
			return res, err
		}
		if !retry {
			return out, nil
		}
		c.logger().Info("retrying earliest-slot reservation",
			zap.Int("attempt", attempt), zap.Int("max", max))
		if attempt < max {
			if err := c.pause(ctx, backoff(attempt)); err != nil {
				return res, err
			}
		}
	}
	res.Status = SnipeExhausted
	return res, nil
}

// attemptEarliest runs one attempt. retry=true means the attempt
// failed in a way worth another try.
func (c *Coordinator) attemptEarliest(ctx context.Context, res *SnipeResult) (SnipeResult, bool, error) {
	heldA, heldB, err := c.Held(ctx)
	if err != nil {
		c.logger().Info("held snapshot failed", zap.Error(err))
		return *res, true, ctx.Err()
	}

	// A side at its hold limit cannot accept a new reservation, so
	// unmatched holds are released up front to free capacity.
	if len(heldA) >= capacityPressure || len(heldB) >= capacityPressure {
		c.logger().Info("hold limit pressure, releasing unmatched slots first",
			zap.Int("hotel_held", len(heldA)), zap.Int("band_held", len(heldB)))
		report, err := c.CancelUnmatched(ctx)
		if err != nil {
			return *res, true, ctx.Err()
		}
		if report.Inconsistent {
			res.Inconsistent = true
		}
		heldA, heldB, err = c.Held(ctx)
		if err != nil {
			return *res, true, ctx.Err()
		}
	}

	candidates, err := c.Candidates(ctx, SearchLimit)
	if err != nil {
		c.logger().Info("candidate lookup failed", zap.Error(err))
		return *res, true, ctx.Err()
	}
	if len(candidates) == 0 {
		res.Status = SnipeNoCandidates
		return *res, false, nil
	}
	target := candidates[0]

	matched := slot.Matched(heldA, heldB)
	if best, ok := matched.Min(); ok {
		if best <= target {
			// Already holding a pair at least as early as anything
			// reachable; no further calls needed.
			res.Status = SnipeAlreadyOptimal
			res.Slot = best
			return *res, false, nil
		}
		// A strictly earlier slot is reachable. Release the held pair
		// first: at the hold limit, capacity must exist before the
		// better pair can be acquired.
		c.logger().Info("migrating to earlier slot",
			zap.Int("held", int(best)), zap.Int("target", int(target)))
		pair, err := c.Cancel(ctx, best, booking.SideBoth)
		if err != nil {
			return *res, true, err
		}
		if pair.Inconsistent {
			res.Inconsistent = true
		}
		if !pair.OK() {
			return *res, true, nil
		}
		delete(heldA, best)
		delete(heldB, best)
	}

	needHotel := !heldA.Has(target)
	needBand := !heldB.Has(target)
	var newHotel bool

	if needHotel {
		if err := c.reserve(ctx, c.Hotel, target); err != nil {
			c.logger().Info("hotel reserve failed",
				zap.Int("slot", int(target)), zap.Error(err))
			return *res, true, ctx.Err()
		}
		newHotel = true
	}
	if needBand {
		if err := c.reserve(ctx, c.Band, target); err != nil {
			c.logger().Info("band reserve failed",
				zap.Int("slot", int(target)), zap.Error(err))
			if newHotel {
				// Roll back only what this attempt acquired.
				if rerr := c.release(ctx, c.Hotel, target); rerr != nil {
					res.Inconsistent = true
					c.logger().Warn("rollback failed, state may be inconsistent",
						zap.String("side", string(booking.SideHotel)),
						zap.Int("slot", int(target)),
						zap.Error(rerr))
				}
			}
			return *res, true, ctx.Err()
		}
	}

	c.logger().Info("matched pair secured", zap.Int("slot", int(target)))

	// Post-success tidy-up keeps the steady state: one matched pair,
	// no unmatched singles.
	report, err := c.CancelUnmatched(ctx)
	if err == nil && report.Inconsistent {
		res.Inconsistent = true
	}

	res.Status = SnipeReserved
	res.Slot = target
	return *res, false, nil
}
