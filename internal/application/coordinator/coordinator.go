// Package coordinator synthesizes atomicity across two reservation
// services that share no transaction primitive. Multi-step operations
// are sagas: each remote step that succeeds is undone by a
// compensating action when a later step fails. Side A (hotel) is
// always attempted before side B (band); compensation always targets
// the side that succeeded. The fixed ordering is what keeps rollback
// reasoning tractable.
package coordinator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
	"github.com/a38062an/Atomic-Resource-Broker/internal/pacer"
)

const (
	// SearchLimit caps the candidate list used when hunting for the
	// earliest matched pair.
	SearchLimit = 5
	// BrowseLimit caps per-service availability listings.
	BrowseLimit = 20

	defaultMaxAttempts = 3

	// capacityPressure is the hold count at which a side is assumed to
	// be at its server-side limit, triggering a proactive cleanup.
	capacityPressure = 2
)

// Coordinator orchestrates dual-service reservations. Every remote
// call is paced through the shared Pacer and every decision is made
// from fresh snapshots; nothing is cached between operations, because
// the remote services are the sole source of truth and other clients
// mutate them concurrently.
type Coordinator struct {
	Hotel booking.Service
	Band  booking.Service
	Pacer *pacer.Pacer
	Log   *zap.Logger

	// MaxAttempts bounds the ReserveEarliest retry loop. Zero means
	// the default of 3.
	MaxAttempts int

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(hotel, band booking.Service, p *pacer.Pacer, log *zap.Logger) *Coordinator {
	return &Coordinator{Hotel: hotel, Band: band, Pacer: p, Log: log}
}

func (c *Coordinator) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c *Coordinator) attempts() int {
	if c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return defaultMaxAttempts
}

func (c *Coordinator) wait(ctx context.Context) error {
	if c.Pacer == nil {
		return nil
	}
	return c.Pacer.Wait(ctx)
}

func (c *Coordinator) pause(ctx context.Context, d time.Duration) error {
	if c.sleep != nil {
		return c.sleep(ctx, d)
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) svc(side booking.Side) booking.Service {
	if side == booking.SideBand {
		return c.Band
	}
	return c.Hotel
}

// Paced call helpers. The coordinator, not the service, owns request
// pacing: the 1 rps ceiling is per client across both services.

func (c *Coordinator) listHeld(ctx context.Context, s booking.Service) (slot.Set, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return s.ListHeld(ctx)
}

func (c *Coordinator) listAvailable(ctx context.Context, s booking.Service) (slot.Set, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	return s.ListAvailable(ctx)
}

func (c *Coordinator) reserve(ctx context.Context, s booking.Service, id slot.ID) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, err := s.Reserve(ctx, id)
	return err
}

func (c *Coordinator) release(ctx context.Context, s booking.Service, id slot.ID) error {
	if err := c.wait(ctx); err != nil {
		return err
	}
	_, err := s.Release(ctx, id)
	return err
}

// Held returns fresh held-slot snapshots for both services. The two
// snapshots are fetched sequentially and may be stale relative to each
// other; callers must not assume joint consistency.
func (c *Coordinator) Held(ctx context.Context) (slot.Set, slot.Set, error) {
	heldA, err := c.listHeld(ctx, c.Hotel)
	if err != nil {
		return nil, nil, fmt.Errorf("hotel held: %w", err)
	}
	heldB, err := c.listHeld(ctx, c.Band)
	if err != nil {
		return nil, nil, fmt.Errorf("band held: %w", err)
	}
	return heldA, heldB, nil
}

// Candidates returns up to limit slots, earliest first, that could
// become a matched pair: available on both services, or already held
// on one and available on the other.
func (c *Coordinator) Candidates(ctx context.Context, limit int) ([]slot.ID, error) {
	availA, err := c.listAvailable(ctx, c.Hotel)
	if err != nil {
		return nil, fmt.Errorf("hotel available: %w", err)
	}
	availB, err := c.listAvailable(ctx, c.Band)
	if err != nil {
		return nil, fmt.Errorf("band available: %w", err)
	}
	heldA, heldB, err := c.Held(ctx)
	if err != nil {
		return nil, err
	}
	return slot.Truncate(slot.Candidates(availA, availB, heldA, heldB), limit), nil
}

// BrowseAvailable returns up to limit available slots per service,
// earliest first.
func (c *Coordinator) BrowseAvailable(ctx context.Context, limit int) ([]slot.ID, []slot.ID, error) {
	availA, err := c.listAvailable(ctx, c.Hotel)
	if err != nil {
		return nil, nil, fmt.Errorf("hotel available: %w", err)
	}
	availB, err := c.listAvailable(ctx, c.Band)
	if err != nil {
		return nil, nil, fmt.Errorf("band available: %w", err)
	}
	return slot.Truncate(availA.Sorted(), limit), slot.Truncate(availB.Sorted(), limit), nil
}

// Reserve attempts to reserve id on the requested side, or atomically
// on both. A side that already holds id is satisfied without a remote
// call. For SideBoth, hotel is reserved first; if the band reserve
// then fails, the fresh hotel reservation is released again
// (best-effort compensation). The returned error covers only the
// machinery (context cancellation, unreadable snapshots); per-side
// outcomes live in the PairResult.
func (c *Coordinator) Reserve(ctx context.Context, id slot.ID, side booking.Side) (PairResult, error) {
	res := PairResult{Slot: id}
	if !side.Valid() {
		return res, fmt.Errorf("invalid side %q", side)
	}

	wantHotel := side == booking.SideHotel || side == booking.SideBoth
	wantBand := side == booking.SideBand || side == booking.SideBoth
	res.Hotel.Requested = wantHotel
	res.Band.Requested = wantBand

	// Reserving a slot we already hold is a local no-op success; the
	// remote would only answer with a conflict.
	if wantHotel {
		held, err := c.listHeld(ctx, c.Hotel)
		if err != nil {
			return res, fmt.Errorf("hotel held: %w", err)
		}
		if held.Has(id) {
			res.Hotel.AlreadyHeld = true
			res.Hotel.Done = true
			wantHotel = false
		}
	}
	if wantBand {
		held, err := c.listHeld(ctx, c.Band)
		if err != nil {
			return res, fmt.Errorf("band held: %w", err)
		}
		if held.Has(id) {
			res.Band.AlreadyHeld = true
			res.Band.Done = true
			wantBand = false
		}
	}

	if wantHotel {
		if err := c.reserve(ctx, c.Hotel, id); err != nil {
			// Nothing acquired yet; abort without touching band.
			res.Hotel.Err = err
			c.logger().Info("hotel reserve failed",
				zap.Int("slot", int(id)), zap.Error(err))
			return res, ctx.Err()
		}
		res.Hotel.Done = true
	}

	if wantBand {
		if err := c.reserve(ctx, c.Band, id); err != nil {
			res.Band.Err = err
			c.logger().Info("band reserve failed",
				zap.Int("slot", int(id)), zap.Error(err))
			if wantHotel && res.Hotel.Done {
				c.compensateRelease(ctx, &res, booking.SideHotel, id)
			}
			return res, ctx.Err()
		}
		res.Band.Done = true
	}

	return res, nil
}

// Cancel releases id on the requested side, or atomically on both.
// For SideBoth, hotel is released first; if the band release then
// fails, the hotel reservation is re-reserved as compensation. That
// compensation can genuinely fail (another client may have taken the
// slot in the interim) and is then flagged as inconsistent rather than
// retried forever.
func (c *Coordinator) Cancel(ctx context.Context, id slot.ID, side booking.Side) (PairResult, error) {
	res := PairResult{Slot: id}
	if !side.Valid() {
		return res, fmt.Errorf("invalid side %q", side)
	}

	wantHotel := side == booking.SideHotel || side == booking.SideBoth
	wantBand := side == booking.SideBand || side == booking.SideBoth
	res.Hotel.Requested = wantHotel
	res.Band.Requested = wantBand

	if wantHotel {
		if err := c.release(ctx, c.Hotel, id); err != nil {
			res.Hotel.Err = err
			c.logger().Info("hotel release failed",
				zap.Int("slot", int(id)), zap.Error(err))
			return res, ctx.Err()
		}
		res.Hotel.Done = true
	}

	if wantBand {
		if err := c.release(ctx, c.Band, id); err != nil {
			res.Band.Err = err
			c.logger().Info("band release failed",
				zap.Int("slot", int(id)), zap.Error(err))
			if wantHotel && res.Hotel.Done {
				c.compensateReserve(ctx, &res, booking.SideHotel, id)
			}
			return res, ctx.Err()
		}
		res.Band.Done = true
	}

	return res, nil
}

// compensateRelease undoes a reservation made earlier in a failed
// saga. Failure leaves a dangling hold; the result is flagged so the
// caller cannot mistake it for a clean failure.
func (c *Coordinator) compensateRelease(ctx context.Context, res *PairResult, side booking.Side, id slot.ID) {
	c.logger().Info("rolling back reservation",
		zap.String("side", string(side)), zap.Int("slot", int(id)))
	if err := c.release(ctx, c.svc(side), id); err != nil {
		res.Inconsistent = true
		c.logger().Warn("rollback failed, state may be inconsistent",
			zap.String("side", string(side)),
			zap.Int("slot", int(id)),
			zap.Error(err))
	}
}

// compensateReserve restores a hold released earlier in a failed dual
// cancel.
func (c *Coordinator) compensateReserve(ctx context.Context, res *PairResult, side booking.Side, id slot.ID) {
	c.logger().Info("restoring released slot",
		zap.String("side", string(side)), zap.Int("slot", int(id)))
	if err := c.reserve(ctx, c.svc(side), id); err != nil {
		res.Inconsistent = true
		c.logger().Warn("restore failed, state may be inconsistent",
			zap.String("side", string(side)),
			zap.Int("slot", int(id)),
			zap.Error(err))
	}
}
