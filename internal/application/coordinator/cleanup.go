package coordinator

import (
	"context"

	"go.uber.org/zap"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

// CancelUnmatched enforces the steady state: at most one matched pair,
// earliest preferred, and no unmatched singles. Unmatched holds only
// burn the per-service hold limit without contributing to the goal, so
// every one of them is released. If more than one matched pair is held
// (possible transiently, mid-migration), only the earliest is kept and
// the rest are dual-cancelled. Per-slot failures are collected in the
// report, never allowed to abort the sweep.
func (c *Coordinator) CancelUnmatched(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	heldA, heldB, err := c.Held(ctx)
	if err != nil {
		return report, err
	}

	onlyA, onlyB := slot.Unmatched(heldA, heldB)
	c.releaseSet(ctx, booking.SideHotel, onlyA, &report)
	c.releaseSet(ctx, booking.SideBand, onlyB, &report)

	matched := slot.Matched(heldA, heldB)
	if len(matched) > 1 {
		keep, _ := matched.Min()
		for _, id := range matched.Sorted() {
			if id == keep {
				continue
			}
			c.logger().Info("releasing surplus matched pair",
				zap.Int("slot", int(id)), zap.Int("kept", int(keep)))
			pair, err := c.Cancel(ctx, id, booking.SideBoth)
			if err != nil {
				return report, err
			}
			if pair.Inconsistent {
				report.Inconsistent = true
			}
			if side, ferr := pair.FailedSide(); ferr != nil {
				report.Failed = append(report.Failed, SweepAction{Side: side, Slot: id, Err: ferr})
				continue
			}
			report.Released = append(report.Released, SweepAction{Side: booking.SideBoth, Slot: id})
		}
	}

	return report, nil
}

// CancelAll unconditionally releases every held slot on both services.
// Failures are summarized, not raised; one stubborn slot must not
// block the rest of the sweep.
func (c *Coordinator) CancelAll(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	heldA, heldB, err := c.Held(ctx)
	if err != nil {
		return report, err
	}
	c.releaseSet(ctx, booking.SideHotel, heldA, &report)
	c.releaseSet(ctx, booking.SideBand, heldB, &report)
	return report, nil
}

func (c *Coordinator) releaseSet(ctx context.Context, side booking.Side, ids slot.Set, report *SweepReport) {
	svc := c.svc(side)
	for _, id := range ids.Sorted() {
		if err := c.release(ctx, svc, id); err != nil {
			c.logger().Warn("release failed",
				zap.String("side", string(side)),
				zap.Int("slot", int(id)),
				zap.Error(err))
			report.Failed = append(report.Failed, SweepAction{Side: side, Slot: id, Err: err})
			continue
		}
		c.logger().Info("released slot",
			zap.String("side", string(side)), zap.Int("slot", int(id)))
		report.Released = append(report.Released, SweepAction{Side: side, Slot: id})
	}
}
