package coordinator

import (
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

// SideResult reports what happened to one side of a dual operation.
type SideResult struct {
	// Requested is false when the operation did not involve this side.
	Requested bool
	// AlreadyHeld marks a reserve that was satisfied without a remote
	// call because the client already held the slot there.
	AlreadyHeld bool
	// Done reports that the side ended in the requested state.
	Done bool
	Err  error
}

func (r SideResult) ok() bool { return !r.Requested || r.Done }

// PairResult is the outcome of a dual reserve or cancel.
type PairResult struct {
	Slot  slot.ID
	Hotel SideResult
	Band  SideResult
	// Inconsistent is set when a compensation action itself failed,
	// leaving the two services possibly holding mismatched state for
	// Slot. It is a distinct signal, not an ordinary failure: the
	// operation result is already a failure, this flags that the
	// rollback did not restore the world either.
	Inconsistent bool
}

// OK reports whether every requested side ended in the requested state.
func (r PairResult) OK() bool { return r.Hotel.ok() && r.Band.ok() }

// FailedSide names the first side that failed, if any.
func (r PairResult) FailedSide() (booking.Side, error) {
	if r.Hotel.Requested && !r.Hotel.Done {
		return booking.SideHotel, r.Hotel.Err
	}
	if r.Band.Requested && !r.Band.Done {
		return booking.SideBand, r.Band.Err
	}
	return "", nil
}

// SnipeStatus is the terminal state of a find-and-reserve-earliest run.
type SnipeStatus int

const (
	// SnipeReserved: a new matched pair was secured.
	SnipeReserved SnipeStatus = iota
	// SnipeAlreadyOptimal: the held pair is at least as early as the
	// best candidate; nothing was changed.
	SnipeAlreadyOptimal
	// SnipeNoCandidates: no slot is currently reachable on both
	// services. A legitimate terminal outcome, not an error.
	SnipeNoCandidates
	// SnipeExhausted: the attempt budget ran out chasing a moving
	// target.
	SnipeExhausted
)

func (s SnipeStatus) String() string {
	switch s {
	case SnipeReserved:
		return "reserved"
	case SnipeAlreadyOptimal:
		return "already optimal"
	case SnipeNoCandidates:
		return "no candidates"
	default:
		return "exhausted"
	}
}

// SnipeResult is the outcome of ReserveEarliest.
type SnipeResult struct {
	Status   SnipeStatus
	Slot     slot.ID // valid for SnipeReserved and SnipeAlreadyOptimal
	Attempts int
	// Inconsistent carries over any compensation failure seen along
	// the way, even when a later attempt succeeded.
	Inconsistent bool
}

// Success reports whether the caller ended the run holding the
// earliest reachable matched pair.
func (r SnipeResult) Success() bool {
	return r.Status == SnipeReserved || r.Status == SnipeAlreadyOptimal
}

// SweepAction records one release (or dual cancel) inside a cleanup
// sweep.
type SweepAction struct {
	Side booking.Side
	Slot slot.ID
	Err  error
}

// SweepReport summarizes a cleanup sweep. Per-slot failures are
// collected here rather than aborting the sweep.
type SweepReport struct {
	Released     []SweepAction
	Failed       []SweepAction
	Inconsistent bool
}

func (r SweepReport) OK() bool { return len(r.Failed) == 0 }
