// Package memoryapi is an in-memory booking.Service used for the demo
// mode and for exercising the coordinator without a network. It
// enforces the same rules as the live services: a per-client hold
// limit, conflicts on taken slots, and idempotent release.
package memoryapi

import (
	"context"
	"fmt"
	"sync"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

// DefaultHoldLimit mirrors the limit observed on the reference
// services.
const DefaultHoldLimit = 2

type Service struct {
	name  string
	limit int

	mu    sync.Mutex
	total int
	taken slot.Set // held by some other client
	held  slot.Set // held by us
}

// New returns a service with slots 1..total, all available.
func New(name string, total int) *Service {
	return &Service{
		name:  name,
		limit: DefaultHoldLimit,
		total: total,
		taken: make(slot.Set),
		held:  make(slot.Set),
	}
}

// Take marks slots as held by another client, making them unavailable.
func (s *Service) Take(ids ...slot.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.taken.Add(id)
	}
}

// Hold seeds slots as already held by this client, bypassing the limit.
func (s *Service) Hold(ids ...slot.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.held.Add(id)
	}
}

// SetHoldLimit overrides the per-client hold limit.
func (s *Service) SetHoldLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = n
}

func (s *Service) Name() string { return s.name }

func (s *Service) ListAvailable(ctx context.Context) (slot.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(slot.Set)
	for i := 1; i <= s.total; i++ {
		id := slot.ID(i)
		if !s.taken.Has(id) && !s.held.Has(id) {
			out.Add(id)
		}
	}
	return out, nil
}

func (s *Service) ListHeld(ctx context.Context) (slot.Set, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(slot.Set, len(s.held))
	for id := range s.held {
		out.Add(id)
	}
	return out, nil
}

func (s *Service) Reserve(ctx context.Context, id slot.ID) (booking.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || int(id) > s.total {
		return booking.Receipt{}, s.err(booking.KindBadSlot, "slot does not exist")
	}
	if len(s.held) >= s.limit {
		return booking.Receipt{}, s.err(booking.KindReservationLimit,
			fmt.Sprintf("client already holds %d slots", len(s.held)))
	}
	if s.taken.Has(id) || s.held.Has(id) {
		return booking.Receipt{}, s.err(booking.KindSlotUnavailable, "slot is already taken")
	}
	s.held.Add(id)
	return booking.Receipt{Message: "slot reserved"}, nil
}

func (s *Service) Release(ctx context.Context, id slot.ID) (booking.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || int(id) > s.total {
		return booking.Receipt{}, s.err(booking.KindBadSlot, "slot does not exist")
	}
	if !s.held.Has(id) {
		// Releasing a slot we do not hold is tolerated.
		return booking.Receipt{Message: "slot released"}, nil
	}
	delete(s.held, id)
	return booking.Receipt{Message: "slot released"}, nil
}

func (s *Service) err(kind booking.ErrorKind, msg string) *booking.APIError {
	return &booking.APIError{Kind: kind, Service: s.name, Message: msg}
}
