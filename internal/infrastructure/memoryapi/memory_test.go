package memoryapi

import (
	"context"
	"testing"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

func TestReserveAndRelease_RoundTrip(t *testing.T) {
	s := New("hotel", 10)
	ctx := context.Background()

	before, _ := s.ListHeld(ctx)
	if len(before) != 0 {
		t.Fatalf("fresh service holds %v", before.Sorted())
	}

	if _, err := s.Reserve(ctx, 4); err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	held, _ := s.ListHeld(ctx)
	if !held.Has(4) {
		t.Fatal("slot 4 should be held")
	}
	avail, _ := s.ListAvailable(ctx)
	if avail.Has(4) {
		t.Error("a held slot must not be listed available")
	}

	if _, err := s.Release(ctx, 4); err != nil {
		t.Fatalf("Release: %v", err)
	}
	after, _ := s.ListHeld(ctx)
	if len(after) != 0 {
		t.Errorf("held set should return to pre-reservation state, got %v", after.Sorted())
	}
}

func TestReserve_Errors(t *testing.T) {
	tests := []struct {
		name string
		prep func(*Service)
		id   slot.ID
		kind booking.ErrorKind
	}{
		{"out of range", func(s *Service) {}, 99, booking.KindBadSlot},
		{"zero", func(s *Service) {}, 0, booking.KindBadSlot},
		{"taken by another client", func(s *Service) { s.Take(5) }, 5, booking.KindSlotUnavailable},
		{"already held by us", func(s *Service) { s.Hold(5) }, 5, booking.KindSlotUnavailable},
		{"hold limit", func(s *Service) { s.Hold(1, 2) }, 5, booking.KindReservationLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("band", 10)
			tt.prep(s)
			_, err := s.Reserve(context.Background(), tt.id)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := booking.KindOf(err); got != tt.kind {
				t.Errorf("kind = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestRelease_NotHeldIsNoOp(t *testing.T) {
	s := New("hotel", 10)
	if _, err := s.Release(context.Background(), 3); err != nil {
		t.Errorf("releasing a slot we do not hold should succeed, got %v", err)
	}
}

func TestRelease_BadSlot(t *testing.T) {
	s := New("hotel", 10)
	_, err := s.Release(context.Background(), 99)
	if err == nil {
		t.Fatal("expected error")
	}
	if booking.KindOf(err) != booking.KindBadSlot {
		t.Errorf("kind = %v, want bad slot", booking.KindOf(err))
	}
}
