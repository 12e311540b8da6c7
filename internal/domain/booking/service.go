package booking

import (
	"context"

	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

// Side names one of the two coordinated resources. Hotel is always
// side A: it is attempted first in every dual operation, and
// compensation always targets whichever side succeeded.
type Side string

const (
	SideHotel Side = "hotel"
	SideBand  Side = "band"
	// SideBoth asks an operation to act on both services.
	SideBoth Side = "both"
)

func (s Side) Valid() bool {
	return s == SideHotel || s == SideBand || s == SideBoth
}

// Receipt is the acknowledgement a service returns for a reserve or
// release call.
type Receipt struct {
	Message string
}

// Service is the capability set a remote reservation service exposes.
// Every method can fail; a caller must never assume a call had its
// requested effect without a successful return. The per-client hold
// limit (2 on the reference services) is enforced server side and
// surfaces as ErrReservationLimit.
type Service interface {
	Name() string
	ListAvailable(ctx context.Context) (slot.Set, error)
	ListHeld(ctx context.Context) (slot.Set, error)
	Reserve(ctx context.Context, id slot.ID) (Receipt, error)
	// Release of a slot the client does not hold is a no-op success.
	Release(ctx context.Context, id slot.ID) (Receipt, error)
}
