package booking

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a reservation service can report.
type ErrorKind int

const (
	// KindBadRequest: the request itself was malformed.
	KindBadRequest ErrorKind = iota
	// KindInvalidToken: the bearer credential was rejected.
	KindInvalidToken
	// KindBadSlot: the slot id is out of the service's range.
	KindBadSlot
	// KindNotProcessed: the service acknowledged but did not act.
	KindNotProcessed
	// KindSlotUnavailable: another client holds the slot.
	KindSlotUnavailable
	// KindReservationLimit: the client already holds the service's
	// maximum number of slots.
	KindReservationLimit
	// KindUnexpectedStatus: a response the transport could not
	// classify, after its own retries were exhausted.
	KindUnexpectedStatus
	// KindTransport: the request never produced a usable response.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindInvalidToken:
		return "invalid token"
	case KindBadSlot:
		return "bad slot"
	case KindNotProcessed:
		return "not processed"
	case KindSlotUnavailable:
		return "slot unavailable"
	case KindReservationLimit:
		return "reservation limit exceeded"
	case KindUnexpectedStatus:
		return "unexpected status"
	default:
		return "transport failure"
	}
}

// APIError is a typed failure from a reservation service.
type APIError struct {
	Kind    ErrorKind
	Service string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Service, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Service, e.Kind, e.Message)
}

// KindOf extracts the error kind from err, or KindTransport if err is
// not an APIError.
func KindOf(err error) ErrorKind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindTransport
}

func IsSlotUnavailable(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindSlotUnavailable
}

func IsReservationLimit(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Kind == KindReservationLimit
}
