package relay

import (
	"errors"

	"github.com/cooldogedev/netbridge/relay/packet"
)

var (
	ErrUnknownRegion      = errors.New("relay: unknown region")
	ErrNoRegions          = errors.New("relay: no regions available")
	ErrTooManyAllocations = errors.New("relay: too many allocations")
	ErrUnknownAllocation  = errors.New("relay: unknown allocation")
	ErrUnauthorized       = errors.New("relay: unauthorized")
	ErrHostUnavailable    = errors.New("relay: host unavailable")
	ErrHandshakeFailed    = errors.New("relay: handshake failed")
	ErrNotListening       = errors.New("relay: server is not listening")
)

func responseError(response uint8) error {
	switch response {
	case packet.ResponseSuccess:
		return nil
	case packet.ResponseUnauthorized:
		return ErrUnauthorized
	case packet.ResponseUnknownAllocation:
		return ErrUnknownAllocation
	case packet.ResponseHostUnavailable:
		return ErrHostUnavailable
	default:
		return ErrHandshakeFailed
	}
}
