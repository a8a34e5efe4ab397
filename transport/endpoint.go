package transport

import (
	"fmt"
	"net"
	"strconv"
)

// Endpoint is an address and port pair.
type Endpoint struct {
	Address string
	Port    uint16
}

// ParseEndpoint parses a host:port string.
func ParseEndpoint(s string) (Endpoint, error) {
	host, port, err := net.SplitHostPort(s)
	if err != nil {
		return Endpoint{}, err
	}

	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid port %q: %w", port, err)
	}
	return Endpoint{Address: host, Port: uint16(p)}, nil
}

// EndpointFromAddr converts a net.Addr. Unknown address types are parsed from their string form and
// yield the zero Endpoint when that fails.
func EndpointFromAddr(addr net.Addr) Endpoint {
	switch addr := addr.(type) {
	case nil:
		return Endpoint{}
	case *net.TCPAddr:
		return Endpoint{Address: addr.IP.String(), Port: uint16(addr.Port)}
	case *net.UDPAddr:
		return Endpoint{Address: addr.IP.String(), Port: uint16(addr.Port)}
	default:
		e, _ := ParseEndpoint(addr.String())
		return e
	}
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(int(e.Port)))
}

// IsZero ...
func (e Endpoint) IsZero() bool {
	return e.Address == "" && e.Port == 0
}
