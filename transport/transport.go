package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cooldogedev/netbridge/relay"
)

// Kind identifies the protocol a transport speaks in direct mode.
type Kind uint8

const (
	KindTCP Kind = iota
	KindKCP
	KindQUIC
	KindSpectral
)

func (k Kind) String() string {
	switch k {
	case KindTCP:
		return "tcp"
	case KindKCP:
		return "kcp"
	case KindQUIC:
		return "quic"
	case KindSpectral:
		return "spectral"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// UnmarshalText ...
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "tcp":
		*k = KindTCP
	case "kcp":
		*k = KindKCP
	case "quic":
		*k = KindQUIC
	case "spectral":
		*k = KindSpectral
	default:
		return fmt.Errorf("unknown transport kind %q", text)
	}
	return nil
}

// Generic is the part of a transport every network manager knows about.
type Generic interface {
	// Kind returns the protocol of the transport.
	Kind() Kind
	// Close stops the transport in whatever role it was started.
	Close() error
}

//go:generate mockgen -destination ../internal/mock/transport.go -package mock github.com/cooldogedev/netbridge/transport Transport

// Transport is a transport that can be configured and started by a network handler.
type Transport interface {
	Generic
	// SetConnectionData switches the transport to direct mode. Servers listen on listen; clients
	// connect to publish.
	SetConnectionData(publish, listen Endpoint)
	// SetRelayServerData switches the transport to relay mode using the relay ticket passed.
	SetRelayServerData(data relay.ServerData)
	// StartServer starts accepting clients.
	StartServer(ctx context.Context) error
	// StartClient connects to a server.
	StartClient(ctx context.Context) error
	// Disconnect closes the client connection.
	Disconnect() error
	// StopListening stops accepting clients and drops every connected one.
	StopListening() error
	// LocalEndpoint returns the endpoint the transport is bound to, or the zero Endpoint if it is not
	// started.
	LocalEndpoint() Endpoint
}

// New creates a transport of the kind passed. A nil opts uses DefaultOpts.
func New(kind Kind, logger *slog.Logger, opts *Opts) (Transport, error) {
	switch kind {
	case KindTCP:
		return NewTCP(logger, opts), nil
	case KindKCP:
		return NewKCP(logger, opts), nil
	case KindQUIC:
		return NewQUIC(logger, opts), nil
	case KindSpectral:
		return NewSpectral(logger, opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}
