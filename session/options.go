package session

import (
	"fmt"
	"net/netip"

	"github.com/cooldogedev/netbridge/transport"
)

const (
	DefaultListenIP  = "127.0.0.1"
	DefaultPublishIP = "127.0.0.1"
)

// HandlerOptions is implemented by every options type a network handler can be attached to.
type HandlerOptions interface {
	SetNetworkHandler(handler NetworkHandler)
}

// DirectNetworkOptions configures a session reached by address and port.
type DirectNetworkOptions struct {
	// ListenAddress is bound by the server. Port 0 lets the system choose.
	ListenAddress transport.Endpoint
	// PublishAddress is handed to clients.
	PublishAddress transport.Endpoint
}

// NewDirectNetworkOptions validates its arguments and uses port for both addresses.
func NewDirectNetworkOptions(listenIP, publishIP string, port int) (DirectNetworkOptions, error) {
	if port < 0 || port > 65535 {
		return DirectNetworkOptions{}, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}

	o := DirectNetworkOptions{
		ListenAddress:  transport.Endpoint{Address: listenIP, Port: uint16(port)},
		PublishAddress: transport.Endpoint{Address: publishIP, Port: uint16(port)},
	}
	return o, o.Validate()
}

// Validate checks both addresses are IP addresses.
func (o DirectNetworkOptions) Validate() error {
	if _, err := netip.ParseAddr(o.ListenAddress.Address); err != nil {
		return fmt.Errorf("%w: listen address %q", ErrInvalidAddress, o.ListenAddress.Address)
	}

	if _, err := netip.ParseAddr(o.PublishAddress.Address); err != nil {
		return fmt.Errorf("%w: publish address %q", ErrInvalidAddress, o.PublishAddress.Address)
	}
	return nil
}

// RelayProtocol is the protocol spoken with the relay server.
type RelayProtocol uint8

const (
	RelayProtocolDefault RelayProtocol = iota
	RelayProtocolQUIC
)

// RelayNetworkOptions configures a session reached through a relay.
type RelayNetworkOptions struct {
	Protocol RelayProtocol
	// Region forces a relay region. Empty selects the relay service's default region.
	Region string
}

// Validate ...
func (o RelayNetworkOptions) Validate() error {
	switch o.Protocol {
	case RelayProtocolDefault, RelayProtocolQUIC:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownRelayProtocol, o.Protocol)
	}
}

type network struct {
	typ    NetworkType
	direct DirectNetworkOptions
	relay  RelayNetworkOptions
}

// Options configures a session being created.
type Options struct {
	Name       string
	MaxPlayers int
	IsPrivate  bool
	Properties map[string]string

	network *network
	handler NetworkHandler
}

// NewOptions ...
func NewOptions(name string, maxPlayers int) *Options {
	return &Options{Name: name, MaxPlayers: maxPlayers, Properties: make(map[string]string)}
}

// WithDirectNetwork configures direct networking. See NewDirectNetworkOptions.
func (o *Options) WithDirectNetwork(listenIP, publishIP string, port int) (*Options, error) {
	direct, err := NewDirectNetworkOptions(listenIP, publishIP, port)
	if err != nil {
		return o, err
	}
	return o.WithDirectNetworkOptions(direct)
}

// WithDirectNetworkOptions ...
func (o *Options) WithDirectNetworkOptions(direct DirectNetworkOptions) (*Options, error) {
	if err := direct.Validate(); err != nil {
		return o, err
	}
	o.network = &network{typ: NetworkTypeDirect, direct: direct}
	return o, nil
}

// WithRelayNetwork configures relay networking in region.
func (o *Options) WithRelayNetwork(region string) (*Options, error) {
	return o.WithRelayNetworkOptions(RelayNetworkOptions{Region: region})
}

// WithRelayNetworkOptions ...
func (o *Options) WithRelayNetworkOptions(relay RelayNetworkOptions) (*Options, error) {
	if err := relay.Validate(); err != nil {
		return o, err
	}
	o.network = &network{typ: NetworkTypeRelay, relay: relay}
	return o, nil
}

// WithNetworkType sets a network type that needs no further options.
func (o *Options) WithNetworkType(typ NetworkType) *Options {
	o.network = &network{typ: typ}
	return o
}

// WithNetworkHandler ...
func (o *Options) WithNetworkHandler(handler NetworkHandler) *Options {
	o.handler = handler
	return o
}

// SetNetworkHandler ...
func (o *Options) SetNetworkHandler(handler NetworkHandler) {
	o.handler = handler
}

// NetworkHandler ...
func (o *Options) NetworkHandler() NetworkHandler {
	return o.handler
}

// NetworkType returns the configured network type, and false if no network is configured.
func (o *Options) NetworkType() (NetworkType, bool) {
	if o.network == nil {
		return 0, false
	}
	return o.network.typ, true
}

// JoinOptions configures joining an existing session. The network type comes from the session.
type JoinOptions struct {
	handler NetworkHandler
}

// WithNetworkHandler ...
func (o *JoinOptions) WithNetworkHandler(handler NetworkHandler) *JoinOptions {
	o.handler = handler
	return o
}

// SetNetworkHandler ...
func (o *JoinOptions) SetNetworkHandler(handler NetworkHandler) {
	o.handler = handler
}

// NetworkHandler ...
func (o *JoinOptions) NetworkHandler() NetworkHandler {
	return o.handler
}
