package netbridge

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cooldogedev/netbridge/session"
	"github.com/cooldogedev/netbridge/transport"
	"gopkg.in/yaml.v3"
)

// Opts is the network configuration of a node, as read from a YAML file.
type Opts struct {
	// Network is how the sessions of the node are reached: direct or relay.
	Network session.NetworkType `yaml:"network"`
	// ListenIP is the address bound in direct mode.
	ListenIP string `yaml:"listen_ip"`
	// PublishIP is the address clients connect to in direct mode.
	PublishIP string `yaml:"publish_ip"`
	// Port is the port used in direct mode. 0 lets the system choose.
	Port int `yaml:"port"`
	// Region is the relay region. It defaults to the relay service's default region.
	Region string `yaml:"region"`
	// Transport configures the transport created by NewTransport.
	Transport *transport.Opts `yaml:"transport"`
}

func DefaultOpts() *Opts {
	return &Opts{
		Network:   session.NetworkTypeDirect,
		ListenIP:  session.DefaultListenIP,
		PublishIP: session.DefaultPublishIP,
		Transport: transport.DefaultOpts(),
	}
}

// LoadOpts reads Opts from the YAML file at path. Fields missing from the file keep their defaults.
func LoadOpts(path string) (*Opts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	opts := DefaultOpts()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("netbridge: decode %s: %w", path, err)
	}

	if opts.Transport == nil {
		opts.Transport = transport.DefaultOpts()
	}
	return opts, nil
}

// NewTransport creates the transport described by o.Transport.
func (o *Opts) NewTransport(logger *slog.Logger) (transport.Transport, error) {
	return transport.New(o.Transport.Network, logger, o.Transport)
}

// Apply configures the network of options as described by o and attaches handler. See WithHandler.
func (o *Opts) Apply(options *session.Options, handler *NetworkHandler) (*session.Options, error) {
	switch o.Network {
	case session.NetworkTypeDirect:
		return WithDirect(options, o.ListenIP, o.PublishIP, o.Port, handler)
	case session.NetworkTypeRelay:
		return WithRelay(options, o.Region, handler)
	default:
		return options, fmt.Errorf("%w: %s", ErrUnsupportedNetworkType, o.Network)
	}
}
