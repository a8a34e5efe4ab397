package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/cooldogedev/netbridge/relay"
	"github.com/cooldogedev/netbridge/transport"
)

// NetworkRole is the part a peer plays in a session's network.
type NetworkRole uint8

const (
	// RoleServer is a dedicated server without a local player.
	RoleServer NetworkRole = iota
	// RoleHost is a server that is also a player of the session.
	RoleHost
	// RoleClient connects to a server or host.
	RoleClient
)

func (r NetworkRole) String() string {
	switch r {
	case RoleServer:
		return "Server"
	case RoleHost:
		return "Host"
	case RoleClient:
		return "Client"
	default:
		return fmt.Sprintf("NetworkRole(%d)", uint8(r))
	}
}

// NetworkType is how peers of a session reach each other.
type NetworkType uint8

const (
	// NetworkTypeDirect connects peers through an explicit address and port.
	NetworkTypeDirect NetworkType = iota
	// NetworkTypeRelay connects peers through a relay server.
	NetworkTypeRelay
	// NetworkTypeDistributedAuthority has no central server. Network handlers may not support it.
	NetworkTypeDistributedAuthority
)

func (t NetworkType) String() string {
	switch t {
	case NetworkTypeDirect:
		return "Direct"
	case NetworkTypeRelay:
		return "Relay"
	case NetworkTypeDistributedAuthority:
		return "DistributedAuthority"
	default:
		return fmt.Sprintf("NetworkType(%d)", uint8(t))
	}
}

// UnmarshalText ...
func (t *NetworkType) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.ReplaceAll(string(text), "_", "")) {
	case "direct":
		*t = NetworkTypeDirect
	case "relay":
		*t = NetworkTypeRelay
	case "distributedauthority":
		*t = NetworkTypeDistributedAuthority
	default:
		return fmt.Errorf("unknown network type %q", text)
	}
	return nil
}

// NetworkConfiguration is what a NetworkHandler needs to start the network of a session. It is owned
// by the session; handlers may only change it through UpdatePublishPort.
type NetworkConfiguration struct {
	Role NetworkRole
	Type NetworkType

	// DirectNetworkPublishAddress is the address clients connect to.
	DirectNetworkPublishAddress transport.Endpoint
	// DirectNetworkListenAddress is the address servers bind. Port 0 lets the system choose.
	DirectNetworkListenAddress transport.Endpoint

	// RelayClientData is the relay ticket used by clients.
	RelayClientData relay.ServerData
	// RelayServerData is the relay ticket used by servers and hosts.
	RelayServerData relay.ServerData
}

// UpdatePublishPort records the port a server actually bound, so that clients joining later connect
// to it.
func (c *NetworkConfiguration) UpdatePublishPort(port uint16) {
	c.DirectNetworkPublishAddress.Port = port
}

// NetworkHandler starts and stops the network of a session.
type NetworkHandler interface {
	// Start starts the network described by cfg. It may update cfg's publish port.
	Start(ctx context.Context, cfg *NetworkConfiguration) error
	// Stop stops whatever the last successful Start started.
	Stop(ctx context.Context) error
}
