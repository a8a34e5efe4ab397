// Package netbridge implements a session.NetworkHandler that starts and stops a transport from the
// network configuration of a session.
package netbridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cooldogedev/netbridge/session"
	"github.com/cooldogedev/netbridge/transport"
)

// NetworkHandler drives a transport.Transport on behalf of a session. Start and Stop must not be
// called concurrently.
type NetworkHandler struct {
	transport transport.Transport
	providers []Provider
	cfg       *session.NetworkConfiguration

	logger *slog.Logger
}

var _ session.NetworkHandler = (*NetworkHandler)(nil)

// NewNetworkHandler creates a NetworkHandler driving t. A nil t is resolved on first use through
// DefaultProviders.
func NewNetworkHandler(logger *slog.Logger, t transport.Transport) *NetworkHandler {
	return NewNetworkHandlerWithProviders(logger, t, DefaultProviders()...)
}

// NewNetworkHandlerWithProviders creates a NetworkHandler that resolves a nil t through providers, in
// order.
func NewNetworkHandlerWithProviders(logger *slog.Logger, t transport.Transport, providers ...Provider) *NetworkHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NetworkHandler{
		transport: t,
		providers: providers,
		logger:    logger,
	}
}

// Transport returns the transport driven by the handler, resolving it on the first call. The result
// of a successful resolution is kept for later calls.
func (h *NetworkHandler) Transport() (transport.Transport, error) {
	if h.transport != nil {
		return h.transport, nil
	}

	t, err := resolve(h.providers)
	if err != nil {
		return nil, err
	}
	h.transport = t
	h.logger.Debug("resolved transport", "kind", t.Kind())
	return t, nil
}

// Start configures the transport from cfg and starts it in cfg's role. Servers and hosts asking for
// port 0 in direct mode have cfg's publish port updated to the port actually bound.
func (h *NetworkHandler) Start(ctx context.Context, cfg *session.NetworkConfiguration) error {
	t, err := h.Transport()
	if err != nil {
		h.logger.Error("failed to resolve transport", "err", err)
		return err
	}

	if err := setupNetwork(t, cfg); err != nil {
		return err
	}

	if err := startRole(ctx, t, cfg.Role); err != nil {
		h.logger.Error("failed to start network", "role", cfg.Role, "type", cfg.Type, "err", err)
		return err
	}

	if cfg.Type == session.NetworkTypeDirect && cfg.Role != session.RoleClient && cfg.DirectNetworkListenAddress.Port == 0 {
		cfg.UpdatePublishPort(t.LocalEndpoint().Port)
	}

	h.cfg = cfg
	h.logger.Info("started network", "role", cfg.Role, "type", cfg.Type)
	return nil
}

// Stop disconnects a client or stops a server from listening. It does nothing if the handler was not
// started.
func (h *NetworkHandler) Stop(context.Context) error {
	if h.transport == nil || h.cfg == nil {
		return nil
	}

	role := h.cfg.Role
	h.cfg = nil

	var err error
	if role == session.RoleClient {
		err = h.transport.Disconnect()
	} else {
		err = h.transport.StopListening()
	}

	if err != nil {
		h.logger.Error("failed to stop network", "role", role, "err", err)
		return err
	}
	h.logger.Info("stopped network", "role", role)
	return nil
}

func setupNetwork(t transport.Transport, cfg *session.NetworkConfiguration) error {
	switch cfg.Type {
	case session.NetworkTypeDirect:
		t.SetConnectionData(cfg.DirectNetworkPublishAddress, cfg.DirectNetworkListenAddress)
	case session.NetworkTypeRelay:
		if cfg.Role == session.RoleClient {
			t.SetRelayServerData(cfg.RelayClientData)
		} else {
			t.SetRelayServerData(cfg.RelayServerData)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedNetworkType, cfg.Type)
	}
	return nil
}

func startRole(ctx context.Context, t transport.Transport, role session.NetworkRole) error {
	switch role {
	case session.RoleServer, session.RoleHost:
		return t.StartServer(ctx)
	case session.RoleClient:
		return t.StartClient(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedNetworkRole, role)
	}
}
