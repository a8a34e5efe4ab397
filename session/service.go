package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cooldogedev/netbridge/relay"
	"github.com/google/uuid"
)

const codeLength = 6

// RelayService allocates relay tickets. *relay.Service implements it.
type RelayService interface {
	// Allocate returns a host ticket in region. An empty region selects the default region.
	Allocate(ctx context.Context, region string) (relay.ServerData, error)
	// Join returns the client ticket for a join code.
	Join(ctx context.Context, joinCode string) (relay.ServerData, error)
	// Release drops the allocation behind a host ticket.
	Release(data relay.ServerData)
}

// Service creates and joins sessions, starting their network through the NetworkHandler attached to
// the options passed.
type Service struct {
	relay    RelayService
	registry *Registry
	logger   *slog.Logger
}

// NewService creates a Service. relay may be nil, in which case relay sessions cannot be created.
func NewService(logger *slog.Logger, relay RelayService) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		relay:    relay,
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Registry returns the sessions created through the service.
func (s *Service) Registry() *Registry {
	return s.registry
}

// CreateSession creates a session hosted by this process, which also takes part in it as a player.
func (s *Service) CreateSession(ctx context.Context, opts *Options) (*Session, error) {
	return s.create(ctx, RoleHost, opts)
}

// CreateServerSession creates a session served by this process without a local player.
func (s *Service) CreateServerSession(ctx context.Context, opts *Options) (*Session, error) {
	return s.create(ctx, RoleServer, opts)
}

// JoinSessionByID joins the session with the ID passed.
func (s *Service) JoinSessionByID(ctx context.Context, id string, opts *JoinOptions) (*Session, error) {
	host := s.registry.GetSession(id)
	if host == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.join(ctx, host, opts)
}

// JoinSessionByCode joins the session with the join code passed.
func (s *Service) JoinSessionByCode(ctx context.Context, code string, opts *JoinOptions) (*Session, error) {
	host := s.registry.GetSessionByCode(code)
	if host == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, code)
	}
	return s.join(ctx, host, opts)
}

func (s *Service) create(ctx context.Context, role NetworkRole, opts *Options) (*Session, error) {
	if opts.network == nil {
		session := newSession(s, opts, "", nil)
		s.registry.AddSession(session)
		s.logger.Info("created session", "session", session.id, "name", session.name)
		return session, nil
	}

	if opts.handler == nil {
		return nil, ErrNoNetworkHandler
	}

	cfg := &NetworkConfiguration{Role: role, Type: opts.network.typ}
	var code string
	switch opts.network.typ {
	case NetworkTypeDirect:
		cfg.DirectNetworkListenAddress = opts.network.direct.ListenAddress
		cfg.DirectNetworkPublishAddress = opts.network.direct.PublishAddress
	case NetworkTypeRelay:
		if s.relay == nil {
			return nil, ErrRelayUnavailable
		}

		data, err := s.relay.Allocate(ctx, opts.network.relay.Region)
		if err != nil {
			return nil, err
		}
		cfg.RelayServerData = data
		code = data.JoinCode
	}

	if err := opts.handler.Start(ctx, cfg); err != nil {
		if cfg.relayOwned() {
			s.relay.Release(cfg.RelayServerData)
		}
		s.logger.Error("failed to start session network", "role", role, "type", cfg.Type, "err", err)
		return nil, err
	}

	session := newSession(s, opts, code, cfg)
	s.registry.AddSession(session)
	s.logger.Info("created session", "session", session.id, "name", session.name, "role", role, "type", cfg.Type)
	return session, nil
}

func (s *Service) join(ctx context.Context, host *Session, opts *JoinOptions) (*Session, error) {
	if opts == nil {
		opts = &JoinOptions{}
	}

	if host.cfg != nil && opts.handler == nil {
		return nil, ErrNoNetworkHandler
	}

	if !host.reserve() {
		return nil, fmt.Errorf("%w: %s", ErrSessionFull, host.id)
	}

	session := &Session{
		id:         host.id,
		code:       host.code,
		name:       host.name,
		maxPlayers: host.maxPlayers,
		private:    host.private,
		properties: host.properties,

		handler: opts.handler,
		host:    host,
		service: s,
		logger:  s.logger.With("session", host.id),
	}
	if host.cfg == nil {
		return session, nil
	}

	cfg := &NetworkConfiguration{Role: RoleClient, Type: host.cfg.Type}
	switch host.cfg.Type {
	case NetworkTypeDirect:
		cfg.DirectNetworkPublishAddress = host.cfg.DirectNetworkPublishAddress
	case NetworkTypeRelay:
		data, err := s.relay.Join(ctx, host.code)
		if err != nil {
			host.release()
			return nil, err
		}
		cfg.RelayClientData = data
	}

	if err := opts.handler.Start(ctx, cfg); err != nil {
		host.release()
		s.logger.Error("failed to join session network", "session", host.id, "type", cfg.Type, "err", err)
		return nil, err
	}

	session.cfg = cfg
	s.logger.Info("joined session", "session", host.id, "type", cfg.Type)
	return session, nil
}

func newCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
}
