package session

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Session is a multiplayer session, either owned by this process (created as a host or dedicated
// server) or joined as a client.
type Session struct {
	id         string
	code       string
	name       string
	maxPlayers int
	private    bool
	properties map[string]string

	cfg     *NetworkConfiguration
	handler NetworkHandler

	// host is the session joined. It is nil for owned sessions.
	host    *Session
	service *Service

	players atomic.Int32
	once    sync.Once
	logger  *slog.Logger
}

func newSession(service *Service, opts *Options, code string, cfg *NetworkConfiguration) *Session {
	if code == "" {
		code = newCode()
	}

	s := &Session{
		id:         uuid.NewString(),
		code:       code,
		name:       opts.Name,
		maxPlayers: opts.MaxPlayers,
		private:    opts.IsPrivate,
		properties: maps.Clone(opts.Properties),

		cfg:     cfg,
		handler: opts.handler,
		service: service,
	}
	s.logger = service.logger.With("session", s.id)
	if cfg != nil && cfg.Role == RoleHost {
		s.players.Store(1)
	}
	return s
}

// ID ...
func (s *Session) ID() string {
	return s.id
}

// Code returns the code clients use to join the session. For relay sessions it is the relay's join
// code.
func (s *Session) Code() string {
	return s.code
}

// Name ...
func (s *Session) Name() string {
	return s.name
}

// MaxPlayers ...
func (s *Session) MaxPlayers() int {
	return s.maxPlayers
}

// IsPrivate ...
func (s *Session) IsPrivate() bool {
	return s.private
}

// Properties returns a copy of the session's properties.
func (s *Session) Properties() map[string]string {
	return maps.Clone(s.properties)
}

// Role returns the role this process plays in the session. Sessions without a network report
// RoleServer when owned and RoleClient when joined.
func (s *Session) Role() NetworkRole {
	switch {
	case s.cfg != nil:
		return s.cfg.Role
	case s.host != nil:
		return RoleClient
	default:
		return RoleServer
	}
}

// NetworkConfiguration returns the configuration the network handler was started with, or nil if the
// session has no network.
func (s *Session) NetworkConfiguration() *NetworkConfiguration {
	return s.cfg
}

// PlayerCount returns the number of players in the session, the host included.
func (s *Session) PlayerCount() int {
	if s.host != nil {
		return s.host.PlayerCount()
	}
	return int(s.players.Load())
}

// Leave stops the session's network. Owned sessions are also unregistered and their relay allocation
// released. Calls after the first return nil.
func (s *Session) Leave(ctx context.Context) (err error) {
	s.once.Do(func() {
		if s.handler != nil && s.cfg != nil {
			err = s.handler.Stop(ctx)
		}

		if s.host != nil {
			s.host.release()
			s.logger.Debug("left session", "host", s.host.id)
			return
		}

		s.service.registry.RemoveSession(s)
		if !s.cfg.relayOwned() {
			s.logger.Info("closed session")
			return
		}
		s.service.relay.Release(s.cfg.RelayServerData)
		s.logger.Info("closed session", "allocation", s.cfg.RelayServerData.AllocationID)
	})
	return
}

// reserve takes a player slot, reporting false if the session is full.
func (s *Session) reserve() bool {
	for {
		n := s.players.Load()
		if s.maxPlayers > 0 && int(n) >= s.maxPlayers {
			return false
		}

		if s.players.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (s *Session) release() {
	s.players.Add(-1)
}

func (c *NetworkConfiguration) relayOwned() bool {
	return c != nil && c.Type == NetworkTypeRelay && c.Role != RoleClient && !c.RelayServerData.IsZero()
}
