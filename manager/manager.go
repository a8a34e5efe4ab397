// Package manager holds the transport an application networks through, and the process-wide main
// manager network handlers fall back to when none is passed to them.
package manager

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/cooldogedev/netbridge/transport"
)

var mainManager atomic.Pointer[Manager]

// Main returns the process-wide manager, or nil if none was set.
func Main() *Manager {
	return mainManager.Load()
}

// SetMain sets the process-wide manager. Passing nil clears it.
func SetMain(m *Manager) {
	mainManager.Store(m)
}

type Manager struct {
	transport transport.Generic
	opts      transport.Opts
	mu        sync.RWMutex

	logger *slog.Logger
}

// New creates a Manager. A nil t creates a transport of the kind opts asks for, and a nil opts uses
// transport.DefaultOpts.
func New(logger *slog.Logger, opts *transport.Opts, t transport.Generic) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	if opts == nil {
		opts = transport.DefaultOpts()
	}

	if t == nil {
		created, err := transport.New(opts.Network, logger, opts)
		if err != nil {
			logger.Warn("falling back to tcp transport", "err", err)
			created = transport.NewTCP(logger, opts)
		}
		t = created
	}
	return &Manager{
		transport: t,
		opts:      *opts,
		logger:    logger,
	}
}

func (m *Manager) Opts() transport.Opts {
	return m.opts
}

func (m *Manager) Transport() transport.Generic {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transport
}

// SetTransport replaces the transport. The previous one is not closed.
func (m *Manager) SetTransport(t transport.Generic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transport = t
	m.logger.Debug("set transport", "kind", t.Kind())
}

// Close closes the transport and clears the manager as the main manager if it is.
func (m *Manager) Close() error {
	mainManager.CompareAndSwap(m, nil)
	if err := m.Transport().Close(); err != nil {
		m.logger.Error("failed to close transport", "err", err)
		return err
	}
	return nil
}
