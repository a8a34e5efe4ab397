package netbridge

import (
	"github.com/cooldogedev/netbridge/manager"
	"github.com/cooldogedev/netbridge/scene"
	"github.com/cooldogedev/netbridge/transport"
)

// Provider looks up a transport a NetworkHandler can drive, reporting false if it finds none.
type Provider func() (transport.Transport, bool)

// ManagerProvider returns a Provider yielding the transport of the manager main returns, if that
// transport can be driven by a NetworkHandler.
func ManagerProvider(main func() *manager.Manager) Provider {
	return func() (transport.Transport, bool) {
		m := main()
		if m == nil {
			return nil, false
		}
		t, ok := m.Transport().(transport.Transport)
		return t, ok
	}
}

// SceneProvider returns a Provider yielding the first transport added to s.
func SceneProvider(s *scene.Scene) Provider {
	return func() (transport.Transport, bool) {
		return scene.FindFirst[transport.Transport](s)
	}
}

// DefaultProviders returns the providers NewNetworkHandler falls back to: the main manager's
// transport, then the default scene.
func DefaultProviders() []Provider {
	return []Provider{
		ManagerProvider(manager.Main),
		SceneProvider(scene.Default()),
	}
}

func resolve(providers []Provider) (transport.Transport, error) {
	for _, provider := range providers {
		if t, ok := provider(); ok && t != nil {
			return t, nil
		}
	}
	return nil, ErrNoTransport
}
