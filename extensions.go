package netbridge

import "github.com/cooldogedev/netbridge/session"

// WithHandler attaches handler to opts and returns opts. A nil handler attaches a new handler
// resolving its transport through DefaultProviders.
func WithHandler[T session.HandlerOptions](opts T, handler *NetworkHandler) T {
	if handler == nil {
		handler = NewNetworkHandler(nil, nil)
	}
	opts.SetNetworkHandler(handler)
	return opts
}

// WithDirect configures opts for direct networking and attaches handler. See WithHandler.
func WithDirect(opts *session.Options, listenIP, publishIP string, port int, handler *NetworkHandler) (*session.Options, error) {
	if _, err := opts.WithDirectNetwork(listenIP, publishIP, port); err != nil {
		return opts, err
	}
	return WithHandler(opts, handler), nil
}

// WithDirectOptions ...
func WithDirectOptions(opts *session.Options, network session.DirectNetworkOptions, handler *NetworkHandler) (*session.Options, error) {
	if _, err := opts.WithDirectNetworkOptions(network); err != nil {
		return opts, err
	}
	return WithHandler(opts, handler), nil
}

// WithRelay configures opts for relay networking in region and attaches handler. An empty region uses
// the relay service's default region.
func WithRelay(opts *session.Options, region string, handler *NetworkHandler) (*session.Options, error) {
	if _, err := opts.WithRelayNetwork(region); err != nil {
		return opts, err
	}
	return WithHandler(opts, handler), nil
}

// WithRelayOptions ...
func WithRelayOptions(opts *session.Options, network session.RelayNetworkOptions, handler *NetworkHandler) (*session.Options, error) {
	if _, err := opts.WithRelayNetworkOptions(network); err != nil {
		return opts, err
	}
	return WithHandler(opts, handler), nil
}
