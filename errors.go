package netbridge

import "errors"

var (
	ErrNoTransport = errors.New("netbridge: no compatible transport found; pass one to NewNetworkHandler, " +
		"register it on the main manager (manager.SetMain), or add it to the default scene (scene.Default().Add)")
	ErrUnsupportedNetworkType = errors.New("netbridge: unsupported network type")
	ErrUnsupportedNetworkRole = errors.New("netbridge: unsupported network role")
)
