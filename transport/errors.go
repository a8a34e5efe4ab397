package transport

import "errors"

var (
	ErrUnknownKind      = errors.New("transport: unknown kind")
	ErrAlreadyListening = errors.New("transport: already listening")
	ErrAlreadyConnected = errors.New("transport: already connected")
	ErrNotConnected     = errors.New("transport: not connected")
	ErrUnknownPeer      = errors.New("transport: unknown peer")
	ErrBadHello         = errors.New("transport: unexpected hello")
)
