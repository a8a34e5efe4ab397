package session

import "errors"

var (
	ErrInvalidAddress       = errors.New("session: invalid address")
	ErrInvalidPort          = errors.New("session: invalid port")
	ErrUnknownRelayProtocol = errors.New("session: unknown relay protocol")
	ErrNoNetworkHandler     = errors.New("session: network configured without a network handler")
	ErrRelayUnavailable     = errors.New("session: relay network requested but no relay service is configured")
	ErrSessionNotFound      = errors.New("session: session not found")
	ErrSessionFull          = errors.New("session: session is full")
)
