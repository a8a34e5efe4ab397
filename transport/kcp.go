package transport

import (
	"context"
	"io"
	"log/slog"
	"net"

	"github.com/xtaci/kcp-go"
)

const (
	kcpDataShards   = 10
	kcpParityShards = 3
)

// KCP implements the Transport interface using the KCP protocol in direct mode.
type KCP struct {
	*base
}

// NewKCP creates a new KCP transport instance.
func NewKCP(logger *slog.Logger, opts *Opts) *KCP {
	return &KCP{base: newBase(KindKCP, kcpBackend{}, logger, opts)}
}

type kcpBackend struct{}

func (kcpBackend) listen(addr string) (listener, error) {
	l, err := kcp.ListenWithOptions(addr, nil, kcpDataShards, kcpParityShards)
	if err != nil {
		return nil, err
	}
	return &kcpListener{l}, nil
}

// dial ignores ctx: kcp-go sessions are connectionless and DialWithOptions returns immediately.
func (kcpBackend) dial(_ context.Context, addr string) (io.ReadWriteCloser, error) {
	sess, err := kcp.DialWithOptions(addr, nil, kcpDataShards, kcpParityShards)
	if err != nil {
		return nil, err
	}

	tuneKCP(sess)
	return sess, nil
}

type kcpListener struct {
	l *kcp.Listener
}

// Accept ...
func (l *kcpListener) Accept() (io.ReadWriteCloser, net.Addr, error) {
	sess, err := l.l.AcceptKCP()
	if err != nil {
		return nil, nil, err
	}

	tuneKCP(sess)
	return sess, sess.RemoteAddr(), nil
}

// Addr ...
func (l *kcpListener) Addr() net.Addr {
	return l.l.Addr()
}

// Close ...
func (l *kcpListener) Close() error {
	return l.l.Close()
}

// tuneKCP puts a session in stream mode, which frame reads rely on, with the low latency profile.
func tuneKCP(sess *kcp.UDPSession) {
	sess.SetStreamMode(true)
	sess.SetWriteDelay(false)
	sess.SetNoDelay(1, 10, 2, 1)
}
