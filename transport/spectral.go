package transport

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/cooldogedev/spectral"
)

// Spectral implements the Transport interface using the Spectral protocol in direct mode. Like QUIC,
// every peer uses a single stream on its own connection.
type Spectral struct {
	*base
}

// NewSpectral creates a new Spectral transport instance.
func NewSpectral(logger *slog.Logger, opts *Opts) *Spectral {
	b := newBase(KindSpectral, nil, logger, opts)
	b.backend = &spectralBackend{acceptTimeout: b.opts.DialTimeout, logger: b.logger}
	return &Spectral{base: b}
}

type spectralBackend struct {
	acceptTimeout time.Duration
	logger        *slog.Logger
}

func (s *spectralBackend) listen(addr string) (listener, error) {
	// spectral listeners do not report their address, so port 0 is resolved up front.
	addr, err := reserveUDPPort(addr)
	if err != nil {
		return nil, err
	}

	local, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}

	l, err := spectral.Listen(addr)
	if err != nil {
		return nil, err
	}
	return newStreamListener(local, l.Close, s.acceptTimeout, s.logger, func(ctx context.Context) (streamAcceptor, error) {
		conn, err := l.Accept(ctx)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context) (io.ReadWriteCloser, net.Addr, error) {
			stream, err := conn.AcceptStream(ctx)
			if err != nil {
				_ = conn.CloseWithError(0, "no stream opened")
				return nil, nil, err
			}

			rwc := &spectralStream{Stream: stream, conn: conn}
			return rwc, rwc.RemoteAddr(), nil
		}, nil
	}), nil
}

func (s *spectralBackend) dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	conn, err := spectral.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}

	stream, err := conn.OpenStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "failed to open stream")
		return nil, err
	}
	s.logger.Debug("established connection", "addr", addr)
	return &spectralStream{Stream: stream, conn: conn}, nil
}

// spectralStream ties a stream to its connection so closing the stream tears down the connection.
type spectralStream struct {
	*spectral.Stream
	conn spectral.Connection
}

// LocalAddr ...
func (s *spectralStream) LocalAddr() net.Addr {
	if c, ok := s.conn.(interface{ LocalAddr() net.Addr }); ok {
		return c.LocalAddr()
	}
	return nil
}

// RemoteAddr ...
func (s *spectralStream) RemoteAddr() net.Addr {
	if c, ok := s.conn.(interface{ RemoteAddr() net.Addr }); ok {
		return c.RemoteAddr()
	}
	return nil
}

// Close ...
func (s *spectralStream) Close() error {
	_ = s.Stream.Close()
	return s.conn.CloseWithError(0, "")
}

// reserveUDPPort replaces port 0 in addr with a port that is free at the time of the call.
func reserveUDPPort(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port != "0" {
		return addr, err
	}

	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return net.JoinHostPort(host, strconv.Itoa(conn.LocalAddr().(*net.UDPAddr).Port)), nil
}
