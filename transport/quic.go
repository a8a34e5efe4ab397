package transport

import (
	"context"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/cooldogedev/netbridge/internal"
	"github.com/quic-go/quic-go"
)

const quicNextProto = "netbridge"

// QUIC implements the Transport interface using the QUIC protocol in direct mode. Every peer uses a
// single bidirectional stream on its own connection.
type QUIC struct {
	*base
}

// NewQUIC creates a new QUIC transport instance.
func NewQUIC(logger *slog.Logger, opts *Opts) *QUIC {
	b := newBase(KindQUIC, nil, logger, opts)
	b.backend = &quicBackend{idleTimeout: b.opts.IdleTimeout, acceptTimeout: b.opts.DialTimeout, logger: b.logger}
	return &QUIC{base: b}
}

type quicBackend struct {
	idleTimeout   time.Duration
	acceptTimeout time.Duration
	logger        *slog.Logger
}

func (q *quicBackend) listen(addr string) (listener, error) {
	tlsConfig, err := internal.ServerTLSConfig(quicNextProto)
	if err != nil {
		return nil, err
	}

	l, err := quic.ListenAddr(addr, tlsConfig, internal.QUICConfig(q.idleTimeout))
	if err != nil {
		return nil, err
	}
	return newStreamListener(l.Addr(), l.Close, q.acceptTimeout, q.logger, func(ctx context.Context) (streamAcceptor, error) {
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
			return &quicStream{Stream: stream, conn: conn}, conn.RemoteAddr(), nil
		}, nil
	}), nil
}

func (q *quicBackend) dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	conn, err := quic.DialAddr(ctx, addr, internal.ClientTLSConfig(quicNextProto), internal.QUICConfig(q.idleTimeout))
	if err != nil {
		return nil, err
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "failed to open stream")
		return nil, err
	}
	return &quicStream{Stream: stream, conn: conn}, nil
}

// quicStream ties a stream to its connection so closing the stream tears down the connection.
type quicStream struct {
	quic.Stream
	conn quic.Connection
}

// LocalAddr ...
func (s *quicStream) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// Close ...
func (s *quicStream) Close() error {
	s.Stream.CancelRead(0)
	_ = s.Stream.Close()
	return s.conn.CloseWithError(0, "")
}
