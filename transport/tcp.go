package transport

import (
	"context"
	"io"
	"log/slog"
	"net"
)

// TCP implements the Transport interface using the TCP protocol in direct mode.
type TCP struct {
	*base
}

// NewTCP creates a new TCP transport instance.
func NewTCP(logger *slog.Logger, opts *Opts) *TCP {
	return &TCP{base: newBase(KindTCP, tcpBackend{}, logger, opts)}
}

type tcpBackend struct{}

func (tcpBackend) listen(addr string) (listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &tcpListener{l}, nil
}

func (tcpBackend) dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	tune(conn)
	return conn, nil
}

type tcpListener struct {
	net.Listener
}

// Accept ...
func (l *tcpListener) Accept() (io.ReadWriteCloser, net.Addr, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, nil, err
	}

	tune(conn)
	return conn, conn.RemoteAddr(), nil
}

func tune(conn net.Conn) {
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
		_ = tcpConn.SetLinger(0)
		_ = tcpConn.SetReadBuffer(1024 * 1024 * 8)
		_ = tcpConn.SetWriteBuffer(1024 * 1024 * 8)
	}
}
