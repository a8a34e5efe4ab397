package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/cooldogedev/netbridge/internal"
	"github.com/cooldogedev/netbridge/relay/packet"
	"github.com/quic-go/quic-go"
)

const linkIdleTimeout = time.Second * 30

// Addr is the address of a client reached through a relay, as reported by the relay.
type Addr string

// Network ...
func (a Addr) Network() string {
	return "relay"
}

// String ...
func (a Addr) String() string {
	return string(a)
}

// Listener is the host side of an allocation. Every Accept returns the stream of one joined client.
type Listener struct {
	conn    quic.Connection
	control quic.Stream
	logger  *slog.Logger
}

// Listen connects to the relay in data and binds its allocation as host.
func Listen(ctx context.Context, data ServerData, logger *slog.Logger) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c, control, err := handshake(ctx, data.Endpoint, &packet.Bind{AllocationID: data.AllocationID, Key: data.Key})
	if err != nil {
		return nil, err
	}
	logger.Debug("bound relay allocation", "relay", data.Endpoint, "allocation", data.AllocationID)
	return &Listener{conn: c, control: control, logger: logger}, nil
}

// Accept blocks until the relay splices in a client, or the link is closed.
func (l *Listener) Accept() (io.ReadWriteCloser, net.Addr, error) {
	for {
		stream, err := l.conn.AcceptStream(context.Background())
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", net.ErrClosed, err)
		}

		pk, err := newConn(stream).readPacket()
		if err != nil {
			stream.CancelRead(0)
			_ = stream.Close()
			l.logger.Debug("dropped relay stream", "err", err)
			continue
		}

		incoming, ok := pk.(*packet.Incoming)
		if !ok {
			stream.CancelRead(0)
			_ = stream.Close()
			l.logger.Debug("dropped relay stream", "packet", pk.ID())
			continue
		}
		return &Conn{Stream: stream, local: l.conn.LocalAddr(), remote: Addr(incoming.Addr)}, Addr(incoming.Addr), nil
	}
}

// Addr returns the local address of the link to the relay.
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Close releases the host binding. The allocation itself stays reserved on the relay.
func (l *Listener) Close() error {
	_ = l.control.Close()
	return l.conn.CloseWithError(0, "host closed")
}

// Conn is one relayed stream. On the client side closing it also closes the link to the relay.
type Conn struct {
	quic.Stream
	conn quic.Connection

	local  net.Addr
	remote net.Addr
}

// Dial joins the allocation behind data's join code and returns the stream spliced to its host.
func Dial(ctx context.Context, data ServerData) (*Conn, error) {
	c, stream, err := handshake(ctx, data.Endpoint, &packet.Join{JoinCode: data.JoinCode})
	if err != nil {
		return nil, err
	}
	return &Conn{Stream: stream, conn: c, local: c.LocalAddr(), remote: c.RemoteAddr()}, nil
}

// LocalAddr ...
func (c *Conn) LocalAddr() net.Addr {
	return c.local
}

// RemoteAddr ...
func (c *Conn) RemoteAddr() net.Addr {
	return c.remote
}

// Close ...
func (c *Conn) Close() error {
	c.Stream.CancelRead(0)
	err := c.Stream.Close()
	if c.conn != nil {
		return c.conn.CloseWithError(0, "")
	}
	return err
}

func handshake(ctx context.Context, addr string, pk packet.Packet) (quic.Connection, quic.Stream, error) {
	c, err := quic.DialAddr(ctx, addr, internal.ClientTLSConfig(nextProto), internal.QUICConfig(linkIdleTimeout))
	if err != nil {
		return nil, nil, err
	}

	stream, err := c.OpenStreamSync(ctx)
	if err != nil {
		_ = c.CloseWithError(0, "failed to open stream")
		return nil, nil, err
	}

	conn := newConn(stream)
	if err := conn.writePacket(pk); err != nil {
		_ = c.CloseWithError(0, "handshake failed")
		return nil, nil, err
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	} else {
		_ = stream.SetReadDeadline(time.Now().Add(handshakeTimeout))
	}

	if err := conn.expectResponse(); err != nil {
		_ = c.CloseWithError(0, "handshake refused")
		return nil, nil, err
	}
	_ = stream.SetReadDeadline(time.Time{})
	return c, stream, nil
}
