package relay

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cooldogedev/netbridge/internal"
	"github.com/cooldogedev/netbridge/protocol"
	"github.com/cooldogedev/netbridge/relay/packet"
)

const maxHandshakeSize = 1024 * 4

// conn reads and writes handshake packets on a relay stream. It only consumes whole frames, so the
// stream can carry application frames once the handshake is over.
type conn struct {
	pool packet.Pool

	reader *protocol.Reader
	writer *protocol.Writer
}

func newConn(rw io.ReadWriter) *conn {
	return &conn{
		pool: packet.NewPool(),

		reader: protocol.NewReaderSize(rw, maxHandshakeSize),
		writer: protocol.NewWriter(rw),
	}
}

func (c *conn) readPacket() (pk packet.Packet, err error) {
	payload, err := c.reader.ReadPacket()
	if err != nil {
		return nil, err
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	buf.Write(payload)
	defer func() {
		buf.Reset()
		internal.BufferPool.Put(buf)

		if r := recover(); r != nil {
			err = fmt.Errorf("panic while decoding packet: %v", r)
		}
	}()

	var packetID uint32
	if err := binary.Read(buf, binary.LittleEndian, &packetID); err != nil {
		return nil, err
	}

	pk, ok := c.pool.New(packetID)
	if !ok {
		return nil, fmt.Errorf("unknown packet ID: %v", packetID)
	}

	if err := pk.Decode(buf); err != nil {
		return nil, err
	}
	return pk, nil
}

func (c *conn) writePacket(pk packet.Packet) error {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		internal.BufferPool.Put(buf)
	}()

	if err := binary.Write(buf, binary.LittleEndian, pk.ID()); err != nil {
		return err
	}

	pk.Encode(buf)
	return c.writer.Write(buf.Bytes())
}

// expectResponse reads the relay's answer to a Bind or Join and converts it to an error.
func (c *conn) expectResponse() error {
	pk, err := c.readPacket()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHandshakeFailed, err)
	}

	response, ok := pk.(*packet.Response)
	if !ok {
		return fmt.Errorf("%w: expected response, got %d", ErrHandshakeFailed, pk.ID())
	}
	return responseError(response.Response)
}
