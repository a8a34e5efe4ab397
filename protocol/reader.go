package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	packetLengthSize = 4
	// DefaultMaxPacketSize is the largest frame a Reader accepts unless told otherwise.
	DefaultMaxPacketSize = 1024 * 1024 * 4
)

// ErrPacketTooLarge is returned when a frame header announces more bytes than the reader allows.
var ErrPacketTooLarge = errors.New("protocol: packet exceeds maximum size")

// Reader reads length-prefixed frames. It never reads past the end of the current frame, so the
// underlying stream may be handed to another Reader once a handshake is complete.
type Reader struct {
	r       io.Reader
	length  [packetLengthSize]byte
	maxSize uint32
}

// NewReader creates a Reader that accepts frames up to DefaultMaxPacketSize.
func NewReader(r io.Reader) *Reader {
	return NewReaderSize(r, DefaultMaxPacketSize)
}

// NewReaderSize creates a Reader that accepts frames up to maxSize bytes.
func NewReaderSize(r io.Reader, maxSize uint32) *Reader {
	if maxSize == 0 {
		maxSize = DefaultMaxPacketSize
	}
	return &Reader{r: r, maxSize: maxSize}
}

// ReadPacket blocks until a full frame has been read and returns its payload.
func (r *Reader) ReadPacket() ([]byte, error) {
	if _, err := io.ReadFull(r.r, r.length[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(r.length[:])
	if length > r.maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrPacketTooLarge, length, r.maxSize)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return payload, nil
}
