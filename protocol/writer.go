package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cooldogedev/netbridge/internal"
)

// Writer writes length-prefixed frames. Header and payload go to the underlying writer in one Write
// call, so concurrent callers only need to serialise whole frames.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write frames payload.
func (w *Writer) Write(payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrPacketTooLarge, len(payload))
	}

	frame := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(frame)
	frame.Reset()
	frame.Grow(packetLengthSize + len(payload))

	var header [packetLengthSize]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	frame.Write(header[:])
	frame.Write(payload)

	_, err := w.w.Write(frame.Bytes())
	return err
}
