package protocol

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderStopsAtFrameBoundary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write([]byte("handshake")))
	require.NoError(t, w.Write([]byte("payload")))
	buf.WriteString("raw tail")

	r := NewReader(&buf)
	pk, err := r.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, "handshake", string(pk))

	// A second reader picks up exactly where the first one stopped.
	pk, err = NewReader(&buf).ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, "payload", string(pk))
	assert.Equal(t, "raw tail", buf.String())
}

func TestReaderEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(nil))

	pk, err := NewReader(&buf).ReadPacket()
	require.NoError(t, err)
	assert.Empty(t, pk)
}

func TestReaderRejectsOversizedFrame(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(64))
	buf.Write(make([]byte, 64))

	_, err := NewReaderSize(&buf, 16).ReadPacket()
	assert.ErrorIs(t, err, ErrPacketTooLarge)
}

func TestReaderTruncatedFrame(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint32(10))
	buf.WriteString("abc")

	_, err := NewReader(&buf).ReadPacket()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = NewReader(&bytes.Buffer{}).ReadPacket()
	assert.ErrorIs(t, err, io.EOF)
}

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(p)
}

func TestWriterSingleWritePerFrame(t *testing.T) {
	var w countingWriter
	require.NoError(t, NewWriter(&w).Write([]byte("abc")))
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, []byte{0, 0, 0, 3, 'a', 'b', 'c'}, w.Bytes())
}
