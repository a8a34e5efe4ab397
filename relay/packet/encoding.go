package packet

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrMalformed is returned when a packet body is shorter than its fields announce.
var ErrMalformed = errors.New("packet: malformed packet")

func ReadBytes(buf *bytes.Buffer) ([]byte, error) {
	var length uint32
	if err := binary.Read(buf, binary.LittleEndian, &length); err != nil {
		return nil, ErrMalformed
	}

	if int(length) > buf.Len() {
		return nil, ErrMalformed
	}
	data := make([]byte, length)
	_, _ = buf.Read(data)
	return data, nil
}

func WriteBytes(buf *bytes.Buffer, data []byte) {
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
}

func ReadString(buf *bytes.Buffer) (string, error) {
	data, err := ReadBytes(buf)
	return string(data), err
}

func WriteString(buf *bytes.Buffer, s string) {
	WriteBytes(buf, []byte(s))
}
