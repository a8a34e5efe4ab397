package packet

import (
	"bytes"
	"encoding/binary"
)

const (
	ResponseSuccess = iota
	ResponseUnauthorized
	ResponseUnknownAllocation
	ResponseHostUnavailable
	ResponseFail
)

type Response struct {
	Response uint8
}

// ID ...
func (pk *Response) ID() uint32 {
	return IDResponse
}

// Encode ...
func (pk *Response) Encode(buf *bytes.Buffer) {
	_ = binary.Write(buf, binary.LittleEndian, pk.Response)
}

// Decode ...
func (pk *Response) Decode(buf *bytes.Buffer) error {
	if err := binary.Read(buf, binary.LittleEndian, &pk.Response); err != nil {
		return ErrMalformed
	}
	return nil
}
