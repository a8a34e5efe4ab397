package packet

import "bytes"

// Join is sent by a client to connect to the host of the allocation behind JoinCode.
type Join struct {
	JoinCode string
}

// ID ...
func (pk *Join) ID() uint32 {
	return IDJoin
}

// Encode ...
func (pk *Join) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.JoinCode)
}

// Decode ...
func (pk *Join) Decode(buf *bytes.Buffer) (err error) {
	pk.JoinCode, err = ReadString(buf)
	return
}
