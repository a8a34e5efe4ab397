package packet

import "bytes"

// Incoming opens every stream the relay creates towards a host. Addr is the joining client's address
// as seen by the relay.
type Incoming struct {
	Addr string
}

// ID ...
func (pk *Incoming) ID() uint32 {
	return IDIncoming
}

// Encode ...
func (pk *Incoming) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.Addr)
}

// Decode ...
func (pk *Incoming) Decode(buf *bytes.Buffer) (err error) {
	pk.Addr, err = ReadString(buf)
	return
}
