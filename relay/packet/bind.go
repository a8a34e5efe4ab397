package packet

import "bytes"

// Bind is sent by a host to claim an allocation.
type Bind struct {
	AllocationID string
	Key          []byte
}

// ID ...
func (pk *Bind) ID() uint32 {
	return IDBind
}

// Encode ...
func (pk *Bind) Encode(buf *bytes.Buffer) {
	WriteString(buf, pk.AllocationID)
	WriteBytes(buf, pk.Key)
}

// Decode ...
func (pk *Bind) Decode(buf *bytes.Buffer) (err error) {
	if pk.AllocationID, err = ReadString(buf); err != nil {
		return err
	}
	pk.Key, err = ReadBytes(buf)
	return
}
