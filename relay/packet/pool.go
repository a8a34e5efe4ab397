package packet

import "maps"

// factories creates an empty packet for every handshake packet ID.
var factories = map[uint32]func() Packet{
	IDBind:     func() Packet { return &Bind{} },
	IDJoin:     func() Packet { return &Join{} },
	IDIncoming: func() Packet { return &Incoming{} },
	IDResponse: func() Packet { return &Response{} },
}

// Register adds or replaces the factory used for id by pools created afterwards.
func Register(id uint32, factory func() Packet) {
	factories[id] = factory
}

// Pool creates packets by ID. A Pool is a snapshot of the factories registered when it was made.
type Pool map[uint32]func() Packet

func NewPool() Pool {
	return maps.Clone(factories)
}

// New returns an empty packet for id, or false if id is unknown.
func (p Pool) New(id uint32) (Packet, bool) {
	factory, ok := p[id]
	if !ok {
		return nil, false
	}
	return factory(), true
}
