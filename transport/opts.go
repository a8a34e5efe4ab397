package transport

import "time"

type Opts struct {
	// Network is the protocol used in direct mode.
	Network Kind `yaml:"network"`
	// Compression enables snappy compression of every frame. Both sides must agree on it.
	Compression bool `yaml:"compression"`
	// MaxPacketSize is the largest frame accepted from a peer.
	MaxPacketSize uint32 `yaml:"max_packet_size"`
	// DialTimeout bounds connecting to a server in direct mode.
	DialTimeout time.Duration `yaml:"dial_timeout"`
	// IdleTimeout closes QUIC connections that carried no traffic for this long.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	// BufferSize is the capacity of the received packet queue.
	BufferSize int `yaml:"buffer_size"`
}

func DefaultOpts() *Opts {
	return &Opts{
		Network:       KindTCP,
		MaxPacketSize: 1024 * 1024,
		DialTimeout:   time.Second * 5,
		IdleTimeout:   time.Second * 10,
		BufferSize:    256,
	}
}
