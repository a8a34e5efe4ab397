package relay

import "time"

type Opts struct {
	// Addr is the UDP address the relay listens on.
	Addr string `yaml:"addr"`
	// PublicAddr is the address handed out in tickets. It defaults to the bound listener address.
	PublicAddr string `yaml:"public_addr"`
	// Region is the region label of this relay server.
	Region string `yaml:"region"`
	// MaxAllocations caps the number of allocations held at once.
	MaxAllocations int `yaml:"max_allocations"`
	// IdleTimeout closes relay connections that carried no traffic for this long.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

func DefaultOpts() *Opts {
	return &Opts{
		Addr:           ":19200",
		Region:         "local",
		MaxAllocations: 1024,
		IdleTimeout:    time.Second * 30,
	}
}
