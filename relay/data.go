package relay

// ServerData is a relay ticket. Hosts receive one carrying the allocation key and use it to bind the
// allocation; clients receive one without the key and use the join code to connect to the host.
type ServerData struct {
	// Endpoint is the address of the relay server holding the allocation.
	Endpoint string
	// AllocationID identifies the allocation on the relay server.
	AllocationID string
	// JoinCode is the short code clients use to reach the allocation's host.
	JoinCode string
	// Key authenticates the host of the allocation. It is empty in client tickets.
	Key []byte
	// Region is the region of the relay server.
	Region string
}

// IsZero reports whether d carries no ticket at all.
func (d ServerData) IsZero() bool {
	return d.Endpoint == "" && d.AllocationID == "" && d.JoinCode == ""
}
