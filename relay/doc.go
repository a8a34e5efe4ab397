// Package relay implements the rendezvous service used by sessions in relay mode.
//
// A host claims an allocation by sending Bind with the allocation's key over a QUIC connection to the
// relay and keeps that connection open. Clients connect to the same relay and send Join with the
// allocation's join code. For every joining client the relay opens a stream towards the host, announces
// it with Incoming and splices the two streams together, so neither side needs a reachable address.
package relay
