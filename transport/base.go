package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/cooldogedev/netbridge/protocol"
	"github.com/cooldogedev/netbridge/relay"
	"github.com/golang/snappy"
	"go.uber.org/multierr"
)

// hello is the first frame a client sends. Some protocols only surface a connection to the server once
// data arrives on it.
var hello = []byte("netbridge")

// Packet is a frame received from a peer. Peer is 0 for frames a client receives from its server.
type Packet struct {
	Peer    uint64
	Payload []byte
}

type listener interface {
	Accept() (io.ReadWriteCloser, net.Addr, error)
	Addr() net.Addr
	Close() error
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type backend interface {
	listen(addr string) (listener, error)
	dial(ctx context.Context, addr string) (io.ReadWriteCloser, error)
}

type peer struct {
	id   uint64
	rwc  io.ReadWriteCloser
	addr net.Addr

	reader  *protocol.Reader
	writer  *protocol.Writer
	writeMu sync.Mutex

	closed chan struct{}
	once   sync.Once
}

func (p *peer) write(payload []byte) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.writer.Write(payload)
}

func (p *peer) close() (err error) {
	p.once.Do(func() {
		close(p.closed)
		err = p.rwc.Close()
	})
	return
}

// base holds the connection state shared by every transport kind. Direct mode goes through the
// backend; relay mode goes through the relay package regardless of kind.
type base struct {
	kind    Kind
	backend backend
	opts    Opts

	publish Endpoint
	listen  Endpoint
	relay   *relay.ServerData

	listener listener
	client   *peer
	peers    map[uint64]*peer
	pending  map[*peer]struct{}
	nextID   uint64
	mu       sync.Mutex

	packets chan Packet
	logger  *slog.Logger
}

func newBase(kind Kind, backend backend, logger *slog.Logger, opts *Opts) *base {
	if logger == nil {
		logger = slog.Default()
	}

	if opts == nil {
		opts = DefaultOpts()
	}
	return &base{
		kind:    kind,
		backend: backend,
		opts:    *opts,

		peers:   make(map[uint64]*peer),
		pending: make(map[*peer]struct{}),
		packets: make(chan Packet, opts.BufferSize),
		logger:  logger.With("transport", kind.String()),
	}
}

// Kind ...
func (b *base) Kind() Kind {
	return b.kind
}

// SetConnectionData ...
func (b *base) SetConnectionData(publish, listen Endpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.publish = publish
	b.listen = listen
	b.relay = nil
}

// SetRelayServerData ...
func (b *base) SetRelayServerData(data relay.ServerData) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.relay = &data
}

// StartServer ...
func (b *base) StartServer(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listener != nil {
		return ErrAlreadyListening
	}

	var (
		l   listener
		err error
	)
	if b.relay != nil {
		l, err = relay.Listen(ctx, *b.relay, b.logger)
	} else {
		l, err = b.backend.listen(b.listen.String())
	}
	if err != nil {
		b.logger.Error("failed to listen", "err", err)
		return err
	}

	b.listener = l
	go b.accept(l)
	b.logger.Info("started listening", "addr", l.Addr(), "relay", b.relay != nil)
	return nil
}

// StartClient ...
func (b *base) StartClient(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return ErrAlreadyConnected
	}

	var (
		rwc io.ReadWriteCloser
		err error
	)
	if b.relay != nil {
		rwc, err = relay.Dial(ctx, *b.relay)
	} else {
		dialCtx, cancel := context.WithTimeout(ctx, b.opts.DialTimeout)
		rwc, err = b.backend.dial(dialCtx, b.publish.String())
		cancel()
	}
	if err != nil {
		b.logger.Error("failed to connect", "err", err)
		return err
	}

	p := b.newPeer(0, rwc, nil)
	if err := p.write(hello); err != nil {
		_ = p.close()
		return err
	}

	b.client = p
	go b.read(p)
	b.logger.Info("connected", "relay", b.relay != nil)
	return nil
}

// Disconnect ...
func (b *base) Disconnect() error {
	b.mu.Lock()
	p := b.client
	b.client = nil
	b.mu.Unlock()

	if p == nil {
		return nil
	}
	return p.close()
}

// StopListening ...
func (b *base) StopListening() error {
	b.mu.Lock()
	l := b.listener
	peers := b.peers
	pending := b.pending
	b.listener = nil
	b.peers = make(map[uint64]*peer)
	b.pending = make(map[*peer]struct{})
	b.mu.Unlock()

	if l == nil {
		return nil
	}

	err := l.Close()
	for _, p := range peers {
		err = multierr.Append(err, p.close())
	}
	for p := range pending {
		_ = p.close()
	}
	return err
}

// Close ...
func (b *base) Close() error {
	return multierr.Combine(b.Disconnect(), b.StopListening())
}

// LocalEndpoint ...
func (b *base) LocalEndpoint() Endpoint {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.listener != nil {
		return EndpointFromAddr(b.listener.Addr())
	}

	if b.client != nil {
		if conn, ok := b.client.rwc.(interface{ LocalAddr() net.Addr }); ok {
			return EndpointFromAddr(conn.LocalAddr())
		}
	}
	return Endpoint{}
}

// Packets returns the queue of frames received from peers.
func (b *base) Packets() <-chan Packet {
	return b.packets
}

// Peers returns the IDs of the clients currently connected to the server, sorted.
func (b *base) Peers() []uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]uint64, 0, len(b.peers))
	for id := range b.peers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Send writes payload to the server when connected as a client, or to every connected client when
// listening.
func (b *base) Send(payload []byte) error {
	data := b.encode(payload)

	b.mu.Lock()
	client := b.client
	peers := make([]*peer, 0, len(b.peers))
	for _, p := range b.peers {
		peers = append(peers, p)
	}
	b.mu.Unlock()

	if client != nil {
		return client.write(data)
	}

	if len(peers) == 0 && b.listener == nil {
		return ErrNotConnected
	}

	var err error
	for _, p := range peers {
		err = multierr.Append(err, p.write(data))
	}
	return err
}

// SendTo writes payload to a single connected client.
func (b *base) SendTo(id uint64, payload []byte) error {
	b.mu.Lock()
	p, ok := b.peers[id]
	b.mu.Unlock()

	if !ok {
		return ErrUnknownPeer
	}
	return p.write(b.encode(payload))
}

func (b *base) accept(l listener) {
	for {
		rwc, addr, err := l.Accept()
		if err != nil {
			b.logger.Debug("stopped accepting", "err", err)
			return
		}
		go b.handshake(l, rwc, addr)
	}
}

// handshake waits for the hello of an accepted connection. Until it arrives the connection is pending:
// it has no ID, but StopListening still closes it.
func (b *base) handshake(l listener, rwc io.ReadWriteCloser, addr net.Addr) {
	p := b.newPeer(0, rwc, addr)
	b.mu.Lock()
	if b.listener != l {
		b.mu.Unlock()
		_ = p.close()
		return
	}
	b.pending[p] = struct{}{}
	b.mu.Unlock()

	deadliner, ok := rwc.(readDeadliner)
	ok = ok && b.opts.DialTimeout > 0
	if ok {
		_ = deadliner.SetReadDeadline(time.Now().Add(b.opts.DialTimeout))
	}
	payload, err := p.reader.ReadPacket()
	if ok {
		_ = deadliner.SetReadDeadline(time.Time{})
	}
	if err == nil && !bytes.Equal(payload, hello) {
		err = ErrBadHello
	}

	b.mu.Lock()
	delete(b.pending, p)
	if err != nil || b.listener != l {
		b.mu.Unlock()
		_ = p.close()
		b.logger.Debug("dropped connection", "addr", addr, "err", err)
		return
	}
	b.nextID++
	p.id = b.nextID
	b.peers[p.id] = p
	b.mu.Unlock()

	b.logger.Debug("accepted connection", "peer", p.id, "addr", addr)
	b.read(p)
}

func (b *base) read(p *peer) {
	defer b.drop(p)
	for {
		payload, err := p.reader.ReadPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				select {
				case <-p.closed:
				default:
					b.logger.Debug("failed to read packet", "peer", p.id, "err", err)
				}
			}
			return
		}

		payload, err = b.decode(payload)
		if err != nil {
			b.logger.Error("failed to decode packet", "peer", p.id, "err", err)
			return
		}

		select {
		case b.packets <- Packet{Peer: p.id, Payload: payload}:
		case <-p.closed:
			return
		}
	}
}

func (b *base) drop(p *peer) {
	_ = p.close()

	b.mu.Lock()
	defer b.mu.Unlock()
	if p.id == 0 {
		if b.client == p {
			b.client = nil
			b.logger.Info("disconnected from server")
		}
		return
	}

	if b.peers[p.id] == p {
		delete(b.peers, p.id)
		b.logger.Debug("closed connection", "peer", p.id, "addr", p.addr)
	}
}

func (b *base) newPeer(id uint64, rwc io.ReadWriteCloser, addr net.Addr) *peer {
	return &peer{
		id:   id,
		rwc:  rwc,
		addr: addr,

		reader: protocol.NewReaderSize(rwc, b.opts.MaxPacketSize),
		writer: protocol.NewWriter(rwc),

		closed: make(chan struct{}),
	}
}

func (b *base) encode(payload []byte) []byte {
	if !b.opts.Compression {
		return payload
	}
	return snappy.Encode(nil, payload)
}

func (b *base) decode(payload []byte) ([]byte, error) {
	if !b.opts.Compression {
		return payload, nil
	}
	return snappy.Decode(nil, payload)
}
