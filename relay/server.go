package relay

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cooldogedev/netbridge/internal"
	"github.com/cooldogedev/netbridge/relay/packet"
	"github.com/google/uuid"
	"github.com/quic-go/quic-go"
	"golang.org/x/sync/errgroup"
)

const (
	nextProto        = "netbridge-relay"
	joinCodeLength   = 6
	keySize          = 32
	handshakeTimeout = time.Second * 5
	lingerTimeout    = time.Second * 2
)

type allocation struct {
	data ServerData
	host quic.Connection
}

// Server is a relay server for a single region.
type Server struct {
	opts     Opts
	listener *quic.Listener
	closed   atomic.Bool

	allocations map[string]*allocation
	codes       map[string]*allocation
	mu          sync.Mutex

	logger  *slog.Logger
	metrics regionMetrics
}

// NewServer creates a relay server. A nil opts uses DefaultOpts and a nil metrics leaves the server's
// collectors unregistered.
func NewServer(logger *slog.Logger, opts *Opts, metrics *Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	if opts == nil {
		opts = DefaultOpts()
	}

	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Server{
		opts: *opts,

		allocations: make(map[string]*allocation),
		codes:       make(map[string]*allocation),

		logger:  logger.With("region", opts.Region),
		metrics: metrics.region(opts.Region),
	}
}

// Listen binds the server's UDP address.
func (s *Server) Listen() error {
	tlsConfig, err := internal.ServerTLSConfig(nextProto)
	if err != nil {
		return err
	}

	listener, err := quic.ListenAddr(s.opts.Addr, tlsConfig, internal.QUICConfig(s.opts.IdleTimeout))
	if err != nil {
		s.logger.Error("failed to listen", "err", err)
		return err
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.logger.Info("started listening", "addr", listener.Addr())
	return nil
}

// Serve accepts relay connections until ctx is done or the server is closed.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return ErrNotListening
	}

	for {
		conn, err := listener.Accept(ctx)
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil {
				return nil
			}
			s.logger.Error("failed to accept connection", "err", err)
			return err
		}
		go s.handle(ctx, conn)
	}
}

// Region ...
func (s *Server) Region() string {
	return s.opts.Region
}

// Endpoint returns the address handed out in tickets.
func (s *Server) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint()
}

func (s *Server) endpoint() string {
	if s.opts.PublicAddr != "" {
		return s.opts.PublicAddr
	}

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Allocate reserves a new allocation and returns the host ticket for it.
func (s *Server) Allocate() (ServerData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return ServerData{}, ErrNotListening
	}

	if s.opts.MaxAllocations > 0 && len(s.allocations) >= s.opts.MaxAllocations {
		return ServerData{}, ErrTooManyAllocations
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return ServerData{}, err
	}

	a := &allocation{
		data: ServerData{
			Endpoint:     s.endpoint(),
			AllocationID: uuid.NewString(),
			JoinCode:     s.newJoinCode(),
			Key:          key,
			Region:       s.opts.Region,
		},
	}
	s.allocations[a.data.AllocationID] = a
	s.codes[a.data.JoinCode] = a
	s.metrics.allocations.Inc()
	s.logger.Debug("created allocation", "allocation", a.data.AllocationID, "code", a.data.JoinCode)
	return a.data, nil
}

// Lookup returns the client ticket for the allocation behind joinCode.
func (s *Server) Lookup(joinCode string) (ServerData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.codes[strings.ToUpper(joinCode)]
	if !ok {
		return ServerData{}, false
	}
	return ServerData{
		Endpoint:     a.data.Endpoint,
		AllocationID: a.data.AllocationID,
		JoinCode:     a.data.JoinCode,
		Region:       a.data.Region,
	}, true
}

// Release drops an allocation and disconnects its host.
func (s *Server) Release(allocationID string) {
	s.mu.Lock()
	a, ok := s.allocations[allocationID]
	var host quic.Connection
	if ok {
		host = a.host
		delete(s.allocations, allocationID)
		delete(s.codes, a.data.JoinCode)
		s.metrics.allocations.Dec()
	}
	s.mu.Unlock()

	if host != nil {
		_ = host.CloseWithError(0, "allocation released")
	}
}

// Close stops accepting connections and disconnects every bound host.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	listener := s.listener
	var hosts []quic.Connection
	for _, a := range s.allocations {
		if a.host != nil {
			hosts = append(hosts, a.host)
		}
	}
	s.mu.Unlock()

	for _, host := range hosts {
		_ = host.CloseWithError(0, "relay closed")
	}

	if listener == nil {
		return nil
	}
	return listener.Close()
}

func (s *Server) handle(ctx context.Context, c quic.Connection) {
	stream, err := c.AcceptStream(ctx)
	if err != nil {
		_ = c.CloseWithError(0, "no handshake")
		s.logger.Debug("failed to accept handshake stream", "addr", c.RemoteAddr(), "err", err)
		return
	}

	conn := newConn(stream)
	_ = stream.SetReadDeadline(time.Now().Add(handshakeTimeout))
	pk, err := conn.readPacket()
	_ = stream.SetReadDeadline(time.Time{})
	if err != nil {
		_ = c.CloseWithError(0, "bad handshake")
		s.logger.Debug("failed to read handshake", "addr", c.RemoteAddr(), "err", err)
		return
	}

	switch pk := pk.(type) {
	case *packet.Bind:
		s.bind(c, stream, conn, pk)
	case *packet.Join:
		s.join(ctx, c, stream, conn, pk)
	default:
		s.refuse(c, stream, conn, packet.ResponseFail)
	}
}

func (s *Server) bind(c quic.Connection, stream quic.Stream, conn *conn, pk *packet.Bind) {
	s.mu.Lock()
	a, ok := s.allocations[pk.AllocationID]
	response := uint8(packet.ResponseSuccess)
	switch {
	case !ok:
		response = packet.ResponseUnknownAllocation
	case subtle.ConstantTimeCompare(a.data.Key, pk.Key) != 1:
		response = packet.ResponseUnauthorized
	case a.host != nil:
		response = packet.ResponseFail
	default:
		a.host = c
		s.metrics.hosts.Inc()
	}
	s.mu.Unlock()

	if response != packet.ResponseSuccess {
		s.refuse(c, stream, conn, response)
		s.logger.Debug("refused bind", "allocation", pk.AllocationID, "addr", c.RemoteAddr(), "response", response)
		return
	}

	defer s.unbind(a, c)
	if err := conn.writePacket(&packet.Response{Response: packet.ResponseSuccess}); err != nil {
		_ = c.CloseWithError(0, "bind failed")
		s.logger.Error("failed to acknowledge bind", "allocation", pk.AllocationID, "err", err)
		return
	}

	s.logger.Info("host bound allocation", "allocation", pk.AllocationID, "addr", c.RemoteAddr())
	<-c.Context().Done()
	s.logger.Info("host left allocation", "allocation", pk.AllocationID, "addr", c.RemoteAddr())
}

func (s *Server) unbind(a *allocation, c quic.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.host == c {
		a.host = nil
		s.metrics.hosts.Dec()
	}
}

func (s *Server) join(ctx context.Context, c quic.Connection, client quic.Stream, conn *conn, pk *packet.Join) {
	s.mu.Lock()
	a, ok := s.codes[strings.ToUpper(pk.JoinCode)]
	var host quic.Connection
	if ok {
		host = a.host
	}
	s.mu.Unlock()

	if !ok {
		s.refuse(c, client, conn, packet.ResponseUnknownAllocation)
		return
	}

	if host == nil {
		s.refuse(c, client, conn, packet.ResponseHostUnavailable)
		return
	}

	upstream, err := host.OpenStreamSync(ctx)
	if err != nil {
		s.refuse(c, client, conn, packet.ResponseHostUnavailable)
		s.logger.Error("failed to open host stream", "allocation", a.data.AllocationID, "err", err)
		return
	}

	if err := newConn(upstream).writePacket(&packet.Incoming{Addr: c.RemoteAddr().String()}); err != nil {
		upstream.CancelRead(0)
		_ = upstream.Close()
		s.refuse(c, client, conn, packet.ResponseHostUnavailable)
		s.logger.Error("failed to announce client", "allocation", a.data.AllocationID, "err", err)
		return
	}

	if err := conn.writePacket(&packet.Response{Response: packet.ResponseSuccess}); err != nil {
		upstream.CancelRead(0)
		_ = upstream.Close()
		_ = c.CloseWithError(0, "join failed")
		return
	}

	s.logger.Debug("spliced client", "allocation", a.data.AllocationID, "addr", c.RemoteAddr())
	s.splice(client, upstream)
	s.linger(c)
	s.logger.Debug("closed circuit", "allocation", a.data.AllocationID, "addr", c.RemoteAddr())
}

func (s *Server) splice(client, host quic.Stream) {
	s.metrics.circuits.Inc()
	defer s.metrics.circuits.Dec()

	var g errgroup.Group
	g.Go(s.pipe(host, client))
	g.Go(s.pipe(client, host))
	if err := g.Wait(); err != nil {
		s.logger.Debug("circuit ended with error", "err", err)
	}
}

func (s *Server) pipe(dst, src quic.Stream) func() error {
	return func() error {
		n, err := io.Copy(dst, src)
		s.metrics.relayed.Add(float64(n))
		_ = dst.Close()
		src.CancelRead(0)
		return err
	}
}

// refuse answers a handshake with a failure and gives the peer a moment to read it before the
// connection is torn down.
func (s *Server) refuse(c quic.Connection, stream quic.Stream, conn *conn, response uint8) {
	_ = conn.writePacket(&packet.Response{Response: response})
	_ = stream.Close()
	s.linger(c)
}

func (s *Server) linger(c quic.Connection) {
	select {
	case <-c.Context().Done():
	case <-time.After(lingerTimeout):
	}
	_ = c.CloseWithError(0, "")
}

func (s *Server) newJoinCode() string {
	for {
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:joinCodeLength])
		if _, ok := s.codes[code]; !ok {
			return code
		}
	}
}
