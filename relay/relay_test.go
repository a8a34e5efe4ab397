package relay

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, region string, metrics *Metrics) *Server {
	t.Helper()

	opts := DefaultOpts()
	opts.Addr = "127.0.0.1:0"
	opts.Region = region
	s := NewServer(nil, opts, metrics)
	require.NoError(t, s.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		_ = s.Close()
	})
	return s
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)
	return ctx
}

func TestRelaySplicesClientToHost(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	s := newTestServer(t, "eu", metrics)
	service := NewService(nil, s)
	ctx := testContext(t)

	hostData, err := service.Allocate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "eu", hostData.Region)
	assert.NotEmpty(t, hostData.Key)
	assert.Len(t, hostData.JoinCode, joinCodeLength)

	listener, err := Listen(ctx, hostData, nil)
	require.NoError(t, err)
	defer listener.Close()

	clientData, err := service.Join(ctx, hostData.JoinCode)
	require.NoError(t, err)
	assert.Empty(t, clientData.Key)
	assert.Equal(t, hostData.Endpoint, clientData.Endpoint)

	client, err := Dial(ctx, clientData)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)

	stream, addr, err := listener.Accept()
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, "relay", addr.Network())

	buf := make([]byte, 4)
	_, err = io.ReadFull(stream, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))

	_, err = stream.Write([]byte("pong"))
	require.NoError(t, err)
	_, err = io.ReadFull(client, buf)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(buf))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.allocations.WithLabelValues("eu")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.hosts.WithLabelValues("eu")))
}

func TestJoinWithoutHost(t *testing.T) {
	s := newTestServer(t, "eu", nil)
	ctx := testContext(t)

	hostData, err := s.Allocate()
	require.NoError(t, err)

	clientData, ok := s.Lookup(hostData.JoinCode)
	require.True(t, ok)

	_, err = Dial(ctx, clientData)
	assert.ErrorIs(t, err, ErrHostUnavailable)
}

func TestJoinUnknownCode(t *testing.T) {
	s := newTestServer(t, "eu", nil)
	ctx := testContext(t)

	_, err := Dial(ctx, ServerData{Endpoint: s.Endpoint(), JoinCode: "NOPE00"})
	assert.ErrorIs(t, err, ErrUnknownAllocation)
}

func TestBindRequiresKey(t *testing.T) {
	s := newTestServer(t, "eu", nil)
	ctx := testContext(t)

	hostData, err := s.Allocate()
	require.NoError(t, err)

	forged := hostData
	forged.Key = []byte("not the key")
	_, err = Listen(ctx, forged, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	listener, err := Listen(ctx, hostData, nil)
	require.NoError(t, err)
	defer listener.Close()

	// A second host cannot take over a bound allocation.
	_, err = Listen(ctx, hostData, nil)
	assert.ErrorIs(t, err, ErrHandshakeFailed)
}

func TestServiceRegions(t *testing.T) {
	eu := newTestServer(t, "eu", nil)
	us := newTestServer(t, "us", nil)
	service := NewService(nil, us, eu)
	ctx := testContext(t)

	assert.Equal(t, []string{"eu", "us"}, service.Regions())

	data, err := service.Allocate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "us", data.Region)

	data, err = service.Allocate(ctx, "eu")
	require.NoError(t, err)
	assert.Equal(t, "eu", data.Region)
	assert.Equal(t, eu.Endpoint(), data.Endpoint)

	_, err = service.Allocate(ctx, "ap")
	assert.ErrorIs(t, err, ErrUnknownRegion)

	_, err = NewService(nil).Allocate(ctx, "")
	assert.ErrorIs(t, err, ErrNoRegions)
}

func TestServiceRelease(t *testing.T) {
	s := newTestServer(t, "eu", nil)
	service := NewService(nil, s)
	ctx := testContext(t)

	data, err := service.Allocate(ctx, "eu")
	require.NoError(t, err)

	service.Release(data)
	_, err = service.Join(ctx, data.JoinCode)
	assert.ErrorIs(t, err, ErrUnknownAllocation)
}

func TestMaxAllocations(t *testing.T) {
	opts := DefaultOpts()
	opts.Addr = "127.0.0.1:0"
	opts.MaxAllocations = 1
	s := NewServer(nil, opts, nil)
	require.NoError(t, s.Listen())
	defer s.Close()

	_, err := s.Allocate()
	require.NoError(t, err)
	_, err = s.Allocate()
	assert.ErrorIs(t, err, ErrTooManyAllocations)
}

func TestAllocateBeforeListen(t *testing.T) {
	_, err := NewServer(nil, nil, nil).Allocate()
	assert.ErrorIs(t, err, ErrNotListening)
}

func TestEndpointWhileListening(t *testing.T) {
	opts := DefaultOpts()
	opts.Addr = "127.0.0.1:0"
	s := NewServer(nil, opts, nil)
	t.Cleanup(func() { _ = s.Close() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			_ = s.Endpoint()
		}
	}()
	require.NoError(t, s.Listen())
	<-done
	assert.NotEmpty(t, s.Endpoint())
}
