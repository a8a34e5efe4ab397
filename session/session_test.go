package session

import (
	"context"
	"errors"
	"testing"

	"github.com/cooldogedev/netbridge/relay"
	"github.com/cooldogedev/netbridge/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	starts  []NetworkConfiguration
	stops   int
	port    uint16
	failure error
}

func (h *fakeHandler) Start(_ context.Context, cfg *NetworkConfiguration) error {
	if h.failure != nil {
		return h.failure
	}

	if cfg.Type == NetworkTypeDirect && cfg.Role != RoleClient && cfg.DirectNetworkListenAddress.Port == 0 {
		cfg.UpdatePublishPort(h.port)
	}
	h.starts = append(h.starts, *cfg)
	return nil
}

func (h *fakeHandler) Stop(context.Context) error {
	h.stops++
	return nil
}

type fakeRelay struct {
	released []relay.ServerData
}

func (r *fakeRelay) Allocate(_ context.Context, region string) (relay.ServerData, error) {
	if region == "" {
		region = "eu"
	}
	return relay.ServerData{
		Endpoint:     "127.0.0.1:19200",
		AllocationID: "allocation",
		JoinCode:     "ABC123",
		Key:          []byte("key"),
		Region:       region,
	}, nil
}

func (r *fakeRelay) Join(_ context.Context, joinCode string) (relay.ServerData, error) {
	if joinCode != "ABC123" {
		return relay.ServerData{}, relay.ErrUnknownAllocation
	}
	return relay.ServerData{Endpoint: "127.0.0.1:19200", AllocationID: "allocation", JoinCode: joinCode, Region: "eu"}, nil
}

func (r *fakeRelay) Release(data relay.ServerData) {
	r.released = append(r.released, data)
}

func TestDirectNetworkOptionsValidation(t *testing.T) {
	_, err := NewDirectNetworkOptions("127.0.0.1", "127.0.0.1", 70000)
	assert.ErrorIs(t, err, ErrInvalidPort)

	_, err = NewDirectNetworkOptions("127.0.0.1", "127.0.0.1", -1)
	assert.ErrorIs(t, err, ErrInvalidPort)

	_, err = NewDirectNetworkOptions("localhost", "127.0.0.1", 7777)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	opts, err := NewDirectNetworkOptions("0.0.0.0", "::1", 7777)
	require.NoError(t, err)
	assert.Equal(t, transport.Endpoint{Address: "0.0.0.0", Port: 7777}, opts.ListenAddress)
	assert.Equal(t, transport.Endpoint{Address: "::1", Port: 7777}, opts.PublishAddress)
}

func TestOptionsKeepNetworkOnError(t *testing.T) {
	opts := NewOptions("lobby", 4)
	_, err := opts.WithRelayNetwork("eu")
	require.NoError(t, err)

	same, err := opts.WithDirectNetwork("bad", DefaultPublishIP, 0)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Same(t, opts, same)

	typ, ok := opts.NetworkType()
	assert.True(t, ok)
	assert.Equal(t, NetworkTypeRelay, typ)

	_, err = opts.WithRelayNetworkOptions(RelayNetworkOptions{Protocol: 9})
	assert.ErrorIs(t, err, ErrUnknownRelayProtocol)
}

func TestCreateDirectSessionUpdatesPort(t *testing.T) {
	service := NewService(nil, nil)
	handler := &fakeHandler{port: 40000}

	opts, err := NewOptions("lobby", 2).WithDirectNetwork(DefaultListenIP, DefaultPublishIP, 0)
	require.NoError(t, err)

	host, err := service.CreateSession(context.Background(), opts.WithNetworkHandler(handler))
	require.NoError(t, err)
	assert.Equal(t, RoleHost, host.Role())
	assert.Equal(t, uint16(40000), host.NetworkConfiguration().DirectNetworkPublishAddress.Port)
	assert.Equal(t, 1, host.PlayerCount())
	assert.Same(t, host, service.Registry().GetSession(host.ID()))
	assert.Same(t, host, service.Registry().GetSessionByCode(host.Code()))

	clientHandler := &fakeHandler{port: 1}
	client, err := service.JoinSessionByCode(context.Background(), host.Code(), (&JoinOptions{}).WithNetworkHandler(clientHandler))
	require.NoError(t, err)
	assert.Equal(t, RoleClient, client.Role())
	require.Len(t, clientHandler.starts, 1)
	assert.Equal(t, transport.Endpoint{Address: DefaultPublishIP, Port: 40000}, clientHandler.starts[0].DirectNetworkPublishAddress)
	assert.Equal(t, 2, host.PlayerCount())

	_, err = service.JoinSessionByID(context.Background(), host.ID(), (&JoinOptions{}).WithNetworkHandler(&fakeHandler{}))
	assert.ErrorIs(t, err, ErrSessionFull)

	require.NoError(t, client.Leave(context.Background()))
	require.NoError(t, client.Leave(context.Background()))
	assert.Equal(t, 1, clientHandler.stops)
	assert.Equal(t, 1, host.PlayerCount())

	require.NoError(t, host.Leave(context.Background()))
	assert.Equal(t, 1, handler.stops)
	assert.Nil(t, service.Registry().GetSession(host.ID()))
}

func TestCreateRelaySession(t *testing.T) {
	relayService := &fakeRelay{}
	service := NewService(nil, relayService)
	handler := &fakeHandler{}

	opts, err := NewOptions("lobby", 0).WithRelayNetwork("")
	require.NoError(t, err)

	server, err := service.CreateServerSession(context.Background(), opts.WithNetworkHandler(handler))
	require.NoError(t, err)
	assert.Equal(t, "ABC123", server.Code())
	assert.Equal(t, 0, server.PlayerCount())
	require.Len(t, handler.starts, 1)
	assert.Equal(t, []byte("key"), handler.starts[0].RelayServerData.Key)
	assert.True(t, handler.starts[0].RelayClientData.IsZero())

	clientHandler := &fakeHandler{}
	_, err = service.JoinSessionByCode(context.Background(), "abc123", (&JoinOptions{}).WithNetworkHandler(clientHandler))
	require.NoError(t, err)
	require.Len(t, clientHandler.starts, 1)
	assert.Equal(t, "ABC123", clientHandler.starts[0].RelayClientData.JoinCode)
	assert.True(t, clientHandler.starts[0].RelayServerData.IsZero())

	require.NoError(t, server.Leave(context.Background()))
	require.Len(t, relayService.released, 1)
	assert.Equal(t, "allocation", relayService.released[0].AllocationID)
}

func TestCreateSessionFailures(t *testing.T) {
	service := NewService(nil, nil)

	opts, err := NewOptions("lobby", 0).WithRelayNetwork("eu")
	require.NoError(t, err)
	_, err = service.CreateSession(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoNetworkHandler)

	_, err = service.CreateSession(context.Background(), opts.WithNetworkHandler(&fakeHandler{}))
	assert.ErrorIs(t, err, ErrRelayUnavailable)

	relayService := &fakeRelay{}
	service = NewService(nil, relayService)
	boom := errors.New("boom")
	_, err = service.CreateSession(context.Background(), opts.WithNetworkHandler(&fakeHandler{failure: boom}))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, relayService.released, 1)
	assert.Empty(t, service.Registry().GetSessions())

	_, err = service.JoinSessionByID(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionWithoutNetwork(t *testing.T) {
	service := NewService(nil, nil)
	opts := NewOptions("offline", 0)
	opts.Properties["mode"] = "coop"

	host, err := service.CreateSession(context.Background(), opts)
	require.NoError(t, err)
	assert.Nil(t, host.NetworkConfiguration())
	assert.Equal(t, "coop", host.Properties()["mode"])

	client, err := service.JoinSessionByID(context.Background(), host.ID(), nil)
	require.NoError(t, err)
	assert.Equal(t, RoleClient, client.Role())
	require.NoError(t, client.Leave(context.Background()))
	require.NoError(t, host.Leave(context.Background()))
}

func TestNetworkTypeUnmarshal(t *testing.T) {
	var typ NetworkType
	require.NoError(t, typ.UnmarshalText([]byte("Distributed_Authority")))
	assert.Equal(t, NetworkTypeDistributedAuthority, typ)
	assert.Error(t, typ.UnmarshalText([]byte("p2p")))
	assert.Equal(t, "Host", RoleHost.String())
}

func TestSharedCodeSurvivesOtherSessionLeaving(t *testing.T) {
	service := NewService(nil, &fakeRelay{})

	opts, err := NewOptions("first", 0).WithRelayNetwork("eu")
	require.NoError(t, err)
	first, err := service.CreateServerSession(context.Background(), opts.WithNetworkHandler(&fakeHandler{}))
	require.NoError(t, err)

	opts, err = NewOptions("second", 0).WithRelayNetwork("us")
	require.NoError(t, err)
	second, err := service.CreateServerSession(context.Background(), opts.WithNetworkHandler(&fakeHandler{}))
	require.NoError(t, err)
	require.Equal(t, first.Code(), second.Code())

	require.NoError(t, first.Leave(context.Background()))
	assert.Same(t, second, service.Registry().GetSessionByCode(second.Code()))
	assert.Same(t, second, service.Registry().GetSession(second.ID()))
}
