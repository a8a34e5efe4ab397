package netbridge

import (
	"context"
	"testing"
	"time"

	"github.com/cooldogedev/netbridge/relay"
	"github.com/cooldogedev/netbridge/session"
	"github.com/cooldogedev/netbridge/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)
	return ctx
}

func receive(t *testing.T, packets <-chan transport.Packet) transport.Packet {
	t.Helper()
	select {
	case pk := <-packets:
		return pk
	case <-time.After(time.Second * 5):
		t.Fatal("timed out waiting for packet")
		return transport.Packet{}
	}
}

func TestDirectSessionOverTCP(t *testing.T) {
	ctx := testContext(t)
	service := session.NewService(nil, nil)

	hostTransport := transport.NewTCP(nil, nil)
	t.Cleanup(func() { _ = hostTransport.Close() })
	opts, err := WithDirect(session.NewOptions("lobby", 4), session.DefaultListenIP, session.DefaultPublishIP, 0, NewNetworkHandler(nil, hostTransport))
	require.NoError(t, err)

	host, err := service.CreateSession(ctx, opts)
	require.NoError(t, err)
	port := host.NetworkConfiguration().DirectNetworkPublishAddress.Port
	assert.NotZero(t, port)
	assert.Equal(t, hostTransport.LocalEndpoint().Port, port)

	clientTransport := transport.NewTCP(nil, nil)
	t.Cleanup(func() { _ = clientTransport.Close() })
	join := WithHandler(&session.JoinOptions{}, NewNetworkHandler(nil, clientTransport))
	client, err := service.JoinSessionByCode(ctx, host.Code(), join)
	require.NoError(t, err)
	assert.Equal(t, 2, host.PlayerCount())

	require.Eventually(t, func() bool { return len(hostTransport.Peers()) == 1 }, time.Second*5, time.Millisecond*10)
	require.NoError(t, clientTransport.Send([]byte("ping")))
	assert.Equal(t, []byte("ping"), receive(t, hostTransport.Packets()).Payload)
	require.NoError(t, hostTransport.Send([]byte("pong")))
	assert.Equal(t, []byte("pong"), receive(t, clientTransport.Packets()).Payload)

	require.NoError(t, client.Leave(ctx))
	require.Eventually(t, func() bool { return len(hostTransport.Peers()) == 0 }, time.Second*5, time.Millisecond*10)
	require.NoError(t, host.Leave(ctx))
	assert.True(t, hostTransport.LocalEndpoint().IsZero())
}

func TestRelaySessionOverQUIC(t *testing.T) {
	ctx := testContext(t)

	relayOpts := relay.DefaultOpts()
	relayOpts.Addr = "127.0.0.1:0"
	relayOpts.Region = "eu"
	relayServer := relay.NewServer(nil, relayOpts, nil)
	require.NoError(t, relayServer.Listen())
	serveCtx, cancel := context.WithCancel(context.Background())
	go func() { _ = relayServer.Serve(serveCtx) }()
	t.Cleanup(func() {
		cancel()
		_ = relayServer.Close()
	})

	service := session.NewService(nil, relay.NewService(nil, relayServer))

	serverTransport := transport.NewQUIC(nil, nil)
	t.Cleanup(func() { _ = serverTransport.Close() })
	opts, err := WithRelay(session.NewOptions("lobby", 0), "", NewNetworkHandler(nil, serverTransport))
	require.NoError(t, err)

	server, err := service.CreateServerSession(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, "eu", server.NetworkConfiguration().RelayServerData.Region)

	clientTransport := transport.NewTCP(nil, nil)
	t.Cleanup(func() { _ = clientTransport.Close() })
	client, err := service.JoinSessionByCode(ctx, server.Code(), WithHandler(&session.JoinOptions{}, NewNetworkHandler(nil, clientTransport)))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(serverTransport.Peers()) == 1 }, time.Second*5, time.Millisecond*10)
	require.NoError(t, clientTransport.Send([]byte("hello through relay")))
	assert.Equal(t, []byte("hello through relay"), receive(t, serverTransport.Packets()).Payload)

	require.NoError(t, client.Leave(ctx))
	require.NoError(t, server.Leave(ctx))

	_, ok := relayServer.Lookup(server.Code())
	assert.False(t, ok)
}
