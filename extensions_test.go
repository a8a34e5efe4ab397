package netbridge

import (
	"testing"

	"github.com/cooldogedev/netbridge/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithHandlerReturnsSameOptions(t *testing.T) {
	opts := session.NewOptions("lobby", 4)
	h := NewNetworkHandlerWithProviders(nil, nil)

	assert.Same(t, opts, WithHandler(opts, h))
	assert.Same(t, h, opts.NetworkHandler())

	join := &session.JoinOptions{}
	assert.Same(t, join, WithHandler(join, nil))
	assert.IsType(t, &NetworkHandler{}, join.NetworkHandler())
}

func TestWithDirect(t *testing.T) {
	opts := session.NewOptions("lobby", 4)
	h := NewNetworkHandlerWithProviders(nil, nil)

	out, err := WithDirect(opts, session.DefaultListenIP, session.DefaultPublishIP, 0, h)
	require.NoError(t, err)
	assert.Same(t, opts, out)
	assert.Same(t, h, opts.NetworkHandler())

	typ, ok := opts.NetworkType()
	require.True(t, ok)
	assert.Equal(t, session.NetworkTypeDirect, typ)
}

func TestWithDirectErrorLeavesHandlerUnset(t *testing.T) {
	opts := session.NewOptions("lobby", 4)

	out, err := WithDirect(opts, "not-an-ip", session.DefaultPublishIP, 0, nil)
	assert.ErrorIs(t, err, session.ErrInvalidAddress)
	assert.Same(t, opts, out)
	assert.Nil(t, opts.NetworkHandler())

	_, err = WithDirectOptions(opts, session.DirectNetworkOptions{}, nil)
	assert.ErrorIs(t, err, session.ErrInvalidAddress)
	assert.Nil(t, opts.NetworkHandler())
}

func TestWithRelay(t *testing.T) {
	opts := session.NewOptions("lobby", 4)

	out, err := WithRelay(opts, "eu", nil)
	require.NoError(t, err)
	assert.Same(t, opts, out)
	assert.NotNil(t, opts.NetworkHandler())

	typ, _ := opts.NetworkType()
	assert.Equal(t, session.NetworkTypeRelay, typ)

	_, err = WithRelayOptions(session.NewOptions("lobby", 4), session.RelayNetworkOptions{Protocol: 42}, nil)
	assert.ErrorIs(t, err, session.ErrUnknownRelayProtocol)

	out, err = WithRelayOptions(opts, session.RelayNetworkOptions{Protocol: session.RelayProtocolQUIC}, nil)
	require.NoError(t, err)
	assert.Same(t, opts, out)
}
