package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/cooldogedev/netbridge"
	"github.com/cooldogedev/netbridge/relay"
	"github.com/cooldogedev/netbridge/scene"
	"github.com/cooldogedev/netbridge/session"
	"github.com/cooldogedev/netbridge/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := slog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reg := prometheus.NewRegistry()
	relayServer := relay.NewServer(logger, nil, relay.NewMetrics(reg))
	if err := relayServer.Listen(); err != nil {
		return
	}
	defer relayServer.Close()

	go func() {
		if err := relayServer.Serve(ctx); err != nil {
			logger.Error("relay stopped", "err", err)
		}
	}()

	metrics := &http.Server{Addr: ":9100", Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	go func() {
		if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "err", err)
		}
	}()
	defer metrics.Close()

	// Handlers created without a transport find this one in the scene.
	hostTransport := transport.NewQUIC(logger, nil)
	defer scene.Default().Add(hostTransport)()

	service := session.NewService(logger, relay.NewService(logger, relayServer))
	options, err := netbridge.WithRelay(session.NewOptions("Relay Example", 8), "", nil)
	if err != nil {
		return
	}

	host, err := service.CreateSession(ctx, options)
	if err != nil {
		return
	}
	defer host.Leave(context.Background())
	logger.Info("hosting session", "code", host.Code())

	clientTransport := transport.NewTCP(logger, nil)
	join := netbridge.WithHandler(&session.JoinOptions{}, netbridge.NewNetworkHandler(logger, clientTransport))
	client, err := service.JoinSessionByCode(ctx, host.Code(), join)
	if err != nil {
		return
	}
	defer client.Leave(context.Background())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := clientTransport.Send([]byte("ping")); err != nil {
				logger.Error("failed to send", "err", err)
				return
			}
		case pk := <-hostTransport.Packets():
			logger.Info("host received", "peer", pk.Peer, "payload", string(pk.Payload))
		}
	}
}
