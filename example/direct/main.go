package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cooldogedev/netbridge"
	"github.com/cooldogedev/netbridge/manager"
	"github.com/cooldogedev/netbridge/session"
)

func main() {
	config := flag.String("config", "", "path to a netbridge yaml config")
	flag.Parse()

	logger := slog.Default()
	opts := netbridge.DefaultOpts()
	if *config != "" {
		loaded, err := netbridge.LoadOpts(*config)
		if err != nil {
			logger.Error("failed to load config", "err", err)
			return
		}
		opts = loaded
	}

	// Handlers created without a transport use the main manager's.
	m := manager.New(logger, opts.Transport, nil)
	manager.SetMain(m)
	defer m.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	service := session.NewService(logger, nil)
	options, err := opts.Apply(session.NewOptions("Direct Example", 8), nil)
	if err != nil {
		logger.Error("failed to configure session", "err", err)
		return
	}

	host, err := service.CreateSession(ctx, options)
	if err != nil {
		return
	}
	defer host.Leave(context.Background())

	logger.Info("hosting session", "code", host.Code(), "addr", host.NetworkConfiguration().DirectNetworkPublishAddress)
	<-ctx.Done()
}
