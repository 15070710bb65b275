// Command rotor runs the multi-pair ratio rotation bot. It watches the
// price ratio of two volatile assets quoted against a common stable asset
// and rotates capital from the overvalued asset into the undervalued one.
//
// Usage:
//
//	rotor --config config.yaml
//	rotor --setup (interactive config wizard)
//
// Required environment variables:
//
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	The simulate platform needs no credentials.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/rotor/config"
	"github.com/vadiminshakov/rotor/internal"
	"github.com/vadiminshakov/rotor/internal/clients"
	"github.com/vadiminshakov/rotor/internal/setup"
	"github.com/vadiminshakov/rotor/internal/storage/cyclesnapshots"
	"github.com/vadiminshakov/rotor/internal/storage/pairstate"
	"github.com/vadiminshakov/rotor/internal/web"
)

const (
	stateFile   = "state.json"
	snapshotDir = "./wal/cycles"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to yaml config")
	runSetup := flag.Bool("setup", false, "run the interactive config wizard and exit")
	flag.Parse()

	if *runSetup {
		if err := setup.RunTUI(*configPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var client any
	switch conf.Platform {
	case "binance":
		apiKey := os.Getenv("BINANCE_API_KEY")
		apiSecret := os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			logger.Fatal("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		client = clients.NewBinanceClient(apiKey, apiSecret, conf.Testnet)
	case "bybit":
		apiKey := os.Getenv("BYBIT_API_KEY")
		apiSecret := os.Getenv("BYBIT_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			logger.Fatal("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
		}
		client = clients.NewBybitClient(apiKey, apiSecret)
	case "simulate":
		client = clients.NewSimulateClient()
	default:
		logger.Fatal("unsupported platform", zap.String("platform", conf.Platform))
	}

	states, err := pairstate.NewStore(stateFile)
	if err != nil {
		logger.Fatal("failed to open pair state store", zap.Error(err))
	}

	snapshots, err := cyclesnapshots.NewWALStore(snapshotDir)
	if err != nil {
		logger.Fatal("failed to open cycle snapshot store", zap.Error(err))
	}
	defer snapshots.Close()

	rebalancer, err := internal.NewRebalancer(conf, *configPath, client, states, snapshots, logger)
	if err != nil {
		logger.Fatal("failed to create rebalancer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if conf.Listen != "" {
		server := web.NewServer(conf.Listen, snapshots)
		g.Go(func() error {
			if conf.TLSDomain != "" {
				return server.StartWithAutoTLS(gctx, conf.TLSDomain, "")
			}
			return server.Start(gctx)
		})
		logger.Info("dashboard started", zap.String("addr", conf.Listen))
	}

	g.Go(func() error {
		return rebalancer.Run(gctx, conf)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("stopped with error", zap.Error(err))
	}
}
