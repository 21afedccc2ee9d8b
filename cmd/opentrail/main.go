package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	corecfg "github.com/opentrail-lab/opentrail/internal/core/config"
	"github.com/opentrail-lab/opentrail/internal/core/storage/postgres"
	"github.com/opentrail-lab/opentrail/internal/ingestion"
	"github.com/opentrail-lab/opentrail/internal/migrations"
	"github.com/opentrail-lab/opentrail/internal/realtime"
	"github.com/opentrail-lab/opentrail/internal/server"
)

func main() {
	configPath := flag.String("config", "opentrail.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config", "config", cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Storage (PostgreSQL)
	dbAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbAdapter.Close()

	// 2.1. Run Database Migrations
	if err := migrations.RunMigrations(dbAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// 3. Initialize Broadcast Transport (Redis pub/sub)
	broadcaster, err := realtime.NewRedisBroadcaster(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Error("Failed to initialize redis broadcaster", "error", err)
		os.Exit(1)
	}
	defer broadcaster.Close()

	// 4. Initialize Ingestion (validate, persist, broadcast)
	ingestionSvc := ingestion.NewService(dbAdapter, broadcaster, cfg.Server.MaxBodySizeKB)

	// 5. Initialize Realtime stream (SSE over the broadcast topics)
	streamSvc := realtime.NewStreamService(broadcaster)

	// 6. Initialize Server
	srv := server.New(cfg.Server.Addr(), dbAdapter.DB(), cfg.Server.Mode, cfg.Server.TrackerAsset)
	ingestionSvc.RegisterRoutes(srv.Engine)
	streamSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	g, gctx := errgroup.WithContext(ctx)

	// Signal handler triggers the shutdown sequence below.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case <-quit:
			slog.Info("Signal received, shutting down...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	// HTTP server blocks until ctx is cancelled.
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}
