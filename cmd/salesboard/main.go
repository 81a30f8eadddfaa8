package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aevon-lab/salesboard/internal/cache"
	"github.com/aevon-lab/salesboard/internal/core/aggregation"
	corecfg "github.com/aevon-lab/salesboard/internal/core/config"
	"github.com/aevon-lab/salesboard/internal/core/storage"
	"github.com/aevon-lab/salesboard/internal/core/storage/sqlstore"
	"github.com/aevon-lab/salesboard/internal/migrations"
	"github.com/aevon-lab/salesboard/internal/report"
	"github.com/aevon-lab/salesboard/internal/server"
	"github.com/aevon-lab/salesboard/internal/source"
)

func main() {
	configPath := flag.String("config", "salesboard.yaml", "Path to configuration file")
	flag.Parse()

	// 0. Bootstrap logger until the configured one is known
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	// 1. Load Configuration
	cfg, err := corecfg.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// 1.1. Configure Logger
	slog.SetDefault(newLogger(cfg.Logging))
	slog.Info("Loaded config",
		"source_root", cfg.Source.Root,
		"database_enabled", cfg.Database.Enabled,
		"database_type", cfg.Database.Type,
		"cache_ttl", cfg.Cache.TTLDuration(),
		"branches", len(cfg.Branches.Branches()),
		"branch_table_fingerprint", cfg.Branches.Fingerprint)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Storage (optional durable tier)
	var store storage.RecordStore
	var health server.HealthChecker
	if cfg.Database.Enabled {
		dbAdapter, err := sqlstore.NewAdapter(
			cfg.Database.Type,
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
		if err := migrations.RunMigrations(dbAdapter.DB(), dbAdapter.Driver(), cfg.Database.AutoMigrate); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		if err := dbAdapter.ValidateSchema(ctx); err != nil {
			slog.Error("Database schema is not usable", "error", err)
			os.Exit(1)
		}

		store = dbAdapter
		health = dbAdapter
	} else {
		slog.Info("Durable store disabled by config")
	}

	// 3. Initialize Source Directory
	dir := source.NewDirectory(cfg.Source.Root, cfg.Source.Extensions)

	// 4. Initialize Cache Manager
	opts := cache.Options{
		TTL:     cfg.Cache.TTLDuration(),
		Workers: cfg.Source.Workers,
	}
	if cfg.Cache.SnapshotEnabled {
		opts.SnapshotPath = cfg.Cache.SnapshotPath
	}
	manager := cache.NewManager(dir, store, opts)

	// 4.1. Restore Snapshot
	restored, err := manager.RestoreSnapshot(ctx)
	if err != nil {
		slog.Warn("Failed to restore cache snapshot, starting cold", "error", err)
	} else {
		slog.Info("Cache snapshot restored", "datasets", restored)
	}

	// 5. Initialize Aggregation Engine
	engine := aggregation.NewEngine(cfg.Aggregation.Limits, cfg.Branches)

	// 6. Initialize Summary Cache
	summaries := cache.NewSummaryCache(cfg.Cache.SummaryCapacity, cfg.Cache.TTLDuration())
	manager.OnRefresh(summaries.Clear)

	// 7. Initialize Report Service (query API)
	reportSvc := report.NewService(manager, engine, summaries)

	// 8. Initialize Server
	srv := server.New(fmtAddr(cfg.Server.Host, cfg.Server.Port), health, cfg.Server.Mode, cfg.Server.ShutdownTimeoutDuration())
	reportSvc.RegisterRoutes(srv.Engine)

	// 9. Start Services
	scheduler := cache.NewRefreshScheduler(cfg.Cache.RefreshEvery(), manager)
	go func() {
		if err := scheduler.Start(ctx); err != nil {
			slog.Error("Refresh scheduler stopped with error", "error", err)
		}
	}()

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func newLogger(cfg corecfg.LoggingConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
