package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tablechat/tablechat/internal/config"
	"github.com/tablechat/tablechat/internal/demo/seeder"
	"github.com/tablechat/tablechat/internal/store"
	mongostore "github.com/tablechat/tablechat/internal/store/mongo"
	pgstore "github.com/tablechat/tablechat/internal/store/postgres"
)

func main() {
	seedCfg, err := seeder.LoadConfigFromEnv(os.LookupEnv)
	if err != nil {
		slog.Error("failed to load seed config", slog.Any("error", err))
		os.Exit(1)
	}
	cfg, err := config.LoadFromEnv("tablechat-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var writer store.RowWriter
	switch cfg.Store.Backend {
	case "postgres":
		db, err := pgstore.Open(ctx, pgstore.Config{
			DSN:             cfg.Store.Postgres.DSN,
			MaxOpenConns:    cfg.Store.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Store.Postgres.MaxIdleConns,
			ConnMaxIdleTime: cfg.Store.Postgres.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Store.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open postgres store", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		writer = pgstore.NewStore(db)
	default:
		mg, err := mongostore.Open(ctx, mongostore.Config{
			URI:      cfg.Store.Mongo.URI,
			Database: cfg.Store.Mongo.Database,
			Timeout:  cfg.Store.Mongo.Timeout,
		})
		if err != nil {
			logger.Error("failed to open mongo store", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = mg.Close(context.Background()) }()
		writer = mg
	}

	logger.Info(
		"seeding demo items",
		slog.String("backend", cfg.Store.Backend),
		slog.String("table", seedCfg.Table),
		slog.Int("count", seedCfg.Count),
		slog.Int("batch_size", seedCfg.BatchSize),
	)

	if err := seeder.Run(ctx, writer, seedCfg, logger); err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		os.Exit(1)
	}
}
