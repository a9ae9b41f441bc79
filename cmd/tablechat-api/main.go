package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tablechat/tablechat/internal/api"
	"github.com/tablechat/tablechat/internal/auth"
	"github.com/tablechat/tablechat/internal/cache"
	"github.com/tablechat/tablechat/internal/catalog"
	"github.com/tablechat/tablechat/internal/config"
	"github.com/tablechat/tablechat/internal/nl2sql"
	"github.com/tablechat/tablechat/internal/observability"
	"github.com/tablechat/tablechat/internal/store"
	mongostore "github.com/tablechat/tablechat/internal/store/mongo"
	pgstore "github.com/tablechat/tablechat/internal/store/postgres"
	"github.com/tablechat/tablechat/internal/translator"
	"github.com/tablechat/tablechat/internal/voice"
)

func main() {
	cfg, err := config.LoadFromEnv("tablechat-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	var (
		dataStore   store.Store
		storeHealth api.ReadinessCheck
	)
	switch cfg.Store.Backend {
	case "postgres":
		db, err := pgstore.Open(context.Background(), pgstore.Config{
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
		pg := pgstore.NewStore(db)
		dataStore = pg
		storeHealth = pg.HealthCheck
	default:
		mg, err := mongostore.Open(context.Background(), mongostore.Config{
			URI:      cfg.Store.Mongo.URI,
			Database: cfg.Store.Mongo.Database,
			Timeout:  cfg.Store.Mongo.Timeout,
		})
		if err != nil {
			logger.Error("failed to open mongo store", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = mg.Close(context.Background()) }()
		dataStore = mg
		storeHealth = mg.HealthCheck
	}

	var queryCache cache.Cache
	switch cfg.Cache.Backend {
	case "redis":
		redisCache := cache.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.Prefix)
		defer func() { _ = redisCache.Close() }()
		queryCache = redisCache
	default:
		queryCache = cache.NewMemory()
	}

	tables := catalog.New(catalog.TableDef{
		Name:    cfg.Chat.Table,
		Columns: cfg.ChatColumns(),
	})

	var (
		chatTranslator nl2sql.Translator
		explainer      nl2sql.Explainer
	)
	if cfg.AI.Enabled {
		client, err := nl2sql.NewOpenAIClient(nl2sql.OpenAIConfig{
			BaseURL:     cfg.AI.BaseURL,
			APIKey:      cfg.AI.APIKey,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize translator", slog.Any("error", err))
			os.Exit(1)
		}
		chatTranslator = nl2sql.NewCachingTranslator(client, queryCache, cfg.Cache.TTL, tables.Fingerprint(), logger)
		explainer = client
	}

	var caller voice.Caller
	if cfg.Voice.Enabled {
		caller, err = voice.NewGatewayCaller(voice.GatewayConfig{
			BaseURL:  cfg.Voice.BaseURL,
			APIKey:   cfg.Voice.APIKey,
			CallerID: cfg.Voice.CallerID,
			Timeout:  cfg.Voice.Timeout,
		})
		if err != nil {
			logger.Error("failed to initialize voice gateway", slog.Any("error", err))
			os.Exit(1)
		}
	}

	deps := api.Dependencies{
		Logger:  logger,
		Catalog: tables,
		Runner: &translator.Runner{
			Store:   dataStore,
			Catalog: tables,
			Logger:  logger,
		},
		Translator: chatTranslator,
		Explainer:  explainer,
		Voice:      caller,
		MaxRows:    cfg.Chat.MaxRows,
		Readiness: api.CombineReadinessChecks(
			api.CheckStoreConfig(cfg),
			storeHealth,
		),
		DependencyTimeout: time.Second,
	}
	if cfg.RateLimit.Enabled {
		deps.RateLimiter = api.NewRateLimiter(cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
