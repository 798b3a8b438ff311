package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bundledraw/bundledraw-backend/api/routes"
	"github.com/bundledraw/bundledraw-backend/internal/allocation"
	"github.com/bundledraw/bundledraw-backend/internal/inventory"
	"github.com/bundledraw/bundledraw-backend/internal/quotes"
	"github.com/bundledraw/bundledraw-backend/pkg/config"
	"github.com/bundledraw/bundledraw-backend/pkg/db"
	"github.com/bundledraw/bundledraw-backend/pkg/env"
	"github.com/bundledraw/bundledraw-backend/pkg/logger"
	"github.com/bundledraw/bundledraw-backend/pkg/metrics"
	"github.com/bundledraw/bundledraw-backend/pkg/migrate"
	"github.com/bundledraw/bundledraw-backend/pkg/outbox"
	"github.com/bundledraw/bundledraw-backend/pkg/redis"
	"github.com/bundledraw/bundledraw-backend/pkg/square"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap square client", err)
		os.Exit(1)
	}

	margin, err := cfg.Pricing.Margin()
	if err != nil {
		logg.Error(context.Background(), "invalid pricing config", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	allocMetrics := metrics.NewAllocationMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	inventoryRepo := inventory.NewRepository(dbClient.DB())

	inventoryService, err := inventory.NewService(dbClient, inventoryRepo, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	allocationService, err := allocation.NewService(
		dbClient,
		allocation.NewRepository(dbClient.DB()),
		inventoryRepo,
		squareClient,
		outboxService,
		allocMetrics,
		logg,
		nil,
		allocation.Config{
			Margin:        margin,
			FallbackCents: cfg.Pricing.FallbackPriceCents,
			MaxRetries:    cfg.Allocation.MaxRetries,
		},
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create allocation service", err)
		os.Exit(1)
	}

	quoteService, err := quotes.NewService(inventoryRepo, allocMetrics, logg, margin, cfg.Pricing.FallbackPriceCents)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, quoteService, allocationService, inventoryService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
