package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/wayfarer-backend/internal/catalog"
	catalogconsumer "github.com/angelmondragon/wayfarer-backend/internal/consumers/catalog"
	"github.com/angelmondragon/wayfarer-backend/pkg/config"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/mq"
	"github.com/angelmondragon/wayfarer-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "worker",
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Events.Enabled() {
		logg.Warn(ctx, "no AMQP url configured, worker has nothing to consume")
		return
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	deliveries, err := mq.NewConsumer(
		cfg.Events.AMQPURL,
		cfg.Events.CatalogExchange,
		cfg.Events.CatalogQueue,
		"wayfarer-worker",
		catalogconsumer.Bindings(),
		cfg.Events.Prefetch,
	)
	if err != nil {
		logg.Error(ctx, "failed to connect amqp consumer", err)
		os.Exit(1)
	}
	defer func() {
		if err := deliveries.Close(); err != nil {
			logg.Error(context.Background(), "error closing amqp consumer", err)
		}
	}()

	// only the cache half of the catalog service is needed here
	cache := catalog.NewService(nil, redisClient, cfg.Catalog.CacheTTL, logg)
	consumer, err := catalogconsumer.NewConsumer(cache, redisClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create catalog consumer", err)
		os.Exit(1)
	}

	svc, err := NewService(ServiceParams{
		Logger:          logg,
		Redis:           redisClient,
		Deliveries:      deliveries,
		CatalogConsumer: consumer,
	})
	if err != nil {
		logg.Error(ctx, "failed to create worker service", err)
		os.Exit(1)
	}

	logg.Info(logg.WithField(ctx, "queue", cfg.Events.CatalogQueue), "starting worker")
	if err := svc.Run(ctx); err != nil {
		logg.Error(ctx, "worker stopped", err)
		os.Exit(1)
	}
	logg.Info(ctx, "worker shutting down gracefully")
}
