package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/wayfarer-backend/api/routes"
	"github.com/angelmondragon/wayfarer-backend/internal/bookingapi"
	"github.com/angelmondragon/wayfarer-backend/internal/catalog"
	"github.com/angelmondragon/wayfarer-backend/internal/pricing"
	"github.com/angelmondragon/wayfarer-backend/internal/quote"
	"github.com/angelmondragon/wayfarer-backend/internal/validation"
	"github.com/angelmondragon/wayfarer-backend/internal/wizard"
	"github.com/angelmondragon/wayfarer-backend/pkg/config"
	"github.com/angelmondragon/wayfarer-backend/pkg/db"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/metrics"
	"github.com/angelmondragon/wayfarer-backend/pkg/migrate"
	"github.com/angelmondragon/wayfarer-backend/pkg/mq"
	"github.com/angelmondragon/wayfarer-backend/pkg/redis"
)

const (
	sessionSweepInterval = time.Minute
	shutdownTimeout      = 10 * time.Second
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
		Environment: cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
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

	loc, err := cfg.Booking.Location()
	if err != nil {
		logg.Error(ctx, "invalid booking timezone", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	catalogService := catalog.NewService(catalog.NewRepository(dbClient.DB()), redisClient, cfg.Catalog.CacheTTL, logg)
	quoteService := quote.NewService(
		catalogService,
		pricing.NewCalculator(pricing.ConfigFrom(cfg.Pricing)),
		validation.NewEngine(validation.WithLocation(loc)),
		bookingMetrics,
		logg,
	)

	bookingClient, err := bookingapi.NewClient(
		cfg.BookingAPI.BaseURL,
		bookingapi.WithToken(cfg.BookingAPI.Token),
		bookingapi.WithTimeout(cfg.BookingAPI.Timeout),
	)
	if err != nil {
		logg.Error(ctx, "failed to create booking api client", err)
		os.Exit(1)
	}

	var publisher mq.JSONPublisher = mq.Noop{}
	if cfg.Events.Enabled() {
		amqpPublisher, err := mq.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			logg.Error(ctx, "failed to connect event publisher", err)
			os.Exit(1)
		}
		defer func() {
			if err := amqpPublisher.Close(); err != nil {
				logg.Error(context.Background(), "error closing event publisher", err)
			}
		}()
		publisher = amqpPublisher
	}

	sessions := wizard.NewRegistry(cfg.Booking.SessionTTL, bookingMetrics)
	wizardService, err := wizard.NewService(wizard.ServiceParams{
		Params: wizard.Params{
			Quotes:    quoteService,
			Submitter: bookingClient,
			Publisher: publisher,
			Metrics:   bookingMetrics,
			Logger:    logg,
			Source:    cfg.BookingAPI.Source,
		},
		Registry: sessions,
	})
	if err != nil {
		logg.Error(ctx, "failed to create wizard service", err)
		os.Exit(1)
	}

	go func() {
		if err := sessions.Run(ctx, sessionSweepInterval, logg); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "session sweeper stopped", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, registry, catalogService, quoteService, wizardService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(serverCtx, "shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(serverCtx, "api server shutdown error", err)
	}
	logg.Info(serverCtx, "api server stopped")
}
