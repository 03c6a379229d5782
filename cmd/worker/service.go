package main

import (
	"context"
	"errors"
	"fmt"

	catalogconsumer "github.com/angelmondragon/wayfarer-backend/internal/consumers/catalog"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/mq"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type deliverySource interface {
	Run(ctx context.Context, h mq.Handler) error
}

type ServiceParams struct {
	Logger          *logger.Logger
	Redis           pinger
	Deliveries      deliverySource
	CatalogConsumer *catalogconsumer.Consumer
}

// Service runs the catalog cache invalidation consumer.
type Service struct {
	logg       *logger.Logger
	redis      pinger
	deliveries deliverySource
	consumer   *catalogconsumer.Consumer
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.Deliveries == nil {
		return nil, errors.New("amqp consumer is required")
	}
	if params.CatalogConsumer == nil {
		return nil, errors.New("catalog consumer is required")
	}
	return &Service{
		logg:       params.Logger,
		redis:      params.Redis,
		deliveries: params.Deliveries,
		consumer:   params.CatalogConsumer,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	if err := s.redis.Ping(ctx); err != nil {
		s.logg.Error(ctx, "redis ping failed", err)
		return fmt.Errorf("redis ping failed: %w", err)
	}
	s.logg.Info(ctx, "worker dependencies are ready")
	return nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}
	err := s.deliveries.Run(ctx, s.consumer.Handle)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logg.Error(ctx, "consumer stopped unexpectedly", err)
		return err
	}
	s.logg.Info(ctx, "worker context canceled")
	return nil
}
