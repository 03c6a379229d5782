package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/mq"
)

const (
	consumerScope = "consumer:catalog-cache"
	processedTTL  = 24 * time.Hour
)

// ChangedEvent is published by catalog administration whenever a package or
// destination is edited or removed.
type ChangedEvent struct {
	EventID    uuid.UUID         `json:"eventId"`
	Kind       enums.BookingType `json:"kind"`
	ID         uuid.UUID         `json:"id"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type invalidator interface {
	Invalidate(ctx context.Context, kind enums.BookingType, id uuid.UUID) error
}

type processedMarker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Consumer drops cached catalog entries when the catalog changes, so quotes
// never price against a stale copy for longer than delivery takes.
type Consumer struct {
	cache  invalidator
	marker processedMarker
	logg   *logger.Logger
}

func NewConsumer(cache invalidator, marker processedMarker, logg *logger.Logger) (*Consumer, error) {
	if cache == nil {
		return nil, fmt.Errorf("catalog invalidator required")
	}
	if marker == nil {
		return nil, fmt.Errorf("idempotency marker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{cache: cache, marker: marker, logg: logg}, nil
}

// Bindings are the routing keys the consumer queue listens on.
func Bindings() []string {
	return []string{mq.RoutingCatalogUpdated, mq.RoutingCatalogDeleted}
}

// Handle is the mq.Handler for catalog change deliveries.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) mq.Outcome {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id":  d.MessageId,
		"routing_key": d.RoutingKey,
	})

	if d.RoutingKey != mq.RoutingCatalogUpdated && d.RoutingKey != mq.RoutingCatalogDeleted {
		c.logg.Info(logCtx, "skipping non-catalog event")
		return mq.Ack
	}

	var event ChangedEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		c.logg.Error(logCtx, "failed to decode catalog event", err)
		return mq.Drop
	}
	if err := event.validate(); err != nil {
		c.logg.Error(logCtx, "invalid catalog event", err)
		return mq.Drop
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"event_id":     event.EventID.String(),
		"catalog_kind": event.Kind.String(),
		"catalog_id":   event.ID.String(),
	})

	key := c.marker.IdempotencyKey(consumerScope, event.EventID.String())
	first, err := c.marker.SetNX(ctx, key, d.RoutingKey, processedTTL)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return mq.Requeue
	}
	if !first {
		c.logg.Info(logCtx, "event already processed")
		return mq.Ack
	}

	if err := c.cache.Invalidate(ctx, event.Kind, event.ID); err != nil {
		c.logg.Error(logCtx, "failed to invalidate catalog entry", err)
		if delErr := c.marker.Del(ctx, key); delErr != nil {
			c.logg.Error(logCtx, "failed to release idempotency key", delErr)
		}
		return mq.Requeue
	}

	c.logg.Info(logCtx, "catalog cache entry invalidated")
	return mq.Ack
}

func (e ChangedEvent) validate() error {
	if e.EventID == uuid.Nil {
		return fmt.Errorf("event id missing")
	}
	if e.Kind != enums.BookingTypePackage && e.Kind != enums.BookingTypeDestination {
		return fmt.Errorf("unsupported catalog kind %q", e.Kind)
	}
	if e.ID == uuid.Nil {
		return fmt.Errorf("catalog id missing")
	}
	return nil
}
