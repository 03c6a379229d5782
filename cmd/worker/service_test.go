package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	catalogconsumer "github.com/angelmondragon/wayfarer-backend/internal/consumers/catalog"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/mq"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubInvalidator struct{ calls int }

func (s *stubInvalidator) Invalidate(context.Context, enums.BookingType, uuid.UUID) error {
	s.calls++
	return nil
}

type memoryMarker struct{ keys map[string]bool }

func (m *memoryMarker) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if m.keys[key] {
		return false, nil
	}
	m.keys[key] = true
	return true, nil
}

func (m *memoryMarker) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.keys, k)
	}
	return nil
}

func (m *memoryMarker) IdempotencyKey(scope, id string) string { return scope + ":" + id }

// replaySource hands each delivery to the handler once, then behaves like a canceled consumer.
type replaySource struct {
	deliveries []amqp.Delivery
	outcomes   []mq.Outcome
	err        error
}

func (r *replaySource) Run(ctx context.Context, h mq.Handler) error {
	for _, d := range r.deliveries {
		r.outcomes = append(r.outcomes, h(ctx, d))
	}
	return r.err
}

func newTestService(t *testing.T, redis pinger, source *replaySource, cache *stubInvalidator) *Service {
	t.Helper()
	consumer, err := catalogconsumer.NewConsumer(cache, &memoryMarker{keys: map[string]bool{}}, logger.Nop())
	if err != nil {
		t.Fatalf("consumer: %v", err)
	}
	svc, err := NewService(ServiceParams{
		Logger:          logger.Nop(),
		Redis:           redis,
		Deliveries:      source,
		CatalogConsumer: consumer,
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc
}

func catalogDelivery(t *testing.T, eventID uuid.UUID) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(catalogconsumer.ChangedEvent{
		EventID:    eventID,
		Kind:       enums.BookingTypePackage,
		ID:         uuid.New(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return amqp.Delivery{RoutingKey: mq.RoutingCatalogUpdated, Body: body}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatalf("expected missing logger error")
	}
	if _, err := NewService(ServiceParams{Logger: logger.Nop(), Redis: stubPinger{}}); err == nil {
		t.Fatalf("expected missing consumer error")
	}
}

func TestServiceRunDeduplicatesRedeliveries(t *testing.T) {
	eventID := uuid.New()
	delivery := catalogDelivery(t, eventID)
	source := &replaySource{
		deliveries: []amqp.Delivery{delivery, delivery},
		err:        context.Canceled,
	}
	cache := &stubInvalidator{}

	if err := newTestService(t, stubPinger{}, source, cache).Run(context.Background()); err != nil {
		t.Fatalf("expected clean shutdown, got %v", err)
	}
	if cache.calls != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.calls)
	}
	if len(source.outcomes) != 2 || source.outcomes[0] != mq.Ack || source.outcomes[1] != mq.Ack {
		t.Fatalf("unexpected outcomes %v", source.outcomes)
	}
}

func TestServiceRunStopsWhenRedisIsDown(t *testing.T) {
	source := &replaySource{}
	err := newTestService(t, stubPinger{err: errors.New("down")}, source, &stubInvalidator{}).Run(context.Background())
	if err == nil {
		t.Fatalf("expected readiness failure")
	}
}

func TestServiceRunReportsConsumerFailure(t *testing.T) {
	source := &replaySource{err: errors.New("channel closed")}
	err := newTestService(t, stubPinger{}, source, &stubInvalidator{}).Run(context.Background())
	if err == nil {
		t.Fatalf("expected consumer error")
	}
}
