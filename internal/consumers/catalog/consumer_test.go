package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/mq"
)

type fakeInvalidator struct {
	calls []uuid.UUID
	err   error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, _ enums.BookingType, id uuid.UUID) error {
	f.calls = append(f.calls, id)
	return f.err
}

type fakeMarker struct {
	seen    map[string]bool
	setErr  error
	deleted []string
}

func newFakeMarker() *fakeMarker {
	return &fakeMarker{seen: map[string]bool{}}
}

func (f *fakeMarker) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeMarker) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.seen, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeMarker) IdempotencyKey(scope, id string) string {
	return scope + ":" + id
}

func mustConsumer(t *testing.T, cache *fakeInvalidator, marker *fakeMarker) *Consumer {
	t.Helper()
	consumer, err := NewConsumer(cache, marker, logger.New(logger.Options{
		ServiceName: "catalog-consumer-test",
		Level:       logger.ParseLevel("debug"),
		Output:      io.Discard,
	}))
	if err != nil {
		t.Fatalf("failed to build consumer: %v", err)
	}
	return consumer
}

func delivery(t *testing.T, key string, event any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return amqp.Delivery{RoutingKey: key, Body: body, MessageId: "m-1"}
}

func TestCatalogConsumerInvalidatesEntry(t *testing.T) {
	cache := &fakeInvalidator{}
	consumer := mustConsumer(t, cache, newFakeMarker())

	id := uuid.New()
	event := ChangedEvent{EventID: uuid.New(), Kind: enums.BookingTypePackage, ID: id, OccurredAt: time.Now()}
	if got := consumer.Handle(context.Background(), delivery(t, mq.RoutingCatalogUpdated, event)); got != mq.Ack {
		t.Fatalf("expected ack, got %v", got)
	}
	if len(cache.calls) != 1 || cache.calls[0] != id {
		t.Fatalf("expected invalidation of %s, got %v", id, cache.calls)
	}
}

func TestCatalogConsumerIsIdempotent(t *testing.T) {
	cache := &fakeInvalidator{}
	consumer := mustConsumer(t, cache, newFakeMarker())

	event := ChangedEvent{EventID: uuid.New(), Kind: enums.BookingTypeDestination, ID: uuid.New()}
	d := delivery(t, mq.RoutingCatalogDeleted, event)
	consumer.Handle(context.Background(), d)
	if got := consumer.Handle(context.Background(), d); got != mq.Ack {
		t.Fatalf("expected redelivery to be acked, got %v", got)
	}
	if len(cache.calls) != 1 {
		t.Fatalf("expected a single invalidation, got %d", len(cache.calls))
	}
}

func TestCatalogConsumerRequeuesAndReleasesOnFailure(t *testing.T) {
	cache := &fakeInvalidator{err: errors.New("redis down")}
	marker := newFakeMarker()
	consumer := mustConsumer(t, cache, marker)

	event := ChangedEvent{EventID: uuid.New(), Kind: enums.BookingTypePackage, ID: uuid.New()}
	if got := consumer.Handle(context.Background(), delivery(t, mq.RoutingCatalogUpdated, event)); got != mq.Requeue {
		t.Fatalf("expected requeue, got %v", got)
	}
	if len(marker.deleted) != 1 {
		t.Fatalf("expected idempotency key release on failure")
	}
}

func TestCatalogConsumerRequeuesWhenMarkerFails(t *testing.T) {
	cache := &fakeInvalidator{}
	marker := newFakeMarker()
	marker.setErr = errors.New("redis timeout")
	consumer := mustConsumer(t, cache, marker)

	event := ChangedEvent{EventID: uuid.New(), Kind: enums.BookingTypePackage, ID: uuid.New()}
	if got := consumer.Handle(context.Background(), delivery(t, mq.RoutingCatalogUpdated, event)); got != mq.Requeue {
		t.Fatalf("expected requeue, got %v", got)
	}
	if len(cache.calls) != 0 {
		t.Fatalf("cache should not be touched before the event is marked")
	}
}

func TestCatalogConsumerDropsMalformedEvents(t *testing.T) {
	cache := &fakeInvalidator{}
	consumer := mustConsumer(t, cache, newFakeMarker())

	tests := []struct {
		name string
		d    amqp.Delivery
	}{
		{"bad json", amqp.Delivery{RoutingKey: mq.RoutingCatalogUpdated, Body: []byte("{nope")}},
		{"missing event id", delivery(t, mq.RoutingCatalogUpdated, ChangedEvent{Kind: enums.BookingTypePackage, ID: uuid.New()})},
		{"custom kind", delivery(t, mq.RoutingCatalogUpdated, ChangedEvent{EventID: uuid.New(), Kind: enums.BookingTypeCustom, ID: uuid.New()})},
		{"missing id", delivery(t, mq.RoutingCatalogUpdated, ChangedEvent{EventID: uuid.New(), Kind: enums.BookingTypePackage})},
	}
	for _, tt := range tests {
		if got := consumer.Handle(context.Background(), tt.d); got != mq.Drop {
			t.Fatalf("%s: expected drop, got %v", tt.name, got)
		}
	}
	if len(cache.calls) != 0 {
		t.Fatalf("malformed events must not invalidate anything")
	}
}

func TestCatalogConsumerSkipsOtherKeys(t *testing.T) {
	cache := &fakeInvalidator{}
	consumer := mustConsumer(t, cache, newFakeMarker())

	if got := consumer.Handle(context.Background(), amqp.Delivery{RoutingKey: mq.RoutingBookingSubmitted, Body: []byte(`{}`)}); got != mq.Ack {
		t.Fatalf("expected ack for unrelated key, got %v", got)
	}
	if len(cache.calls) != 0 {
		t.Fatalf("unrelated events must not invalidate anything")
	}
}

func TestNewConsumerRequiresCollaborators(t *testing.T) {
	if _, err := NewConsumer(nil, newFakeMarker(), logger.Nop()); err == nil {
		t.Fatalf("expected missing invalidator to fail")
	}
	if _, err := NewConsumer(&fakeInvalidator{}, nil, logger.Nop()); err == nil {
		t.Fatalf("expected missing marker to fail")
	}
}
