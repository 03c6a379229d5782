package mq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	closed   bool
}

func (c *recordingChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return nil
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublishJSON(t *testing.T) {
	ch := &recordingChannel{}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pub := &Publisher{ch: ch, exchange: "wayfarer.bookings", now: func() time.Time { return fixed }}

	if err := pub.PublishJSON(context.Background(), RoutingBookingSubmitted, map[string]any{"booking_id": "b-1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if ch.exchange != "wayfarer.bookings" || ch.key != RoutingBookingSubmitted {
		t.Fatalf("unexpected routing %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.ContentType != "application/json" || ch.msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected publishing headers %+v", ch.msg)
	}
	if !ch.msg.Timestamp.Equal(fixed) {
		t.Fatalf("unexpected timestamp %v", ch.msg.Timestamp)
	}
	var body map[string]string
	if err := json.Unmarshal(ch.msg.Body, &body); err != nil || body["booking_id"] != "b-1" {
		t.Fatalf("unexpected body %s err=%v", ch.msg.Body, err)
	}

	if err := pub.Close(); err != nil || !ch.closed {
		t.Fatalf("expected channel to close, err=%v", err)
	}
}

func TestPublishJSONRejectsUnencodable(t *testing.T) {
	pub := &Publisher{ch: &recordingChannel{}, now: time.Now}
	if err := pub.PublishJSON(context.Background(), "k", make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
