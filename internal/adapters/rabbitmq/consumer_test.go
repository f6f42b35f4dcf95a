package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeAcknowledger struct {
	acked       bool
	nacked      bool
	nackRequeue bool
}

func (f *fakeAcknowledger) Ack(_ uint64, _ bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacked = true
	f.nackRequeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	f.nacked = true
	f.nackRequeue = requeue
	return nil
}

type applierFunc func(ctx context.Context, routingKey string, body []byte) error

func (f applierFunc) Apply(ctx context.Context, routingKey string, body []byte) error {
	return f(ctx, routingKey, body)
}

func testConsumer(applier EventApplier) *Consumer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	topology := Topology{Exchange: "device-exchange", Queue: "device-events-queue", Binding: "devices.*"}
	return NewConsumer(logger, "amqp://localhost", topology, 1, applier)
}

func TestHandleDeliveryAcksOnSuccess(t *testing.T) {
	t.Parallel()

	var gotKey string
	consumer := testConsumer(applierFunc(func(_ context.Context, routingKey string, _ []byte) error {
		gotKey = routingKey
		return nil
	}))
	ack := &fakeAcknowledger{}
	consumer.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "devices.created",
		Body:         []byte(`{"id":1,"name":"a","type":"b"}`),
	})

	if gotKey != "devices.created" {
		t.Fatalf("expected applier called with routing key, got %q", gotKey)
	}
	if !ack.acked || ack.nacked {
		t.Fatalf("expected ack without nack, got ack=%v nack=%v", ack.acked, ack.nacked)
	}
}

func TestHandleDeliveryNacksWithoutRequeueOnFailure(t *testing.T) {
	t.Parallel()

	consumer := testConsumer(applierFunc(func(context.Context, string, []byte) error {
		return errors.New("malformed event")
	}))
	ack := &fakeAcknowledger{}
	consumer.handleDelivery(context.Background(), amqp.Delivery{
		Acknowledger: ack,
		RoutingKey:   "devices.created",
		Body:         []byte(`not json`),
	})

	if ack.acked {
		t.Fatalf("expected no ack on failure")
	}
	if !ack.nacked {
		t.Fatalf("expected nack on failure")
	}
	if ack.nackRequeue {
		t.Fatalf("expected nack without requeue; the message must be dropped")
	}
}

func TestNewConsumerDefaultsPrefetch(t *testing.T) {
	t.Parallel()

	consumer := testConsumer(applierFunc(func(context.Context, string, []byte) error { return nil }))
	if consumer.prefetch != 1 {
		t.Fatalf("expected prefetch 1, got %d", consumer.prefetch)
	}
	zero := NewConsumer(consumer.logger, "amqp://localhost", consumer.topology, 0, consumer.applier)
	if zero.prefetch != 1 {
		t.Fatalf("expected zero prefetch to default to 1, got %d", zero.prefetch)
	}
}
