package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventApplier applies a delivered event to the derived store. A nil return
// acknowledges the message; any error negative-acknowledges it without
// requeue, permanently dropping it.
type EventApplier interface {
	Apply(ctx context.Context, routingKey string, body []byte) error
}

// Consumer is the long-running subscriber on the bound device-events queue.
// It processes deliveries one at a time within the configured prefetch
// window. Broker setup failures are fatal and surface to the caller; restart
// is left to process supervision.
type Consumer struct {
	logger   *slog.Logger
	url      string
	topology Topology
	prefetch int
	applier  EventApplier
}

func NewConsumer(logger *slog.Logger, url string, topology Topology, prefetch int, applier EventApplier) *Consumer {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &Consumer{logger: logger, url: url, topology: topology, prefetch: prefetch, applier: applier}
}

// Run blocks consuming deliveries until the context is cancelled or the
// broker connection drops. In-flight unacknowledged messages are returned to
// the queue by the broker on disconnect.
func (c *Consumer) Run(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := c.topology.Declare(ch); err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}
	deliveries, err := ch.ConsumeWithContext(ctx, c.topology.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consume on %s: %w", c.topology.Queue, err)
	}
	c.logger.InfoContext(ctx, "consumer started",
		"module", "rabbitmq.consumer",
		"layer", "adapter",
		"operation", "run",
		"queue", c.topology.Queue,
		"prefetch", c.prefetch,
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("delivery channel closed by broker")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery runs the per-message state machine: decode and apply, then
// ack; any failure nacks without requeue so a bad message never blocks the
// queue.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	if err := c.applier.Apply(ctx, d.RoutingKey, d.Body); err != nil {
		c.logger.ErrorContext(ctx, "event dropped",
			"module", "rabbitmq.consumer",
			"layer", "adapter",
			"operation", "handle_delivery",
			"outcome", "failure",
			"routing_key", d.RoutingKey,
			"error", err,
		)
		if nackErr := d.Nack(false, false); nackErr != nil {
			c.logger.WarnContext(ctx, "nack failed", "routing_key", d.RoutingKey, "error", nackErr)
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		c.logger.WarnContext(ctx, "ack failed", "routing_key", d.RoutingKey, "error", ackErr)
	}
}
