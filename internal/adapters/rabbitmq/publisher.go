package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher owns a lazily established broker connection and channel, cached
// across calls and rebuilt whenever the cached connection reports closed.
// Concurrent publishes serialize on the shared channel; this is a deliberate
// simplification, not a throughput optimization.
type Publisher struct {
	logger   *slog.Logger
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(logger *slog.Logger, url, exchange string) *Publisher {
	return &Publisher{logger: logger, url: url, exchange: exchange}
}

// Publish sends the payload as a persistent JSON message. It is called only
// after the corresponding authoritative write has committed; a failure here
// propagates to the caller and does not roll that commit back.
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	err := p.ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         payload,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "event publish failed",
			"module", "rabbitmq.publisher",
			"layer", "adapter",
			"operation", "publish",
			"outcome", "failure",
			"routing_key", routingKey,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.InfoContext(ctx, "event published",
		"module", "rabbitmq.publisher",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"routing_key", routingKey,
		"payload_bytes", len(payload),
	)
	return nil
}

// ensureChannel reuses the cached connection and channel when both are
// still open, and otherwise dials anew and re-declares the exchange.
// Callers must hold p.mu.
func (p *Publisher) ensureChannel() error {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.teardown()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if err := declareExchange(ch, p.exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) teardown() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the cached connection; used at process shutdown only.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teardown()
	return nil
}
