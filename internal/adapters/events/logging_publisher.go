package events

import (
	"context"
	"log/slog"
)

// LoggingPublisher stands in for the broker publisher when event publishing
// is disabled by configuration; events are logged and discarded.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.InfoContext(ctx, "event published",
		"module", "events.logging_publisher",
		"layer", "adapter",
		"operation", "publish",
		"outcome", "success",
		"routing_key", routingKey,
		"payload_bytes", len(payload),
	)
	return nil
}
