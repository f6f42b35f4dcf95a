package ports

import "context"

// EventPublisher publishes a serialized domain event under a routing key
// drawn from the fixed devices.* set. Called only after the corresponding
// authoritative write has committed; a publish failure propagates to the
// caller and does not roll the commit back.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
}
