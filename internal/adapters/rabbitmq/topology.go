package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Topology is the broker contract shared by publisher and consumer: one
// durable topic exchange and one durable queue bound with a wildcard
// pattern. Both sides declare it on start with identical flags so repeated
// declaration stays idempotent.
type Topology struct {
	Exchange string
	Queue    string
	Binding  string
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

// Declare sets up the full consumer-side topology: exchange, queue and
// binding.
func (t Topology) Declare(ch *amqp.Channel) error {
	if err := declareExchange(ch, t.Exchange); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(t.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", t.Queue, err)
	}
	if err := ch.QueueBind(t.Queue, t.Binding, t.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s to %s with %s: %w", t.Queue, t.Exchange, t.Binding, err)
	}
	return nil
}
