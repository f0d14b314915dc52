package rabbitmq

import (
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Payment gateway confirmations arrive on the payments exchange as payment.<outcome>.
const (
	PaymentsExchange = "payments"
	PaymentsQueue    = "booking-service.payments"
	PaymentsBinding  = "payment.*"
)

type Consumer struct {
	link
}

func NewConsumer(url string) (*Consumer, error) {
	l, err := dial(url, declarePayments)
	if err != nil {
		return nil, err
	}
	return &Consumer{link: l}, nil
}

// declarePayments sets up a durable queue bound to every payment outcome. Prefetch is
// one so confirmations are applied in delivery order.
func declarePayments(ch *amqp.Channel) error {
	if err := declareExchange(ch, PaymentsExchange); err != nil {
		return err
	}
	q, err := ch.QueueDeclare(PaymentsQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}
	if err := ch.QueueBind(q.Name, PaymentsBinding, PaymentsExchange, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue bind: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("rabbitmq qos: %w", err)
	}
	return nil
}

// Consume starts delivery with manual acks; the payment consumer acks after applying.
func (c *Consumer) Consume() (<-chan amqp.Delivery, error) {
	msgs, err := c.channel.Consume(PaymentsQueue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq consume: %w", err)
	}
	log.Printf("[RabbitMQ] consuming %s from %s via %s", PaymentsBinding, PaymentsExchange, PaymentsQueue)
	return msgs, nil
}
