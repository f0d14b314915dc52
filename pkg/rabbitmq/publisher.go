package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	BookingsExchange = "bookings"
	ExchangeKind     = "topic"

	publishTimeout = 5 * time.Second
)

type Publisher struct {
	mu sync.Mutex
	link
}

func NewPublisher(url string) (*Publisher, error) {
	l, err := dial(url, func(ch *amqp.Channel) error {
		return declareExchange(ch, BookingsExchange)
	})
	if err != nil {
		return nil, err
	}
	return &Publisher{link: l}, nil
}

func (p *Publisher) Publish(routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(
		ctx,
		BookingsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.Printf("[RabbitMQ] published to %s/%s: %s", BookingsExchange, routingKey, string(body))
	return nil
}
