package rabbitmq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// link is one connection with a single channel on it, shared by the publisher and the consumer.
type link struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// dial connects and runs declare on the new channel. Nothing is left open on failure.
func dial(url string, declare func(ch *amqp.Channel) error) (link, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return link{}, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return link{}, fmt.Errorf("rabbitmq channel: %w", err)
	}
	l := link{conn: conn, channel: ch}
	if err := declare(ch); err != nil {
		l.Close()
		return link{}, err
	}
	return l, nil
}

func (l link) Close() {
	if l.channel != nil {
		l.channel.Close()
	}
	if l.conn != nil {
		l.conn.Close()
	}
}

func declareExchange(ch *amqp.Channel, name string) error {
	if err := ch.ExchangeDeclare(name, ExchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq exchange declare %s: %w", name, err)
	}
	return nil
}
