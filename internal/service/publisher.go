package service

import "log"

// Publisher delivers domain events to the message broker. *rabbitmq.Publisher satisfies it.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// publish is best-effort: the database is the source of truth and a broker outage must
// not fail a booking that was already committed.
func publish(p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(routingKey, payload); err != nil {
		log.Printf("[Publisher] failed to publish %s: %v", routingKey, err)
	}
}
