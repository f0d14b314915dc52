package consumer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	RoutingPaymentSucceeded = "payment.succeeded"

	handleTimeout = 10 * time.Second
)

// PaymentApplier confirms bookings from gateway callbacks. service.BookingService satisfies it.
type PaymentApplier interface {
	ApplyGatewayPayment(ctx context.Context, bookingRef, paymentRef string, amount decimal.Decimal) (*models.Booking, error)
}

type PaymentMessage struct {
	BookingRef       string          `json:"booking_ref"`
	PaymentReference string          `json:"payment_reference"`
	Amount           decimal.Decimal `json:"amount"`
}

type PaymentConsumer struct {
	payments PaymentApplier
}

func NewPaymentConsumer(payments PaymentApplier) *PaymentConsumer {
	return &PaymentConsumer{payments: payments}
}

// Start handles gateway messages until the delivery channel closes. done is closed once
// the last message has been settled.
func (pc *PaymentConsumer) Start(msgs <-chan amqp.Delivery) (done <-chan struct{}) {
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for msg := range msgs {
			pc.handleMessage(msg)
		}
		log.Println("[PaymentConsumer] channel closed, stopping consumer")
	}()
	return finished
}

func (pc *PaymentConsumer) handleMessage(msg amqp.Delivery) {
	if msg.RoutingKey != RoutingPaymentSucceeded {
		log.Printf("[PaymentConsumer] ignoring %s", msg.RoutingKey)
		msg.Ack(false)
		return
	}

	var pm PaymentMessage
	if err := json.Unmarshal(msg.Body, &pm); err != nil {
		log.Printf("[PaymentConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	booking, err := pc.payments.ApplyGatewayPayment(ctx, pm.BookingRef, pm.PaymentReference, pm.Amount)
	if err != nil {
		if service.IsClientError(err) {
			// Redelivery cannot fix a wrong reference, amount or state.
			log.Printf("[PaymentConsumer] rejected payment %s for %s: %v", pm.PaymentReference, pm.BookingRef, err)
			msg.Nack(false, false)
			return
		}
		log.Printf("[PaymentConsumer] failed to apply payment %s for %s: %v", pm.PaymentReference, pm.BookingRef, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[PaymentConsumer] booking %s is %s", booking.BookingRef, booking.Status)
	msg.Ack(false)
}
