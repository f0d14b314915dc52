package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownEvent      = errors.New("unknown booking event")
)

type Event string

const (
	EventQuoteAccepted    Event = "quote_accepted"
	EventPaymentConfirmed Event = "payment_confirmed"
	EventPaymentSucceeded Event = "payment_succeeded"
	EventCheckIn          Event = "check_in"
	EventCheckOut         Event = "check_out"
	EventCancel           Event = "cancel"
	EventRefund           Event = "refund"
)

func ParseEvent(s string) (Event, error) {
	switch ev := Event(s); ev {
	case EventQuoteAccepted, EventPaymentConfirmed, EventPaymentSucceeded,
		EventCheckIn, EventCheckOut, EventCancel, EventRefund:
		return ev, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

type transition struct {
	from  models.BookingStatus
	event Event
}

var transitions = map[transition]models.BookingStatus{
	{models.StatusInquiry, EventQuoteAccepted}:           models.StatusPendingPayment,
	{models.StatusPendingPayment, EventPaymentConfirmed}: models.StatusConfirmed,
	{models.StatusPendingPayment, EventPaymentSucceeded}: models.StatusConfirmed,
	{models.StatusConfirmed, EventCheckIn}:               models.StatusCheckedIn,
	{models.StatusCheckedIn, EventCheckOut}:              models.StatusCheckedOut,
	{models.StatusInquiry, EventCancel}:                  models.StatusCancelled,
	{models.StatusPendingPayment, EventCancel}:           models.StatusCancelled,
	{models.StatusConfirmed, EventCancel}:                models.StatusCancelled,
	{models.StatusConfirmed, EventRefund}:                models.StatusRefunded,
	{models.StatusCheckedIn, EventRefund}:                models.StatusRefunded,
	{models.StatusCheckedOut, EventRefund}:               models.StatusRefunded,
}

// eventOrder keeps Allowed deterministic.
var eventOrder = []Event{
	EventQuoteAccepted, EventPaymentConfirmed, EventPaymentSucceeded,
	EventCheckIn, EventCheckOut, EventCancel, EventRefund,
}

// Outcome describes what Apply did to a booking.
type Outcome struct {
	From    models.BookingStatus
	To      models.BookingStatus
	Changed bool
}

// CanApply reports whether ev is legal from status.
func CanApply(status models.BookingStatus, ev Event) bool {
	_, ok := transitions[transition{status, ev}]
	return ok
}

// Allowed lists the events accepted in the given status.
func Allowed(status models.BookingStatus) []Event {
	var out []Event
	for _, ev := range eventOrder {
		if CanApply(status, ev) {
			out = append(out, ev)
		}
	}
	return out
}

// Terminal reports whether no forward stay transition leaves status. A checked-out
// booking can still be refunded.
func Terminal(status models.BookingStatus) bool {
	switch status {
	case models.StatusCheckedOut, models.StatusCancelled, models.StatusRefunded:
		return true
	}
	return false
}

// Apply moves b through ev and writes the side effects of the transition onto b.
// Checking in a booking that is already checked in is a no-op and keeps the original
// checked_in_at.
func Apply(b *models.Booking, ev Event, now time.Time) (Outcome, error) {
	from := b.Status

	if ev == EventCheckIn && from == models.StatusCheckedIn {
		return Outcome{From: from, To: from}, nil
	}

	to, ok := transitions[transition{from, ev}]
	if !ok {
		return Outcome{From: from, To: from}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, ev, from)
	}

	switch ev {
	case EventPaymentConfirmed, EventPaymentSucceeded:
		invoice := "INV-" + b.BookingRef
		b.InvoiceNo = &invoice
		b.PaymentStatus = models.PaymentCompleted
	case EventCheckIn:
		t := now
		b.CheckedInAt = &t
	case EventCheckOut:
		t := now
		b.CheckedOutAt = &t
	case EventCancel:
		if b.PaymentStatus.Settled() {
			b.PaymentStatus = models.PaymentRefunded
		}
	}

	b.Status = to
	return Outcome{From: from, To: to, Changed: true}, nil
}
