// Package availability answers which bookings touch a day or a range of days. It backs the
// calendar, the arrivals and departures boards, and the guest dashboard.
package availability

import (
	"strings"
	"time"

	"github.com/lekhyo/booking-service/internal/lifecycle"
	"github.com/lekhyo/booking-service/internal/models"
)

func matchProperty(b models.Booking, propertyID *uint) bool {
	return propertyID == nil || b.PropertyID == *propertyID
}

func filter(bookings []models.Booking, keep func(models.Booking) bool) []models.Booking {
	out := make([]models.Booking, 0)
	for _, b := range bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// On returns bookings with check_in ≤ day ≤ check_out. The check-out day counts so that
// departures show up on the board.
func On(bookings []models.Booking, day time.Time, propertyID *uint) []models.Booking {
	d := models.Day(day)
	return filter(bookings, func(b models.Booking) bool {
		return matchProperty(b, propertyID) &&
			!models.Day(b.CheckInDate).After(d) &&
			!models.Day(b.CheckOutDate).Before(d)
	})
}

// InRange returns bookings whose stay overlaps [from, to], both ends inclusive.
func InRange(bookings []models.Booking, from, to time.Time, propertyID *uint) []models.Booking {
	f, t := models.Day(from), models.Day(to)
	return filter(bookings, func(b models.Booking) bool {
		return matchProperty(b, propertyID) &&
			!models.Day(b.CheckInDate).After(t) &&
			!models.Day(b.CheckOutDate).Before(f)
	})
}

// Arrivals are bookings due to check in on day that are confirmed or still awaiting payment.
func Arrivals(bookings []models.Booking, day time.Time, propertyID *uint) []models.Booking {
	d := models.Day(day)
	return filter(bookings, func(b models.Booking) bool {
		return matchProperty(b, propertyID) &&
			models.Day(b.CheckInDate).Equal(d) &&
			(b.Status == models.StatusConfirmed || b.Status == models.StatusPendingPayment)
	})
}

// Departures are checked-in bookings due to leave on day.
func Departures(bookings []models.Booking, day time.Time, propertyID *uint) []models.Booking {
	d := models.Day(day)
	return filter(bookings, func(b models.Booking) bool {
		return matchProperty(b, propertyID) &&
			models.Day(b.CheckOutDate).Equal(d) &&
			b.Status == models.StatusCheckedIn
	})
}

func Active(bookings []models.Booking, propertyID *uint) []models.Booking {
	return filter(bookings, func(b models.Booking) bool {
		return matchProperty(b, propertyID) &&
			(b.Status == models.StatusConfirmed || b.Status == models.StatusCheckedIn)
	})
}

// Upcoming returns stays starting after today that can still happen.
func Upcoming(bookings []models.Booking, now time.Time) []models.Booking {
	today := models.Day(now)
	return filter(bookings, func(b models.Booking) bool {
		return models.Day(b.CheckInDate).After(today) && !lifecycle.Terminal(b.Status)
	})
}

// Past returns stays that ended before today or that can no longer happen.
func Past(bookings []models.Booking, now time.Time) []models.Booking {
	today := models.Day(now)
	return filter(bookings, func(b models.Booking) bool {
		return models.Day(b.CheckOutDate).Before(today) || lifecycle.Terminal(b.Status)
	})
}

// Search matches the query against guest name, booking ref and guest email, ignoring case.
func Search(bookings []models.Booking, query string) []models.Booking {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return bookings
	}
	return filter(bookings, func(b models.Booking) bool {
		return strings.Contains(strings.ToLower(b.GuestName), q) ||
			strings.Contains(strings.ToLower(b.BookingRef), q) ||
			strings.Contains(strings.ToLower(b.GuestEmail), q)
	})
}

func WithStatus(bookings []models.Booking, status models.BookingStatus) []models.Booking {
	return filter(bookings, func(b models.Booking) bool { return b.Status == status })
}
