package compliance

import (
	"sort"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
)

type Revenue struct {
	Base  int64 `json:"base_total"`
	VAT   int64 `json:"vat_total"`
	Grand int64 `json:"grand_total"`
	Count int   `json:"booking_count"`
}

// RevenueSummary sums stored amounts of realized stays only; pending, inquiry, cancelled
// and refunded bookings never count.
func RevenueSummary(bookings []models.Booking) Revenue {
	var r Revenue
	for _, b := range bookings {
		if !b.Status.Realized() {
			continue
		}
		r.Base += b.BaseAmount
		r.VAT += b.VATAmount
		r.Grand += b.TotalAmount
		r.Count++
	}
	return r
}

func inDays(t, from, to time.Time) bool {
	d := models.Day(t)
	return !d.Before(models.Day(from)) && !d.After(models.Day(to))
}

// RealizedBookings selects the VAT report rows: realized stays whose check-in date falls
// inside [from, to].
func RealizedBookings(bookings []models.Booking, from, to time.Time, propertyID *uint) []models.Booking {
	out := make([]models.Booking, 0)
	for _, b := range bookings {
		if propertyID != nil && b.PropertyID != *propertyID {
			continue
		}
		if b.Status.Realized() && inDays(b.CheckInDate, from, to) {
			out = append(out, b)
		}
	}
	return out
}

// GuestRegisterRows returns registers whose check-in time falls inside the day range,
// oldest arrival first. Rows without a check-in time are left out.
func GuestRegisterRows(registers []models.GuestRegister, from, to time.Time, propertyID *uint) []models.GuestRegister {
	out := make([]models.GuestRegister, 0)
	for _, r := range registers {
		if propertyID != nil && r.PropertyID != *propertyID {
			continue
		}
		if r.CheckInTime == nil || !inDays(*r.CheckInTime, from, to) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := *out[i].CheckInTime, *out[j].CheckInTime
		if a.Equal(b) {
			return out[i].ID < out[j].ID
		}
		return a.Before(b)
	})
	return out
}
