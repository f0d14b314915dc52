package compliance

import (
	"math"
	"strings"
	"time"

	"github.com/lekhyo/booking-service/internal/availability"
	"github.com/lekhyo/booking-service/internal/models"
)

type Dashboard struct {
	TotalProperties     int                          `json:"total_properties"`
	PublishedProperties int                          `json:"published_properties"`
	Arrivals            int                          `json:"arrivals_today"`
	Departures          int                          `json:"departures_today"`
	PendingPayments     int                          `json:"pending_payments"`
	CheckedIn           int                          `json:"checked_in"`
	StatusCounts        map[models.BookingStatus]int `json:"status_counts"`
	OccupancyRate       float64                      `json:"occupancy_rate"`
	Revenue30Days       int64                        `json:"revenue_30_days"`
	RevenueThisMonth    int64                        `json:"revenue_this_month"`
	RevenueLastMonth    int64                        `json:"revenue_last_month"`
	RevenueGrowth       float64                      `json:"revenue_growth_percent"`
	AvgBookingValue     int64                        `json:"avg_booking_value"`
	BookingsThisWeek    int                          `json:"bookings_this_week"`
	MocatPending        []PropertyRef                `json:"mocat_pending"`
}

type PropertyRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MocatPending lists properties that need a MoCAT registration number but have none
// recorded yet, whatever their publication status.
func MocatPending(properties []models.Property) []PropertyRef {
	out := make([]PropertyRef, 0)
	for _, p := range properties {
		if p.MocatRequired && strings.TrimSpace(p.MocatRegNo) == "" {
			out = append(out, PropertyRef{ID: p.ID, Name: p.Name})
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// BuildDashboard computes the management overview. Revenue here is cash-basis (paid or
// completed payments) by check-in month, unlike RevenueSummary which counts realized stays.
func BuildDashboard(bookings []models.Booking, properties []models.Property, now time.Time) Dashboard {
	d := Dashboard{
		TotalProperties: len(properties),
		StatusCounts:    make(map[models.BookingStatus]int),
		MocatPending:    MocatPending(properties),
	}

	totalRooms := 0
	for _, p := range properties {
		totalRooms += p.RoomsCount
		if p.Status == models.PropertyPublished {
			d.PublishedProperties++
		}
	}

	d.Arrivals = len(availability.Arrivals(bookings, now, nil))
	d.Departures = len(availability.Departures(bookings, now, nil))

	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := thisMonth.AddDate(0, 1, 0)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	last30 := now.AddDate(0, 0, -30)
	last7 := now.AddDate(0, 0, -7)

	var recentTotal int64
	recentCount := 0

	for _, b := range bookings {
		d.StatusCounts[b.Status]++
		switch b.Status {
		case models.StatusPendingPayment:
			d.PendingPayments++
		case models.StatusCheckedIn:
			d.CheckedIn++
		}

		if b.CreatedAt.After(last7) {
			d.BookingsThisWeek++
		}
		if b.CreatedAt.After(last30) {
			recentCount++
			recentTotal += b.TotalAmount
			if b.PaymentStatus.Settled() {
				d.Revenue30Days += b.TotalAmount
			}
		}

		if !b.PaymentStatus.Settled() {
			continue
		}
		in := models.Day(b.CheckInDate)
		switch {
		case !in.Before(thisMonth) && in.Before(nextMonth):
			d.RevenueThisMonth += b.TotalAmount
		case !in.Before(lastMonth) && in.Before(thisMonth):
			d.RevenueLastMonth += b.TotalAmount
		}
	}

	if totalRooms > 0 {
		d.OccupancyRate = round1(float64(d.CheckedIn) / float64(totalRooms) * 100)
	}
	if d.RevenueLastMonth > 0 {
		d.RevenueGrowth = round1(float64(d.RevenueThisMonth-d.RevenueLastMonth) / float64(d.RevenueLastMonth) * 100)
	}
	if recentCount > 0 {
		d.AvgBookingValue = recentTotal / int64(recentCount)
	}
	return d
}
