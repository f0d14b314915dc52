package compliance

import (
	"testing"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)
	today := models.Day(now)

	bs := []models.Booking{
		{Status: models.StatusConfirmed, CheckInDate: today, CheckOutDate: today.AddDate(0, 0, 2),
			PaymentStatus: models.PaymentCompleted, TotalAmount: 1150, CreatedAt: now.AddDate(0, 0, -2)},
		{Status: models.StatusCheckedIn, CheckInDate: today.AddDate(0, 0, -2), CheckOutDate: today,
			PaymentStatus: models.PaymentPaid, TotalAmount: 2300, CreatedAt: now.AddDate(0, 0, -10)},
		{Status: models.StatusPendingPayment, CheckInDate: today.AddDate(0, 0, 3), CheckOutDate: today.AddDate(0, 0, 4),
			PaymentStatus: models.PaymentPending, TotalAmount: 575, CreatedAt: now.AddDate(0, 0, -1)},
		{Status: models.StatusCheckedOut, CheckInDate: time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
			CheckOutDate:  time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
			PaymentStatus: models.PaymentCompleted, TotalAmount: 1725, CreatedAt: now.AddDate(0, 0, -60)},
	}
	props := []models.Property{
		{Status: models.PropertyPublished, RoomsCount: 8},
		{Status: models.PropertyDraft, RoomsCount: 2},
	}

	got := BuildDashboard(bs, props, now)

	assert.Equal(t, 2, got.TotalProperties)
	assert.Equal(t, 1, got.PublishedProperties)
	assert.Equal(t, 1, got.Arrivals)
	assert.Equal(t, 1, got.Departures)
	assert.Equal(t, 1, got.PendingPayments)
	assert.Equal(t, 1, got.CheckedIn)
	assert.Equal(t, 10.0, got.OccupancyRate)
	assert.Equal(t, int64(3450), got.RevenueThisMonth)
	assert.Equal(t, int64(1725), got.RevenueLastMonth)
	assert.Equal(t, 100.0, got.RevenueGrowth)
	assert.Equal(t, int64(3450), got.Revenue30Days)
	assert.Equal(t, int64(1341), got.AvgBookingValue)
	assert.Equal(t, 2, got.BookingsThisWeek)
	assert.Equal(t, 1, got.StatusCounts[models.StatusCheckedOut])
}

func TestMocatPending(t *testing.T) {
	props := []models.Property{
		{ID: 1, Name: "Sreemangal Tea Garden Lodge", MocatRequired: true, MocatRegNo: "MOCAT-123", Status: models.PropertyPublished},
		{ID: 2, Name: "Bandarban Hill Cottage", MocatRequired: true, Status: models.PropertyDraft},
		{ID: 3, Name: "Sundarbans Eco Resort", MocatRequired: true, MocatRegNo: "  ", Status: models.PropertyArchived},
		{ID: 4, Name: "Kuakata Beach Hut", Status: models.PropertyDraft},
	}

	got := MocatPending(props)

	assert.Equal(t, []PropertyRef{{ID: 2, Name: "Bandarban Hill Cottage"}, {ID: 3, Name: "Sundarbans Eco Resort"}}, got)
	assert.Equal(t, got, BuildDashboard(nil, props, time.Now()).MocatPending)
	assert.NotNil(t, MocatPending(nil))
}
