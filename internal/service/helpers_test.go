package service

import (
	"context"
	"testing"
	"time"

	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/repository"
	"github.com/lekhyo/booking-service/internal/testdb"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(routingKey string, payload any) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

func (m *mockPublisher) keys() []string {
	var out []string
	for _, c := range m.Calls {
		out = append(out, c.Arguments.String(0))
	}
	return out
}

func newPublisher() *mockPublisher {
	p := &mockPublisher{}
	p.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return p
}

// --- Fixtures ---

type fixture struct {
	db        *gorm.DB
	bookings  repository.BookingRepository
	props     repository.PropertyRepository
	rooms     repository.RoomRepository
	pricing   repository.PricingRepository
	registers repository.GuestRegisterRepository
	exports   repository.ComplianceExportRepository

	property models.Property
	deluxe   models.Room
	twin     models.Room
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// newFixture seeds one published property with a deluxe room at ৳1,500 and a twin room at
// ৳1,000 on the social tier.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return seedFixture(t, testdb.New(t))
}

func seedFixture(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()
	f := &fixture{
		db:        db,
		bookings:  repository.NewBookingRepository(db),
		props:     repository.NewPropertyRepository(db),
		rooms:     repository.NewRoomRepository(db),
		pricing:   repository.NewPricingRepository(db),
		registers: repository.NewGuestRegisterRepository(db),
		exports:   repository.NewComplianceExportRepository(db),
	}
	ctx := context.Background()

	f.property = models.Property{Name: "Sreemangal Tea Garden Lodge", Status: models.PropertyPublished}
	require.NoError(t, f.props.Create(ctx, &f.property))

	f.deluxe = models.Room{PropertyID: f.property.ID, Name: "Room 101", RoomType: models.RoomDeluxe, Capacity: 2, Status: models.RoomActive}
	require.NoError(t, f.rooms.Create(ctx, &f.deluxe))
	f.twin = models.Room{PropertyID: f.property.ID, Name: "Room 102", RoomType: models.RoomTwin, Capacity: 2, Status: models.RoomActive}
	require.NoError(t, f.rooms.Create(ctx, &f.twin))

	for _, p := range []models.Pricing{
		{PropertyID: f.property.ID, RoomType: models.RoomDeluxe, Tier: models.TierSocial, BaseRate: 1500, IsActive: true},
		{PropertyID: f.property.ID, RoomType: models.RoomTwin, Tier: models.TierSocial, BaseRate: 1000, IsActive: true},
		{PropertyID: f.property.ID, RoomType: models.RoomDeluxe, Tier: models.TierCorporate, BaseRate: 2500, IsActive: true},
	} {
		row := p
		require.NoError(t, f.pricing.Create(ctx, nil, &row))
	}
	return f
}

func (f *fixture) bookingService(pub Publisher, now time.Time) *bookingService {
	svc := NewBookingService(f.bookings, f.props, f.rooms, f.pricing, pub).(*bookingService)
	svc.now = func() time.Time { return now }
	return svc
}

func (f *fixture) insertBooking(t *testing.T, b models.Booking) models.Booking {
	t.Helper()
	if b.BookingRef == "" {
		b.BookingRef = newBookingRef()
	}
	if b.PropertyID == 0 {
		b.PropertyID = f.property.ID
	}
	if b.GuestName == "" {
		b.GuestName = "Rahim Uddin"
		b.GuestEmail = "rahim@example.com"
		b.GuestPhone = "01711000000"
	}
	if b.PricingTier == "" {
		b.PricingTier = models.TierSocial
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentPending
	}
	require.NoError(t, f.bookings.Create(context.Background(), nil, &b))
	return b
}

// pendingStay is the 3-night social deluxe stay: 4,500 + 675 VAT = 5,175.
func pendingStay() models.Booking {
	return models.Booking{
		CheckInDate:  date(2026, 3, 10),
		CheckOutDate: date(2026, 3, 13),
		GuestsCount:  2,
		NightlyRate:  1500,
		BaseAmount:   4500,
		VATAmount:    675,
		TotalAmount:  5175,
		Status:       models.StatusPendingPayment,
	}
}
