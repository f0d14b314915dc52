package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lekhyo/booking-service/internal/availability"
	"github.com/lekhyo/booking-service/internal/lifecycle"
	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/pricing"
	"github.com/lekhyo/booking-service/internal/repository"
	"github.com/lekhyo/booking-service/internal/session"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxCalendarDays = 62

type QuoteInput struct {
	PropertyID uint
	RoomIDs    []uint
	CheckIn    time.Time
	CheckOut   time.Time
	Tier       models.Tier
}

type CreateBookingInput struct {
	QuoteInput
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	GuestsCount     int
	PaymentMethod   models.PaymentMethod
	PartnerCode     string
	SpecialRequests string
	// QuotedTotal is what the client displayed. It is checked, never stored.
	QuotedTotal *decimal.Decimal
}

type BookingQuery struct {
	Status     models.BookingStatus
	PropertyID *uint
	Search     string
	Tab        string
	Day        time.Time
	Limit      int
}

const (
	TabAll        = "all"
	TabArrivals   = "arrivals"
	TabDepartures = "departures"
	TabActive     = "active"
)

type GuestBookings struct {
	Upcoming []models.Booking `json:"upcoming"`
	Past     []models.Booking `json:"past"`
}

type CalendarDay struct {
	Date       string `json:"date"`
	BookingIDs []uint `json:"booking_ids"`
	Arrivals   int    `json:"arrivals"`
	Departures int    `json:"departures"`
}

type Calendar struct {
	Bookings []models.Booking `json:"bookings"`
	Days     []CalendarDay    `json:"days"`
}

// BookingEvent is the payload published on every lifecycle change.
type BookingEvent struct {
	BookingID  uint                 `json:"booking_id"`
	BookingRef string               `json:"booking_ref"`
	PropertyID uint                 `json:"property_id"`
	From       models.BookingStatus `json:"from,omitempty"`
	Status     models.BookingStatus `json:"status"`
	OccurredAt time.Time            `json:"occurred_at"`
}

type BookingService interface {
	Quote(ctx context.Context, in QuoteInput) (pricing.Quote, error)
	CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	ListBookings(ctx context.Context, q BookingQuery) ([]models.Booking, error)
	Transition(ctx context.Context, id uint, ev lifecycle.Event) (*models.Booking, lifecycle.Outcome, error)
	CancelBooking(ctx context.Context, id uint, s session.Session) (*models.Booking, error)
	ApplyGatewayPayment(ctx context.Context, bookingRef, paymentRef string, amount decimal.Decimal) (*models.Booking, error)
	GuestBookings(ctx context.Context, email string) (*GuestBookings, error)
	Calendar(ctx context.Context, propertyID uint, from, to time.Time) (*Calendar, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	propertyRepo repository.PropertyRepository
	roomRepo     repository.RoomRepository
	pricingRepo  repository.PricingRepository
	publisher    Publisher
	now          func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	propertyRepo repository.PropertyRepository,
	roomRepo repository.RoomRepository,
	pricingRepo repository.PricingRepository,
	publisher Publisher,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		roomRepo:     roomRepo,
		pricingRepo:  pricingRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

// quote resolves the nightly rate of every selected room and prices the stay. Multiple
// rooms are priced as one combined nightly rate so VAT is rounded once.
func (s *bookingService) quote(ctx context.Context, in QuoteInput) (pricing.Quote, []models.Room, error) {
	if in.PropertyID == 0 {
		return pricing.Quote{}, nil, invalid("property_id is required")
	}
	if len(in.RoomIDs) == 0 {
		return pricing.Quote{}, nil, invalid("select at least one room")
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return pricing.Quote{}, nil, invalid("check-in and check-out dates are required")
	}
	if !in.Tier.Valid() {
		return pricing.Quote{}, nil, invalid("unknown pricing tier %q", in.Tier)
	}

	nights, err := pricing.Nights(in.CheckIn, in.CheckOut)
	if err != nil {
		return pricing.Quote{}, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	property, err := s.propertyRepo.FindByID(ctx, in.PropertyID)
	if err != nil {
		return pricing.Quote{}, nil, notFound(err, "property")
	}
	if property.Status != models.PropertyPublished {
		return pricing.Quote{}, nil, fmt.Errorf("%w: property is not open for booking", ErrNotFound)
	}

	rows, err := s.pricingRepo.Filter(ctx, map[string]any{"property_id": in.PropertyID, "is_active": true}, "")
	if err != nil {
		return pricing.Quote{}, nil, err
	}
	table, err := pricing.NewRateTable(rows)
	if err != nil {
		return pricing.Quote{}, nil, fmt.Errorf("%w: %w", ErrConflict, err)
	}

	seen := make(map[uint]bool, len(in.RoomIDs))
	rooms := make([]models.Room, 0, len(in.RoomIDs))
	var nightly int64
	for _, id := range in.RoomIDs {
		if seen[id] {
			return pricing.Quote{}, nil, invalid("room %d selected twice", id)
		}
		seen[id] = true

		room, err := s.roomRepo.FindByID(ctx, id)
		if err != nil {
			return pricing.Quote{}, nil, notFound(err, fmt.Sprintf("room %d", id))
		}
		if room.PropertyID != in.PropertyID || room.Status != models.RoomActive {
			return pricing.Quote{}, nil, fmt.Errorf("%w: room %d is not bookable at this property", ErrNotFound, id)
		}
		rate, err := table.Rate(in.PropertyID, room.RoomType, in.Tier)
		if err != nil {
			return pricing.Quote{}, nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		nightly += rate
		rooms = append(rooms, *room)
	}

	q, err := pricing.NewQuote(nightly, nights, pricing.DefaultVATPercent)
	if err != nil {
		return pricing.Quote{}, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return q, rooms, nil
}

func (s *bookingService) Quote(ctx context.Context, in QuoteInput) (pricing.Quote, error) {
	q, _, err := s.quote(ctx, in)
	return q, err
}

func newBookingRef() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "LKY-" + strings.ToUpper(id[:8])
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	in.GuestName = strings.TrimSpace(in.GuestName)
	in.GuestEmail = strings.ToLower(strings.TrimSpace(in.GuestEmail))
	in.GuestPhone = strings.TrimSpace(in.GuestPhone)
	if in.GuestName == "" || in.GuestEmail == "" || in.GuestPhone == "" {
		return nil, invalid("guest name, email and phone are required")
	}
	if in.GuestsCount < 1 {
		return nil, invalid("guests_count must be at least 1")
	}

	q, rooms, err := s.quote(ctx, in.QuoteInput)
	if err != nil {
		return nil, err
	}

	capacity := 0
	for _, r := range rooms {
		capacity += r.Capacity
	}
	if in.GuestsCount > capacity {
		return nil, invalid("%d guests exceed room capacity of %d", in.GuestsCount, capacity)
	}

	if in.QuotedTotal != nil && !q.MatchesHint(*in.QuotedTotal) {
		return nil, fmt.Errorf("%w: client total %s, computed %d", ErrPriceMismatch, in.QuotedTotal.String(), q.TotalAmount)
	}

	booking := &models.Booking{
		BookingRef:      newBookingRef(),
		GuestName:       in.GuestName,
		GuestEmail:      in.GuestEmail,
		GuestPhone:      in.GuestPhone,
		PropertyID:      in.PropertyID,
		RoomIDs:         in.RoomIDs,
		CheckInDate:     models.Day(in.CheckIn),
		CheckOutDate:    models.Day(in.CheckOut),
		GuestsCount:     in.GuestsCount,
		PricingTier:     in.Tier,
		NightlyRate:     q.Rate,
		BaseAmount:      q.BaseAmount,
		VATAmount:       q.VATAmount,
		TotalAmount:     q.TotalAmount,
		PaymentMethod:   in.PaymentMethod,
		Status:          models.StatusPendingPayment,
		PaymentStatus:   models.PaymentPending,
		PartnerCode:     in.PartnerCode,
		SpecialRequests: in.SpecialRequests,
	}
	if err := s.bookingRepo.Create(ctx, nil, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	publish(s.publisher, "booking.created", s.event(booking, ""))
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return b, nil
}

func (s *bookingService) ListBookings(ctx context.Context, q BookingQuery) ([]models.Booking, error) {
	fields := map[string]any{}
	if q.PropertyID != nil {
		fields["property_id"] = *q.PropertyID
	}
	if q.Status != "" && !q.Status.Valid() {
		return nil, invalid("unknown status %q", q.Status)
	}
	// Day tabs select by date and ignore the status filter.
	if q.Status != "" && (q.Tab == "" || q.Tab == TabAll) {
		fields["status"] = q.Status
	}

	bookings, err := s.bookingRepo.Filter(ctx, fields, "-created_date")
	if err != nil {
		return nil, err
	}

	day := q.Day
	if day.IsZero() {
		day = s.now()
	}
	switch q.Tab {
	case "", TabAll:
	case TabArrivals:
		bookings = availability.Arrivals(bookings, day, nil)
	case TabDepartures:
		bookings = availability.Departures(bookings, day, nil)
	case TabActive:
		bookings = availability.Active(bookings, nil)
	default:
		return nil, invalid("unknown tab %q", q.Tab)
	}

	bookings = availability.Search(bookings, q.Search)
	if q.Limit > 0 && len(bookings) > q.Limit {
		bookings = bookings[:q.Limit]
	}
	return bookings, nil
}

// transition runs one status change under a row lock. before may inspect or veto the
// change and may set fields on the booking; it runs after the lock is taken.
func (s *bookingService) transition(
	ctx context.Context,
	id uint,
	ev lifecycle.Event,
	before func(b *models.Booking) (skip bool, err error),
) (*models.Booking, lifecycle.Outcome, error) {
	var (
		result  *models.Booking
		outcome lifecycle.Outcome
	)

	err := s.bookingRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return notFound(err, "booking")
		}
		result = b
		outcome = lifecycle.Outcome{From: b.Status, To: b.Status}

		if before != nil {
			skip, err := before(b)
			if err != nil || skip {
				return err
			}
		}

		if ev == lifecycle.EventPaymentConfirmed || ev == lifecycle.EventPaymentSucceeded {
			if err := verifyAmounts(b); err != nil {
				return err
			}
		}

		outcome, err = lifecycle.Apply(b, ev, s.now().UTC())
		if err != nil || !outcome.Changed {
			return err
		}
		return s.bookingRepo.Update(ctx, tx, b)
	})
	if err != nil {
		return nil, outcome, err
	}

	if outcome.Changed {
		publish(s.publisher, "booking."+string(outcome.To), s.event(result, outcome.From))
	}
	return result, outcome, nil
}

// verifyAmounts re-prices the stored stay at confirmation time. A mismatch is reported,
// not repaired.
func verifyAmounts(b *models.Booking) error {
	nights, err := pricing.Nights(b.CheckInDate, b.CheckOutDate)
	if err != nil {
		return fmt.Errorf("%w: booking %s: %w", ErrPriceMismatch, b.BookingRef, err)
	}
	q, err := pricing.NewQuote(b.NightlyRate, nights, pricing.DefaultVATPercent)
	if err != nil {
		return fmt.Errorf("%w: booking %s: %w", ErrPriceMismatch, b.BookingRef, err)
	}
	if err := q.Verify(b.BaseAmount, b.VATAmount, b.TotalAmount); err != nil {
		return fmt.Errorf("booking %s: %w", b.BookingRef, err)
	}
	return nil
}

func (s *bookingService) Transition(ctx context.Context, id uint, ev lifecycle.Event) (*models.Booking, lifecycle.Outcome, error) {
	return s.transition(ctx, id, ev, nil)
}

// CancelBooking lets a guest cancel their own booking; managers may cancel any.
func (s *bookingService) CancelBooking(ctx context.Context, id uint, sess session.Session) (*models.Booking, error) {
	b, _, err := s.transition(ctx, id, lifecycle.EventCancel, func(b *models.Booking) (bool, error) {
		if !sess.CanManage() && !strings.EqualFold(b.GuestEmail, sess.Email) {
			return false, fmt.Errorf("%w: booking belongs to another guest", ErrForbidden)
		}
		return false, nil
	})
	return b, err
}

// ApplyGatewayPayment confirms a booking from a payment gateway callback. Redelivery of a
// payment that was already applied is a no-op.
func (s *bookingService) ApplyGatewayPayment(ctx context.Context, bookingRef, paymentRef string, amount decimal.Decimal) (*models.Booking, error) {
	if bookingRef == "" || paymentRef == "" {
		return nil, invalid("booking_ref and payment_reference are required")
	}
	found, err := s.bookingRepo.FindByRef(ctx, bookingRef)
	if err != nil {
		return nil, notFound(err, "booking "+bookingRef)
	}

	b, _, err := s.transition(ctx, found.ID, lifecycle.EventPaymentSucceeded, func(b *models.Booking) (bool, error) {
		if b.PaymentReference != nil && *b.PaymentReference == paymentRef && b.Status != models.StatusPendingPayment {
			return true, nil
		}
		paid := decimal.NewFromInt(b.TotalAmount)
		if !amount.Sub(paid).Abs().LessThanOrEqual(decimal.New(1, -2)) {
			return false, fmt.Errorf("%w: paid %s, booking total %d", ErrPriceMismatch, amount.String(), b.TotalAmount)
		}
		b.PaymentReference = &paymentRef
		return false, nil
	})
	return b, err
}

func (s *bookingService) GuestBookings(ctx context.Context, email string) (*GuestBookings, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("email is required")
	}
	bookings, err := s.bookingRepo.Filter(ctx, map[string]any{"guest_email": email}, "-created_date")
	if err != nil {
		return nil, err
	}
	now := s.now()
	return &GuestBookings{
		Upcoming: availability.Upcoming(bookings, now),
		Past:     availability.Past(bookings, now),
	}, nil
}

func (s *bookingService) Calendar(ctx context.Context, propertyID uint, from, to time.Time) (*Calendar, error) {
	from, to = models.Day(from), models.Day(to)
	if to.Before(from) {
		return nil, invalid("from must not be after to")
	}
	if to.Sub(from) > maxCalendarDays*24*time.Hour {
		return nil, invalid("calendar range is limited to %d days", maxCalendarDays)
	}
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, notFound(err, "property")
	}

	candidates, err := s.bookingRepo.FindByPropertyBetween(ctx, &propertyID, from, to)
	if err != nil {
		return nil, err
	}
	bookings := availability.InRange(candidates, from, to, &propertyID)

	cal := &Calendar{Bookings: bookings}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		on := availability.On(bookings, day, nil)
		cd := CalendarDay{
			Date:       day.Format(time.DateOnly),
			BookingIDs: make([]uint, 0, len(on)),
			Arrivals:   len(availability.Arrivals(on, day, nil)),
			Departures: len(availability.Departures(on, day, nil)),
		}
		for _, b := range on {
			cd.BookingIDs = append(cd.BookingIDs, b.ID)
		}
		cal.Days = append(cal.Days, cd)
	}
	return cal, nil
}

func (s *bookingService) event(b *models.Booking, from models.BookingStatus) BookingEvent {
	return BookingEvent{
		BookingID:  b.ID,
		BookingRef: b.BookingRef,
		PropertyID: b.PropertyID,
		From:       from,
		Status:     b.Status,
		OccurredAt: s.now().UTC(),
	}
}

// IsClientError reports whether err was caused by the request rather than the system.
func IsClientError(err error) bool {
	for _, target := range []error{ErrNotFound, ErrInvalidInput, ErrInvalidTransition, ErrPriceMismatch, ErrConflict, ErrForbidden} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
