package dto

import (
	"time"

	"github.com/lekhyo/booking-service/internal/compliance"
	"github.com/lekhyo/booking-service/internal/lifecycle"
	"github.com/lekhyo/booking-service/internal/models"
	"github.com/lekhyo/booking-service/internal/pricing"
	"github.com/lekhyo/booking-service/internal/session"
)

type BookingResponse struct {
	ID               uint                 `json:"id"`
	BookingRef       string               `json:"booking_ref"`
	GuestName        string               `json:"guest_name"`
	GuestEmail       string               `json:"guest_email"`
	GuestPhone       string               `json:"guest_phone"`
	PropertyID       uint                 `json:"property_id"`
	RoomIDs          []uint               `json:"room_ids"`
	CheckInDate      string               `json:"check_in_date"`
	CheckOutDate     string               `json:"check_out_date"`
	GuestsCount      int                  `json:"guests_count"`
	PricingTier      models.Tier          `json:"pricing_tier"`
	BaseAmount       int64                `json:"base_amount"`
	VATAmount        int64                `json:"vat_amount"`
	TotalAmount      int64                `json:"total_amount"`
	TotalDisplay     string               `json:"total_display"`
	PaymentMethod    models.PaymentMethod `json:"payment_method"`
	Status           models.BookingStatus `json:"status"`
	PaymentStatus    models.PaymentStatus `json:"payment_status"`
	PaymentReference *string              `json:"payment_reference,omitempty"`
	InvoiceNo        *string              `json:"invoice_no,omitempty"`
	PartnerCode      string               `json:"partner_code,omitempty"`
	SpecialRequests  string               `json:"special_requests,omitempty"`
	CheckedInAt      *time.Time           `json:"checked_in_at,omitempty"`
	CheckedOutAt     *time.Time           `json:"checked_out_at,omitempty"`
	AllowedEvents    []lifecycle.Event    `json:"allowed_events"`
	CreatedAt        time.Time            `json:"created_date"`
}

type QuoteResponse struct {
	NightlyRate  int64  `json:"nightly_rate"`
	Nights       int    `json:"nights"`
	BaseAmount   int64  `json:"base_amount"`
	VATAmount    int64  `json:"vat_amount"`
	TotalAmount  int64  `json:"total_amount"`
	TotalDisplay string `json:"total_display"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Role      models.Role `json:"role"`
}

type UserResponse struct {
	ID       uint        `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Phone    string      `json:"phone,omitempty"`
	Role     models.Role `json:"role"`
}

type ErrorResponse struct {
	Message  string `json:"message"`
	LoginURL string `json:"login_url,omitempty"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	rooms := []uint(b.RoomIDs)
	if rooms == nil {
		rooms = []uint{}
	}
	allowed := lifecycle.Allowed(b.Status)
	if allowed == nil {
		allowed = []lifecycle.Event{}
	}
	return BookingResponse{
		ID:               b.ID,
		BookingRef:       b.BookingRef,
		GuestName:        b.GuestName,
		GuestEmail:       b.GuestEmail,
		GuestPhone:       b.GuestPhone,
		PropertyID:       b.PropertyID,
		RoomIDs:          rooms,
		CheckInDate:      b.CheckInDate.Format(DateLayout),
		CheckOutDate:     b.CheckOutDate.Format(DateLayout),
		GuestsCount:      b.GuestsCount,
		PricingTier:      b.PricingTier,
		BaseAmount:       b.BaseAmount,
		VATAmount:        b.VATAmount,
		TotalAmount:      b.TotalAmount,
		TotalDisplay:     compliance.FormatTaka(b.TotalAmount),
		PaymentMethod:    b.PaymentMethod,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		PaymentReference: b.PaymentReference,
		InvoiceNo:        b.InvoiceNo,
		PartnerCode:      b.PartnerCode,
		SpecialRequests:  b.SpecialRequests,
		CheckedInAt:      b.CheckedInAt,
		CheckedOutAt:     b.CheckedOutAt,
		AllowedEvents:    allowed,
		CreatedAt:        b.CreatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}

func ToQuoteResponse(q pricing.Quote) QuoteResponse {
	return QuoteResponse{
		NightlyRate:  q.Rate,
		Nights:       q.Nights,
		BaseAmount:   q.BaseAmount,
		VATAmount:    q.VATAmount,
		TotalAmount:  q.TotalAmount,
		TotalDisplay: compliance.FormatTaka(q.TotalAmount),
	}
}

func ToLoginResponse(token string, s session.Session) LoginResponse {
	return LoginResponse{Token: token, ExpiresAt: s.ExpiresAt, Role: s.Role}
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, Phone: u.Phone, Role: u.Role}
}
