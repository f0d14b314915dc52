package models

import (
	"time"

	"gorm.io/datatypes"
)

type BookingStatus string

const (
	StatusInquiry        BookingStatus = "inquiry"
	StatusPendingPayment BookingStatus = "pending_payment"
	StatusConfirmed      BookingStatus = "confirmed"
	StatusCheckedIn      BookingStatus = "checked_in"
	StatusCheckedOut     BookingStatus = "checked_out"
	StatusCancelled      BookingStatus = "cancelled"
	StatusRefunded       BookingStatus = "refunded"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusInquiry, StatusPendingPayment, StatusConfirmed, StatusCheckedIn,
		StatusCheckedOut, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Realized reports whether the stay actually happened and counts toward revenue.
func (s BookingStatus) Realized() bool {
	return s == StatusCheckedIn || s == StatusCheckedOut
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (p PaymentStatus) Settled() bool {
	return p == PaymentPaid || p == PaymentCompleted
}

type PaymentMethod string

const (
	PaymentBkash        PaymentMethod = "bkash"
	PaymentNagad        PaymentMethod = "nagad"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

type Booking struct {
	ID               uint                      `gorm:"primaryKey" json:"id"`
	BookingRef       string                    `gorm:"type:varchar(32);uniqueIndex;not null" json:"booking_ref"`
	GuestName        string                    `gorm:"not null" json:"guest_name"`
	GuestEmail       string                    `gorm:"index;not null" json:"guest_email"`
	GuestPhone       string                    `gorm:"not null" json:"guest_phone"`
	PropertyID       uint                      `gorm:"index;not null" json:"property_id"`
	RoomIDs          datatypes.JSONSlice[uint] `json:"room_ids"`
	CheckInDate      time.Time                 `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate     time.Time                 `gorm:"type:date;not null" json:"check_out_date"`
	GuestsCount      int                       `gorm:"not null;default:1" json:"guests_count"`
	PricingTier      Tier                      `gorm:"type:varchar(20);not null" json:"pricing_tier"`
	NightlyRate      int64                     `gorm:"not null" json:"nightly_rate"`
	BaseAmount       int64                     `gorm:"not null" json:"base_amount"`
	VATAmount        int64                     `gorm:"column:vat_amount;not null" json:"vat_amount"`
	TotalAmount      int64                     `gorm:"not null" json:"total_amount"`
	PaymentMethod    PaymentMethod             `gorm:"type:varchar(20)" json:"payment_method"`
	Status           BookingStatus             `gorm:"type:varchar(20);index;not null;default:'pending_payment'" json:"status"`
	PaymentStatus    PaymentStatus             `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentReference *string                   `json:"payment_reference,omitempty"`
	InvoiceNo        *string                   `json:"invoice_no,omitempty"`
	PartnerCode      string                    `json:"partner_code,omitempty"`
	SpecialRequests  string                    `gorm:"type:text" json:"special_requests,omitempty"`
	CheckedInAt      *time.Time                `json:"checked_in_at,omitempty"`
	CheckedOutAt     *time.Time                `json:"checked_out_at,omitempty"`
	CreatedAt        time.Time                 `json:"created_date"`
	UpdatedAt        time.Time                 `json:"updated_date"`
}

// Day truncates t to a civil date at UTC midnight. Booking dates are always stored this way.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
