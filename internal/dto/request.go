package dto

import (
	"github.com/shopspring/decimal"
)

// DateLayout is the civil date format accepted for check-in/check-out and report ranges.
const DateLayout = "2006-01-02"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type QuoteRequest struct {
	PropertyID   uint   `json:"property_id" validate:"required"`
	RoomIDs      []uint `json:"room_ids" validate:"required,min=1,dive,required"`
	CheckInDate  string `json:"check_in_date" validate:"required,datetime=2006-01-02"`
	CheckOutDate string `json:"check_out_date" validate:"required,datetime=2006-01-02"`
	Tier         string `json:"pricing_tier" validate:"required,oneof=development social corporate"`
}

type CreateBookingRequest struct {
	QuoteRequest
	GuestName string `json:"guest_name" validate:"required"`
	// GuestEmail defaults to the signed-in account. Only staff may book for another address.
	GuestEmail      string `json:"guest_email" validate:"omitempty,email"`
	GuestPhone      string `json:"guest_phone" validate:"required"`
	GuestsCount     int    `json:"guests_count" validate:"required,gte=1"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=bkash nagad card bank_transfer cash"`
	PartnerCode     string `json:"partner_code"`
	SpecialRequests string `json:"special_requests"`
	// QuotedTotal is the total the client displayed before checkout.
	QuotedTotal *decimal.Decimal `json:"quoted_total"`
}

type TransitionRequest struct {
	Event string `json:"event" validate:"required"`
}

type PropertyRequest struct {
	Name             string   `json:"name" validate:"required"`
	Status           string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Region           string   `json:"region"`
	District         string   `json:"district"`
	Address          string   `json:"address"`
	Lat              *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng              *float64 `json:"lng" validate:"omitempty,longitude"`
	CategoryTags     []string `json:"category_tags"`
	CuratorNote      string   `json:"curator_note"`
	ImpactStatement  string   `json:"impact_statement"`
	RoomsCount       int      `json:"rooms_count" validate:"gte=0"`
	SafetyFeatures   []string `json:"safety_features"`
	CanteenAvailable bool     `json:"canteen_available"`
	CanteenDetails   string   `json:"canteen_description"`
	MealOptions      []string `json:"meal_options"`
	MocatRequired    bool     `json:"mocat_required"`
	MocatRegNo       string   `json:"mocat_reg_no"`
}

type RoomRequest struct {
	Name            string `json:"name" validate:"required"`
	RoomType        string `json:"room_type" validate:"required"`
	Capacity        int    `json:"capacity" validate:"required,gte=1"`
	Status          string `json:"status" validate:"omitempty,oneof=active inactive"`
	HasAC           bool   `json:"has_ac"`
	HasAttachedBath bool   `json:"has_attached_bath"`
}

type PricingRequest struct {
	RoomType string `json:"room_type" validate:"required"`
	Tier     string `json:"tier" validate:"required,oneof=development social corporate"`
	BaseRate int64  `json:"base_rate" validate:"gte=0"`
	// IsActive defaults to true when omitted.
	IsActive *bool `json:"is_active"`
}

type GuestRegisterRequest struct {
	BookingID        uint   `json:"booking_id" validate:"required"`
	GuestName        string `json:"guest_name" validate:"required"`
	FatherName       string `json:"father_name"`
	Phone            string `json:"phone"`
	IDType           string `json:"id_type" validate:"required,oneof=nid passport birth_certificate driving_license"`
	IDNumber         string `json:"id_number" validate:"required"`
	Nationality      string `json:"nationality" validate:"required"`
	PermanentAddress string `json:"permanent_address"`
	PresentAddress   string `json:"present_address"`
	PurposeOfVisit   string `json:"purpose_of_visit"`
	ComingFrom       string `json:"coming_from"`
	GoingTo          string `json:"going_to"`
	RoomNumber       string `json:"room_number"`
}

type ExportRequest struct {
	PropertyID *uint  `json:"property_id"`
	DateFrom   string `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo     string `json:"date_to" validate:"required,datetime=2006-01-02"`
}
