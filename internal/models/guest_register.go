package models

import "time"

type IDType string

const (
	IDNational       IDType = "nid"
	IDPassport       IDType = "passport"
	IDBirthCert      IDType = "birth_certificate"
	IDDrivingLicense IDType = "driving_license"
)

func (t IDType) Valid() bool {
	switch t {
	case IDNational, IDPassport, IDBirthCert, IDDrivingLicense:
		return true
	}
	return false
}

// GuestRegister is the per-primary-guest identity log kept for police reporting.
type GuestRegister struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	BookingID        uint       `gorm:"index;not null" json:"booking_id"`
	PropertyID       uint       `gorm:"index;not null" json:"property_id"`
	GuestName        string     `gorm:"not null" json:"guest_name"`
	FatherName       string     `json:"father_name,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	IDType           IDType     `gorm:"column:id_type;type:varchar(30);not null" json:"id_type"`
	IDNumber         string     `gorm:"column:id_number;not null" json:"id_number"`
	Nationality      string     `gorm:"not null" json:"nationality"`
	PermanentAddress string     `json:"permanent_address,omitempty"`
	PresentAddress   string     `json:"present_address,omitempty"`
	PurposeOfVisit   string     `json:"purpose_of_visit,omitempty"`
	ComingFrom       string     `json:"coming_from,omitempty"`
	GoingTo          string     `json:"going_to,omitempty"`
	RoomNumber       string     `json:"room_number,omitempty"`
	CheckInTime      *time.Time `gorm:"index" json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	CreatedAt        time.Time  `json:"created_date"`
	UpdatedAt        time.Time  `json:"updated_date"`
}
