package models

import "time"

type Tier string

const (
	TierDevelopment Tier = "development"
	TierSocial      Tier = "social"
	TierCorporate   Tier = "corporate"
)

func (t Tier) Valid() bool {
	return t == TierDevelopment || t == TierSocial || t == TierCorporate
}

type Pricing struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PropertyID uint      `gorm:"index;not null" json:"property_id"`
	RoomType   RoomType  `gorm:"type:varchar(20);not null" json:"room_type"`
	Tier       Tier      `gorm:"type:varchar(20);not null" json:"tier"`
	BaseRate   int64     `gorm:"not null" json:"base_rate"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	CreatedAt  time.Time `json:"created_date"`
	UpdatedAt  time.Time `json:"updated_date"`
}
