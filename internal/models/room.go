package models

import (
	"fmt"
	"strings"
	"time"
)

type RoomType string

const (
	RoomSingle    RoomType = "single"
	RoomDouble    RoomType = "double"
	RoomTwin      RoomType = "twin"
	RoomStandard  RoomType = "standard"
	RoomDeluxe    RoomType = "deluxe"
	RoomFamily    RoomType = "family"
	RoomSuite     RoomType = "suite"
	RoomDormitory RoomType = "dormitory"
	RoomHall      RoomType = "hall"
)

var roomTypes = map[RoomType]bool{
	RoomSingle: true, RoomDouble: true, RoomTwin: true, RoomStandard: true, RoomDeluxe: true,
	RoomFamily: true, RoomSuite: true, RoomDormitory: true, RoomHall: true,
}

// ParseRoomType normalizes the room type vocabulary; the editor and the seed data
// historically disagreed on casing ("Deluxe" vs "deluxe").
func ParseRoomType(s string) (RoomType, error) {
	rt := RoomType(strings.ToLower(strings.TrimSpace(s)))
	if !roomTypes[rt] {
		return "", fmt.Errorf("unknown room type: %q", s)
	}
	return rt, nil
}

type RoomStatus string

const (
	RoomActive   RoomStatus = "active"
	RoomInactive RoomStatus = "inactive"
)

type Room struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	PropertyID      uint       `gorm:"index;not null" json:"property_id"`
	Name            string     `gorm:"not null" json:"name"`
	RoomType        RoomType   `gorm:"type:varchar(20);not null" json:"room_type"`
	Capacity        int        `gorm:"not null;default:1" json:"capacity"`
	Status          RoomStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	HasAC           bool       `gorm:"column:has_ac" json:"has_ac"`
	HasAttachedBath bool       `json:"has_attached_bath"`
	CreatedAt       time.Time  `json:"created_date"`
	UpdatedAt       time.Time  `json:"updated_date"`
}
