package models

import (
	"time"

	"gorm.io/datatypes"
)

type PropertyStatus string

const (
	PropertyDraft     PropertyStatus = "draft"
	PropertyPublished PropertyStatus = "published"
	PropertyArchived  PropertyStatus = "archived"
)

func (s PropertyStatus) Valid() bool {
	return s == PropertyDraft || s == PropertyPublished || s == PropertyArchived
}

type Location struct {
	Region   string   `json:"region"`
	District string   `json:"district"`
	Address  string   `json:"address"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

type Canteen struct {
	Available   bool                        `json:"available"`
	Description string                      `json:"description,omitempty"`
	MealOptions datatypes.JSONSlice[string] `json:"meal_options"`
}

type Property struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	Name            string                      `gorm:"not null" json:"name"`
	Status          PropertyStatus              `gorm:"type:varchar(20);index;not null;default:'draft'" json:"status"`
	Location        Location                    `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	CategoryTags    datatypes.JSONSlice[string] `json:"category_tags"`
	CuratorNote     string                      `gorm:"type:text" json:"curator_note,omitempty"`
	ImpactStatement string                      `gorm:"type:text" json:"impact_statement,omitempty"`
	RoomsCount      int                         `json:"rooms_count"`
	SafetyFeatures  datatypes.JSONSlice[string] `json:"safety_features"`
	Canteen         Canteen                     `gorm:"embedded;embeddedPrefix:canteen_" json:"canteen"`
	MocatRequired   bool                        `json:"mocat_required"`
	MocatRegNo      string                      `json:"mocat_reg_no,omitempty"`
	CreatedAt       time.Time                   `json:"created_date"`
	UpdatedAt       time.Time                   `json:"updated_date"`
}
