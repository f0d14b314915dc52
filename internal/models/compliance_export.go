package models

import "time"

type ExportType string

const (
	ExportGuestRegister ExportType = "guest_register"
	ExportVATReport     ExportType = "vat_report"
)

// AllProperties is the property_id recorded for exports that were not narrowed to one property.
const AllProperties = "all"

// ComplianceExport is an audit row. It is written once per export run and never updated.
type ComplianceExport struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PropertyID  string     `gorm:"type:varchar(20);not null" json:"property_id"`
	ExportType  ExportType `gorm:"type:varchar(20);not null" json:"export_type"`
	DateFrom    time.Time  `gorm:"type:date;not null" json:"date_from"`
	DateTo      time.Time  `gorm:"type:date;not null" json:"date_to"`
	RecordCount int        `gorm:"not null" json:"record_count"`
	ExportedBy  string     `gorm:"not null" json:"exported_by"`
	CreatedAt   time.Time  `json:"created_date"`
}
