package models

import "time"

type Role string

const (
	RoleGuest   Role = "guest"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// CanManage reports whether the role may use the management and compliance screens.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleAdmin
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'guest'" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_date"`
	UpdatedAt    time.Time `json:"updated_date"`
}

// RevokedToken records a logged-out session token until it would have expired anyway.
type RevokedToken struct {
	TokenID   string    `gorm:"primaryKey;type:varchar(64)" json:"token_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
