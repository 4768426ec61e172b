package models

import (
	"time"
)

type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Name           string     `json:"name" gorm:"not null"`
	Email          string     `json:"email" gorm:"size:191;uniqueIndex;not null"`
	PasswordHash   string     `json:"-" gorm:"not null"`
	Role           UserRole   `json:"role" gorm:"size:16;not null"`
	WhatsAppNumber string     `json:"whatsappNumber" gorm:"column:whats_app_number;size:32;index"`
	IsActive       bool       `json:"isActive"`
	LastLoginAt    *time.Time `json:"lastLoginAt"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleStaff UserRole = "STAFF"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}
