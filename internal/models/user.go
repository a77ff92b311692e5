package models

import (
	"time"

	"gorm.io/gorm"
)

// Account roles. Vendors own machines; customers scan them.
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"`
	Password            string `gorm:"not null"`
	Name                string `gorm:"not null"`
	Role                string `gorm:"default:'customer'"`
	BusinessName        string
	Status              string `gorm:"default:'active'"`
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	TokenVersion        int `gorm:"default:1"`
}

// IsVendor reports whether the user may manage machines.
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor || u.Role == RoleAdmin
}
