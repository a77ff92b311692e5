package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerSession is created on every successful QR scan. It starts anonymous
// (CustomerID nil) and may be linked to a registered customer once. The session
// token is the customer's bearer credential; MachineID never changes after
// creation.
type CustomerSession struct {
	gorm.Model
	CustomerID    *uint `gorm:"index"`
	Customer      *User `gorm:"foreignKey:CustomerID"`
	MachineID     uint  `gorm:"not null;index"`
	SessionToken  string `gorm:"uniqueIndex;not null"`
	QRCodeScanned string
	IPAddress     string
	UserAgent     string
	ExpiresAt     time.Time `gorm:"not null;index"`
}

// Expired reports whether the session is past its expiry.
func (s *CustomerSession) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
