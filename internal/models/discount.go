package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Redemption statuses.
const (
	RedemptionStatusApproved = "approved"
	RedemptionStatusPending  = "pending"
	RedemptionStatusRejected = "rejected"
)

type DiscountCode struct {
	gorm.Model
	VendorID      uint   `gorm:"not null;index"`
	MachineID     uint   `gorm:"not null;index"`
	ProductID     *uint  `gorm:"index"`
	Code          string `gorm:"uniqueIndex;not null"` // stored upper-case
	DiscountType  string `gorm:"not null"`
	DiscountValue float64 `gorm:"not null"`
	MaxUses       *int
	CurrentUses   int `gorm:"not null;default:0"`
	ValidFrom     *time.Time
	ValidUntil    *time.Time
	IsActive      bool `gorm:"default:true"`
}

// DiscountRedemption records a single use of a code by a customer. The unique
// index on (discount_code_id, customer_id) is the authoritative guard against
// double redemption under concurrent requests.
type DiscountRedemption struct {
	gorm.Model
	DiscountCodeID uint `gorm:"not null;uniqueIndex:idx_redemptions_code_customer"`
	CustomerID     uint `gorm:"not null;uniqueIndex:idx_redemptions_code_customer"`
	MachineID      uint `gorm:"not null;index"`
	ProofImageURL  string
	Status         string `gorm:"not null;default:'approved'"`
	PointsAwarded  int    `gorm:"not null;default:0"`
	RedeemedAt     time.Time
}
