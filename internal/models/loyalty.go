package models

import "gorm.io/gorm"

// LoyaltyPoints holds one row per (customer, machine) pair. PointsBalance may
// go down when spend features land; LifetimePoints only ever grows.
type LoyaltyPoints struct {
	gorm.Model
	CustomerID     uint `gorm:"not null;uniqueIndex:idx_loyalty_customer_machine"`
	MachineID      uint `gorm:"not null;uniqueIndex:idx_loyalty_customer_machine"`
	PointsBalance  int  `gorm:"not null;default:0"`
	LifetimePoints int  `gorm:"not null;default:0"`
}
