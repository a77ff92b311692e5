package models

import (
	"gorm.io/gorm"
)

type Machine struct {
	gorm.Model
	VendorID uint   `gorm:"not null;index"`
	Name     string `gorm:"not null"`
	Location string
	// QRCodeData holds the sealed machine payload exactly as printed on the
	// sticker. Regenerating the QR replaces it.
	QRCodeData string
	IsActive   bool `gorm:"default:true"`
	Metadata   JSON `gorm:"type:jsonb"`
}

type Product struct {
	gorm.Model
	MachineID  uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	PriceCents int    `gorm:"not null"`
	SlotCode   string
	Quantity   int `gorm:"not null;default:0"`
	ImageURL   string
}
