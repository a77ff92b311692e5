package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	VoteTypeLike    = "like"
	VoteTypeDislike = "dislike"
)

type Poll struct {
	gorm.Model
	MachineID uint   `gorm:"not null;index"`
	VendorID  uint   `gorm:"not null;index"`
	Question  string `gorm:"not null"`
	IsActive  bool   `gorm:"default:true"`
	ExpiresAt *time.Time
	Options   []PollOption `gorm:"foreignKey:PollID"`
}

type PollOption struct {
	gorm.Model
	PollID   uint   `gorm:"not null;index"`
	Label    string `gorm:"not null"`
	Position int    `gorm:"not null;default:0"`
}

// PollVote binds an option to a voter identity. Registered customers are keyed
// by CustomerID, anonymous voters by SessionID; the two partial unique indexes
// enforce at most one vote per option on each axis (Postgres treats NULLs as
// distinct, so the inactive axis never collides).
type PollVote struct {
	gorm.Model
	PollOptionID uint  `gorm:"not null;index;uniqueIndex:idx_votes_option_customer;uniqueIndex:idx_votes_option_session"`
	CustomerID   *uint `gorm:"uniqueIndex:idx_votes_option_customer"`
	SessionID    *uint `gorm:"uniqueIndex:idx_votes_option_session"`
	VoteType     string `gorm:"not null;default:'like'"`
}
