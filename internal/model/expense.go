package model

import "time"

// Expense is an owner-side outgoing cost entry.
type Expense struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OwnerID     string  `gorm:"size:64;not null;index" json:"ownerId"`
	Title       string  `gorm:"size:128;not null" json:"title"`
	Amount      float64 `gorm:"not null" json:"amount"`
	Category    string  `gorm:"size:32" json:"category"` // Maintenance, Utilities, Staff, Supplies, Other
	Date        string  `gorm:"size:10" json:"date"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"-"`
}
