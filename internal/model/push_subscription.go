package model

import "time"

// PushSubscription holds a browser push subscription for one of an
// owner's devices. Complaint alerts fan out to every subscription the
// owner has registered.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	OwnerID   string    `gorm:"size:64;not null;index"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
