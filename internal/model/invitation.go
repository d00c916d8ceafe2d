package model

import "time"

// Invitation lets a tenant claim portal access via a one-time token
// link. Unaccepted invitations expire and are purged by the sweeper.
type Invitation struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     string     `gorm:"size:64;not null;index" json:"ownerId"`
	Token       string     `gorm:"size:64;not null;uniqueIndex" json:"token"`
	TenantID    uint       `gorm:"column:tenant_id;index" json:"tenantId"`
	TenantEmail string     `gorm:"column:tenant_email;size:128" json:"tenantEmail"`
	TenantName  string     `gorm:"column:tenant_name;size:128" json:"tenantName"`
	IsAccepted  bool       `gorm:"column:is_accepted;not null;default:false" json:"isAccepted"`
	ExpiresAt   time.Time  `gorm:"column:expires_at;not null" json:"expiresAt"`
	AcceptedAt  *time.Time `gorm:"column:accepted_at" json:"acceptedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Expired reports whether the invitation can no longer be accepted.
func (i Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
