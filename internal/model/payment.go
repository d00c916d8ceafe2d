package model

import "time"

// Payment records a manually logged payment against a tenant. Rows are
// removed when the tenant is deleted (see store.DeleteTenantCascade).
type Payment struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OwnerID    string  `gorm:"size:64;not null;index" json:"ownerId"`
	TenantID   uint    `gorm:"column:tenant_id;index" json:"tenantId"`
	TenantName string  `gorm:"column:tenant_name;size:128" json:"tenantName"`
	Amount     float64 `gorm:"not null" json:"amount"`
	Date       string  `gorm:"size:10" json:"date"`
	Type       string  `gorm:"size:32" json:"type"`   // Rent, Security Deposit, Bill, Other
	Method     string  `gorm:"size:32" json:"method"` // Cash, UPI, Bank Transfer
	CreatedAt  time.Time `json:"-"`
}
