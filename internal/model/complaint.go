package model

import "time"

// Complaint statuses and priorities.
const (
	ComplaintOpen       = "Open"
	ComplaintInProgress = "In Progress"
	ComplaintResolved   = "Resolved"

	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Complaint is raised by a tenant and worked by the owner. Rows are
// removed when the tenant is deleted.
type Complaint struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     string `gorm:"size:64;not null;index" json:"ownerId"`
	TenantID    uint   `gorm:"column:tenant_id;index" json:"tenantId"`
	TenantName  string `gorm:"column:tenant_name;size:128" json:"tenantName"`
	Title       string `gorm:"size:128;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:16;not null" json:"status"`
	Priority    string `gorm:"size:16" json:"priority"`
	Date        string `gorm:"size:10" json:"date"`
	CreatedAt   time.Time `json:"-"`
}
