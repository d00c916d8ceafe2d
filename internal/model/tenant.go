package model

import "time"

// Tenant statuses. A tenant who has Left keeps their row but no longer
// counts towards room occupancy.
const (
	TenantActive       = "Active"
	TenantNoticePeriod = "Notice Period"
	TenantLeft         = "Left"
)

// Rent statuses.
const (
	RentPaid    = "Paid"
	RentPending = "Pending"
	RentOverdue = "Overdue"
)

// Tenant represents a paying guest. RoomNumber is a soft foreign key to
// Room.Number scoped by owner; an empty string means unassigned.
type Tenant struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OwnerID    string  `gorm:"size:64;not null;index" json:"ownerId"`
	Name       string  `gorm:"size:128;not null" json:"name"`
	RoomNumber string  `gorm:"column:room_number;size:32;index" json:"roomNumber"`
	JoinDate   string  `gorm:"column:join_date;size:10" json:"joinDate"`
	Status     string  `gorm:"size:16;not null" json:"status"`
	RentStatus string  `gorm:"column:rent_status;size:16;not null" json:"rentStatus"`
	Phone      string  `gorm:"size:20" json:"phone"`
	Email      string  `gorm:"size:128;index" json:"email"`
	RentAmount float64 `gorm:"column:rent_amount" json:"rentAmount"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
