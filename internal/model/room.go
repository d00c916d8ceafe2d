package model

import "time"

// Room types. Capacity is derived from the type once, at creation time,
// and stored; a later type edit does not recompute it.
const (
	RoomTypeSingle = "Single"
	RoomTypeDouble = "Double"
	RoomTypeTriple = "Triple"
)

// Room statuses.
const (
	RoomAvailable   = "Available"
	RoomOccupied    = "Occupied"
	RoomMaintenance = "Maintenance"
)

// Room represents a lettable room belonging to one owner. Tenants
// reference a room by its human-facing Number, not by ID, so Number is
// unique per owner.
type Room struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	OwnerID          string  `gorm:"size:64;not null;uniqueIndex:uq_rooms_owner_number" json:"ownerId"`
	Number           string  `gorm:"size:32;not null;uniqueIndex:uq_rooms_owner_number" json:"number"`
	Type             string  `gorm:"size:16;not null" json:"type"`
	Capacity         int     `gorm:"not null;default:1" json:"capacity"`
	CurrentOccupancy int     `gorm:"column:current_occupancy;not null;default:0" json:"currentOccupancy"`
	Status           string  `gorm:"size:16;not null" json:"status"`
	Price            float64 `json:"price"`
	Floor            int     `json:"floor"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}

// CapacityForType maps a room type to the number of beds it supports.
// Unknown types fall back to 1.
func CapacityForType(roomType string) int {
	switch roomType {
	case RoomTypeDouble:
		return 2
	case RoomTypeTriple:
		return 3
	default:
		return 1
	}
}
