package model

import "time"

// Setting is the per-owner property profile. One row per owner.
type Setting struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	OwnerID        string `gorm:"size:64;not null;uniqueIndex" json:"ownerId"`
	PGName         string `gorm:"column:pg_name;size:128" json:"pgName"`
	Address        string `gorm:"size:256" json:"address"`
	DefaultRentDay int    `gorm:"column:default_rent_day;not null;default:5" json:"defaultRentDay"`
	ManagerName    string `gorm:"column:manager_name;size:128" json:"managerName"`
	ManagerPhone   string `gorm:"column:manager_phone;size:20" json:"managerPhone"`
	UpdatedAt      time.Time `json:"-"`
}
