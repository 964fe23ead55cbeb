package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records the device and address of every successful login
type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	Device    string    `gorm:"size:255" json:"device"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}
