package models

import (
	"gorm.io/gorm"
)

// Wallet tracks one balance per user along with spend aggregates and limits.
// Balance never drops below zero and never exceeds MaxBalance; both bounds
// are enforced by conditional updates, never by an in-memory check alone.
type Wallet struct {
	gorm.Model
	UserID         uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance        float64 `gorm:"not null;default:0" json:"balance"`
	TotalRecharged float64 `gorm:"not null;default:0" json:"total_recharged"`
	TotalSpent     float64 `gorm:"not null;default:0" json:"total_spent"`
	MonthlySpent   float64 `gorm:"not null;default:0" json:"monthly_spent"`
	DailyLimit     float64 `gorm:"not null;default:2000" json:"daily_limit"`
	MaxBalance     float64 `gorm:"not null;default:10000" json:"max_balance"`
	IsDeleted      bool    `gorm:"default:false" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}
