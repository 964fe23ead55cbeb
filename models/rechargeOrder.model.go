package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus defines the lifecycle of a recharge order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusFailed     OrderStatus = "failed"
)

// RechargeOrder tracks a requested top-up until the settlement worker
// credits it into the wallet. State lives entirely in this row, so a
// restart never loses an order: pending rows are simply picked up again.
type RechargeOrder struct {
	gorm.Model
	UserID         uint        `gorm:"not null;index;uniqueIndex:idx_recharge_orders_user_key,priority:1" json:"user_id"`
	Amount         float64     `gorm:"not null" json:"amount"`
	PaymentMethod  string      `gorm:"type:varchar(50);not null" json:"payment_method"`
	OrderReference string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"order_reference"`
	IdempotencyKey *string     `gorm:"type:varchar(100);uniqueIndex:idx_recharge_orders_user_key,priority:2" json:"idempotency_key,omitempty"`
	Status         OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	SettleAfter    time.Time   `gorm:"not null" json:"settle_after"`
	RetryCount     int         `gorm:"default:0" json:"retry_count"`
	FailureReason  string      `gorm:"type:text" json:"failure_reason,omitempty"`
	IsDeleted      bool        `gorm:"default:false" json:"-"`
}

func (RechargeOrder) TableName() string {
	return "recharge_orders"
}
