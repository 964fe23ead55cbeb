package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionType defines the type of wallet transaction
type TransactionType string

const (
	TransactionTypeRecharge    TransactionType = "recharge"
	TransactionTypePayment     TransactionType = "payment"
	TransactionTypeRefund      TransactionType = "refund"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
)

// TransactionStatus defines the status of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is an immutable ledger entry. Rows are only ever appended;
// reversals are new rows, not edits.
type Transaction struct {
	gorm.Model
	UserID         uint              `gorm:"not null;index;uniqueIndex:idx_transactions_user_key,priority:1" json:"user_id"`
	WalletID       uint              `gorm:"not null;index" json:"wallet_id"`
	Type           TransactionType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount         float64           `gorm:"not null" json:"amount"` // positive magnitude
	Status         TransactionStatus `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	MerchantName   string            `gorm:"type:varchar(255)" json:"merchant_name,omitempty"`
	Description    string            `gorm:"type:text" json:"description,omitempty"`
	PaymentMethod  string            `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	ReferenceID    string            `gorm:"type:varchar(100);uniqueIndex" json:"reference_id"`
	IdempotencyKey *string           `gorm:"type:varchar(100);uniqueIndex:idx_transactions_user_key,priority:2" json:"idempotency_key,omitempty"`
	Metadata       datatypes.JSON    `json:"metadata,omitempty"`
	IsDeleted      bool              `gorm:"default:false" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
