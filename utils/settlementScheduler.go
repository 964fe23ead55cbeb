package utils

import (
	"errors"
	"fingerpays/config"
	"fingerpays/database"
	"fingerpays/models"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var (
	ErrMaxBalanceExceeded = errors.New("recharge would exceed maximum balance limit")
	ErrWalletNotFound     = errors.New("wallet not found")
)

// How long a claimed order may sit in processing before it is handed back
// to the queue (covers a worker dying mid-settlement)
const stuckOrderTimeout = 5 * time.Minute

const settlementBatchSize = 100

// logSettlement logs settlement worker events with timestamp
func logSettlement(message string) {
	log.Printf("[SETTLEMENT %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializeSettlementScheduler starts the recharge settlement worker and
// the monthly spend reset. Settlement state lives in recharge_orders rows,
// so a restart picks up exactly where the previous process stopped.
func InitializeSettlementScheduler() {
	logSettlement("Initializing settlement scheduler...")

	c := cron.New()

	tick := fmt.Sprintf("@every %ds", config.AppConfig.SettlementTickSeconds)
	c.AddFunc(tick, func() {
		ProcessDueRechargeOrders()
		ReclaimStuckOrders()
	})

	// Reset monthly spend aggregates at midnight on the 1st
	c.AddFunc("0 0 1 * *", func() {
		ResetMonthlySpent()
	})

	c.Start()
	logSettlement("Settlement scheduler started - ticking " + tick)
}

// ProcessDueRechargeOrders claims and settles every pending order whose
// settle_after has passed. Each order is claimed with a conditional status
// update, so two workers can never settle the same order twice.
func ProcessDueRechargeOrders() {
	db := database.Database.Db

	var orders []models.RechargeOrder
	if err := db.Where("status = ? AND settle_after <= ? AND is_deleted = false",
		models.OrderStatusPending, time.Now()).
		Order("settle_after asc").
		Limit(settlementBatchSize).
		Find(&orders).Error; err != nil {
		logSettlement("Error fetching due orders: " + err.Error())
		return
	}

	for i := range orders {
		SettleRechargeOrder(&orders[i])
	}
}

// SettleRechargeOrder settles a single order: claim it, confirm the charge
// with the gateway, then atomically credit the wallet, append the ledger
// row and complete the order.
func SettleRechargeOrder(order *models.RechargeOrder) {
	db := database.Database.Db

	// Claim: pending -> processing. RowsAffected 0 means another worker
	// already has it.
	claim := db.Model(&models.RechargeOrder{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
		Update("status", models.OrderStatusProcessing)
	if claim.Error != nil {
		logSettlement("Error claiming order " + order.OrderReference + ": " + claim.Error.Error())
		return
	}
	if claim.RowsAffected == 0 {
		return
	}

	confirmed, err := ConfirmGatewayCharge(order.OrderReference, order.Amount, order.PaymentMethod)
	if err != nil {
		retryOrder(order, "gateway unreachable: "+err.Error())
		return
	}
	if !confirmed {
		failOrder(order, "charge rejected by payment gateway")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		// The credit is guarded by the max-balance invariant inside the
		// UPDATE itself; the row lock it takes also serializes against
		// concurrent payments on the same wallet.
		res := tx.Model(&models.Wallet{}).
			Where("user_id = ? AND balance + ? <= max_balance AND is_deleted = false", order.UserID, order.Amount).
			Updates(map[string]interface{}{
				"balance":         gorm.Expr("balance + ?", order.Amount),
				"total_recharged": gorm.Expr("total_recharged + ?", order.Amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var wallet models.Wallet
			if err := tx.Where("user_id = ? AND is_deleted = false", order.UserID).First(&wallet).Error; err != nil {
				return ErrWalletNotFound
			}
			return ErrMaxBalanceExceeded
		}

		var wallet models.Wallet
		if err := tx.Where("user_id = ? AND is_deleted = false", order.UserID).First(&wallet).Error; err != nil {
			return err
		}

		transaction := models.Transaction{
			UserID:        order.UserID,
			WalletID:      wallet.ID,
			Type:          models.TransactionTypeRecharge,
			Amount:        order.Amount,
			Status:        models.TransactionStatusCompleted,
			MerchantName:  "Fingerpays Wallet",
			Description:   "Wallet recharge via " + order.PaymentMethod,
			PaymentMethod: order.PaymentMethod,
			ReferenceID:   order.OrderReference,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		res = tx.Model(&models.RechargeOrder{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusProcessing).
			Update("status", models.OrderStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("order no longer in processing state")
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrMaxBalanceExceeded) || errors.Is(err, ErrWalletNotFound) {
			// Permanent conditions, retrying cannot help
			failOrder(order, err.Error())
			return
		}
		retryOrder(order, err.Error())
		return
	}

	logSettlement(fmt.Sprintf("Settled order %s: user=%d amount=%.2f", order.OrderReference, order.UserID, order.Amount))

	// Receipt email is best-effort and off the settlement path
	go func(userID uint, reference string, amount float64) {
		var user models.User
		if err := database.Database.Db.Select("name, email").First(&user, userID).Error; err == nil && user.Email != "" {
			SendRechargeReceiptEmail(user.Email, user.Name, reference, amount)
		}
	}(order.UserID, order.OrderReference, order.Amount)
}

// retryOrder hands a claimed order back to the queue, or fails it once the
// retry budget is spent
func retryOrder(order *models.RechargeOrder, reason string) {
	db := database.Database.Db

	if order.RetryCount+1 >= config.AppConfig.SettlementMaxRetries {
		failOrder(order, "retries exhausted: "+reason)
		return
	}

	if err := db.Model(&models.RechargeOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":         models.OrderStatusPending,
			"retry_count":    gorm.Expr("retry_count + 1"),
			"failure_reason": reason,
		}).Error; err != nil {
		logSettlement("Error requeueing order " + order.OrderReference + ": " + err.Error())
		return
	}

	logSettlement(fmt.Sprintf("Requeued order %s (attempt %d): %s", order.OrderReference, order.RetryCount+1, reason))
}

// failOrder marks an order permanently failed
func failOrder(order *models.RechargeOrder, reason string) {
	db := database.Database.Db

	if err := db.Model(&models.RechargeOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":         models.OrderStatusFailed,
			"failure_reason": reason,
		}).Error; err != nil {
		logSettlement("Error failing order " + order.OrderReference + ": " + err.Error())
		return
	}

	logSettlement("Order " + order.OrderReference + " failed: " + reason)
}

// ReclaimStuckOrders returns orders stuck in processing (a worker died
// after claiming) to the pending queue
func ReclaimStuckOrders() {
	db := database.Database.Db

	res := db.Model(&models.RechargeOrder{}).
		Where("status = ? AND updated_at < ?", models.OrderStatusProcessing, time.Now().Add(-stuckOrderTimeout)).
		Updates(map[string]interface{}{
			"status":      models.OrderStatusPending,
			"retry_count": gorm.Expr("retry_count + 1"),
		})
	if res.Error != nil {
		logSettlement("Error reclaiming stuck orders: " + res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		logSettlement(fmt.Sprintf("Reclaimed %d stuck orders", res.RowsAffected))
	}
}

// ResetMonthlySpent zeroes the monthly_spent aggregate on every wallet
func ResetMonthlySpent() {
	db := database.Database.Db

	res := db.Model(&models.Wallet{}).
		Where("monthly_spent > 0").
		Update("monthly_spent", 0)
	if res.Error != nil {
		logSettlement("Error resetting monthly spend: " + res.Error.Error())
		return
	}

	logSettlement(fmt.Sprintf("Monthly spend reset on %d wallets", res.RowsAffected))
}
