package walletController

import (
	"errors"
	"fingerpays/config"
	"fingerpays/database"
	"fingerpays/middleware"
	"fingerpays/models"
	"fingerpays/utils"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetWallet returns the user's wallet, creating it on first access
func GetWallet(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	wallet, err := GetOrCreate(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet fetched!", wallet)
}

// GetOrCreate fetches the wallet for a user, creating one with the
// configured defaults on first access. The insert ignores unique conflicts
// so two concurrent first requests both end up reading the same row.
func GetOrCreate(db *gorm.DB, userId uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := db.Where("user_id = ? AND is_deleted = false", userId).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := models.Wallet{
		UserID:     userId,
		Balance:    0,
		DailyLimit: config.AppConfig.DefaultDailyLimit,
		MaxBalance: config.AppConfig.DefaultMaxBalance,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	if err := db.Where("user_id = ? AND is_deleted = false", userId).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetTransactions returns the user's transaction history, newest first
func GetTransactions(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	txnType := c.Query("type") // recharge, payment, refund, transfer_in, transfer_out

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.Transaction{}).Where("user_id = ? AND is_deleted = false", userId)

	if txnType != "" && txnType != "all" {
		query = query.Where("type = ?", txnType)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": totalPages,
		},
	})
}

// Recharge creates a pending recharge order. The money is credited later
// by the settlement worker, never in the request path.
func Recharge(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedRecharge").(*struct {
		Amount         float64 `json:"amount"`
		PaymentMethod  string  `json:"payment_method"`
		IdempotencyKey string  `json:"idempotency_key"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Replaying the same idempotency key returns the original order
	if reqData.IdempotencyKey != "" {
		var existing models.RechargeOrder
		if err := db.Where("idempotency_key = ? AND user_id = ? AND is_deleted = false",
			reqData.IdempotencyKey, userId).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Recharge already submitted!", rechargeOrderView(&existing))
		}
	}

	wallet, err := GetOrCreate(db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
	}

	if wallet.Balance+reqData.Amount > wallet.MaxBalance {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Recharge would exceed maximum balance limit!", fiber.Map{
			"current_balance": wallet.Balance,
			"max_balance":     wallet.MaxBalance,
		})
	}

	// Every order carries a key; without a client-supplied one a
	// server-side key still dedupes the stored row
	idemKey := reqData.IdempotencyKey
	if idemKey == "" {
		idemKey = utils.GenerateIdempotencyKey()
	}

	order := models.RechargeOrder{
		UserID:         userId,
		Amount:         reqData.Amount,
		PaymentMethod:  reqData.PaymentMethod,
		OrderReference: utils.GenerateOrderReference(),
		IdempotencyKey: &idemKey,
		Status:         models.OrderStatusPending,
		SettleAfter:    time.Now().Add(time.Duration(config.AppConfig.SettlementDelaySeconds) * time.Second),
	}

	if err := db.Create(&order).Error; err != nil {
		// A concurrent replay can win the unique race on the key; return
		// whatever order that request created
		if reqData.IdempotencyKey != "" {
			var existing models.RechargeOrder
			if lookupErr := db.Where("idempotency_key = ? AND user_id = ? AND is_deleted = false",
				reqData.IdempotencyKey, userId).First(&existing).Error; lookupErr == nil {
				return middleware.JsonResponse(c, fiber.StatusOK, true, "Recharge already submitted!", rechargeOrderView(&existing))
			}
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create recharge order!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recharge order created! Settlement is in progress.", rechargeOrderView(&order))
}

func rechargeOrderView(order *models.RechargeOrder) fiber.Map {
	return fiber.Map{
		"order_reference": order.OrderReference,
		"amount":          order.Amount,
		"payment_method":  order.PaymentMethod,
		"status":          order.Status,
		"created_at":      order.CreatedAt,
	}
}

// GetRechargeStatus returns the settlement state of a recharge order
func GetRechargeStatus(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reference := c.Query("order_reference")
	if reference == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Order reference is required!", nil)
	}

	var order models.RechargeOrder
	if err := database.Database.Db.Where("order_reference = ? AND user_id = ? AND is_deleted = false",
		reference, userId).First(&order).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Recharge order not found!", nil)
	}

	data := rechargeOrderView(&order)
	if order.Status == models.OrderStatusFailed {
		data["failure_reason"] = order.FailureReason
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Recharge status fetched!", data)
}

// Payment debits the wallet for a merchant purchase. The balance and the
// daily spending limit are both enforced inside a single database
// transaction, so concurrent payments can never overdraw either.
func Payment(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedPayment").(*struct {
		Amount         float64 `json:"amount"`
		MerchantName   string  `json:"merchant_name"`
		Description    string  `json:"description"`
		IdempotencyKey string  `json:"idempotency_key"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if reqData.IdempotencyKey != "" {
		var existing models.Transaction
		if err := db.Where("idempotency_key = ? AND user_id = ? AND is_deleted = false",
			reqData.IdempotencyKey, userId).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already processed!", paymentView(&existing, nil))
		}
	}

	wallet, err := GetOrCreate(db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch wallet!", nil)
	}

	idemKey := reqData.IdempotencyKey
	if idemKey == "" {
		idemKey = utils.GenerateIdempotencyKey()
	}

	var transaction models.Transaction
	var balanceAfter float64
	var remainingLimit float64

	errInsufficient := errors.New("insufficient balance")
	errDailyLimit := errors.New("daily limit exceeded")

	txErr := db.Transaction(func(tx *gorm.DB) error {
		// The conditional update enforces the balance invariant and takes
		// the wallet row lock that serializes concurrent payments
		res := tx.Model(&models.Wallet{}).
			Where("id = ? AND balance >= ? AND is_deleted = false", wallet.ID, reqData.Amount).
			Updates(map[string]interface{}{
				"balance":       gorm.Expr("balance - ?", reqData.Amount),
				"total_spent":   gorm.Expr("total_spent + ?", reqData.Amount),
				"monthly_spent": gorm.Expr("monthly_spent + ?", reqData.Amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInsufficient
		}

		// Daily spend is recomputed from the ledger under the row lock;
		// going over rolls the debit back
		var spentToday float64
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND type = ? AND status = ? AND created_at >= ? AND is_deleted = false",
				userId, models.TransactionTypePayment, models.TransactionStatusCompleted, now.BeginningOfDay()).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&spentToday).Error; err != nil {
			return err
		}
		if spentToday+reqData.Amount > wallet.DailyLimit {
			remainingLimit = wallet.DailyLimit - spentToday
			if remainingLimit < 0 {
				remainingLimit = 0
			}
			return errDailyLimit
		}

		transaction = models.Transaction{
			UserID:         userId,
			WalletID:       wallet.ID,
			Type:           models.TransactionTypePayment,
			Amount:         reqData.Amount,
			Status:         models.TransactionStatusCompleted,
			MerchantName:   reqData.MerchantName,
			Description:    reqData.Description,
			PaymentMethod:  "wallet",
			ReferenceID:    utils.GeneratePaymentReference(),
			IdempotencyKey: &idemKey,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		var updated models.Wallet
		if err := tx.First(&updated, wallet.ID).Error; err != nil {
			return err
		}
		balanceAfter = updated.Balance

		return nil
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, errInsufficient):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient wallet balance!", fiber.Map{
				"balance": wallet.Balance,
				"amount":  reqData.Amount,
			})
		case errors.Is(txErr, errDailyLimit):
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Daily spending limit exceeded!", fiber.Map{
				"daily_limit":     wallet.DailyLimit,
				"remaining_limit": remainingLimit,
			})
		default:
			if reqData.IdempotencyKey != "" {
				var existing models.Transaction
				if err := db.Where("idempotency_key = ? AND user_id = ? AND is_deleted = false",
					reqData.IdempotencyKey, userId).First(&existing).Error; err == nil {
					return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment already processed!", paymentView(&existing, nil))
				}
			}
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process payment!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true,
		fmt.Sprintf("Payment of %.2f to %s successful!", reqData.Amount, reqData.MerchantName),
		paymentView(&transaction, &balanceAfter))
}

func paymentView(transaction *models.Transaction, balanceAfter *float64) fiber.Map {
	data := fiber.Map{
		"reference_id":  transaction.ReferenceID,
		"amount":        transaction.Amount,
		"merchant_name": transaction.MerchantName,
		"status":        transaction.Status,
		"created_at":    transaction.CreatedAt,
	}
	if balanceAfter != nil {
		data["balance_after"] = *balanceAfter
	}
	return data
}
