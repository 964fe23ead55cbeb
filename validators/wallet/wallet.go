package walletValidator

import (
	"fingerpays/config"
	"fingerpays/middleware"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var allowedPaymentMethods = map[string]bool{
	"upi":         true,
	"card":        true,
	"net_banking": true,
	"demo":        true,
}

// Recharge validates a wallet top-up request
func Recharge() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount         float64 `json:"amount"`
			PaymentMethod  string  `json:"payment_method"`
			IdempotencyKey string  `json:"idempotency_key"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		minAmount := config.AppConfig.RechargeMinAmount
		maxAmount := config.AppConfig.RechargeMaxAmount
		if reqData.Amount < minAmount || reqData.Amount > maxAmount {
			errors["amount"] = fmt.Sprintf("Amount must be between %.0f and %.0f!", minAmount, maxAmount)
		}
		if reqData.PaymentMethod == "" {
			errors["payment_method"] = "Payment method is required!"
		} else if !allowedPaymentMethods[reqData.PaymentMethod] {
			errors["payment_method"] = "Unsupported payment method!"
		}
		if len(reqData.IdempotencyKey) > 100 {
			errors["idempotency_key"] = "Idempotency key is too long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRecharge", reqData)
		return c.Next()
	}
}

// Payment validates a merchant payment request
func Payment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount         float64 `json:"amount"`
			MerchantName   string  `json:"merchant_name"`
			Description    string  `json:"description"`
			IdempotencyKey string  `json:"idempotency_key"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}
		if reqData.MerchantName == "" {
			errors["merchant_name"] = "Merchant name is required!"
		}
		if len(reqData.IdempotencyKey) > 100 {
			errors["idempotency_key"] = "Idempotency key is too long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPayment", reqData)
		return c.Next()
	}
}
