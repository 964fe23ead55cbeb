package walletRoutes

import (
	walletController "fingerpays/controllers/wallet"
	"fingerpays/middleware"
	walletValidator "fingerpays/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(app *fiber.App) {
	walletGroup := app.Group("/wallet")

	walletGroup.Get("/", middleware.JWTMiddleware, walletController.GetWallet)
	walletGroup.Post("/", middleware.JWTMiddleware, walletController.GetWallet)
	walletGroup.Get("/transactions", middleware.JWTMiddleware, walletController.GetTransactions)
	walletGroup.Post("/recharge", walletValidator.Recharge(), middleware.JWTMiddleware, walletController.Recharge)
	walletGroup.Get("/recharge/status", middleware.JWTMiddleware, walletController.GetRechargeStatus)
	walletGroup.Post("/payment", walletValidator.Payment(), middleware.JWTMiddleware, walletController.Payment)
}
