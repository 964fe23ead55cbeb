package demoRoutes

import (
	demoController "fingerpays/controllers/demo"
	"fingerpays/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDemoRoutes(app *fiber.App) {
	demoGroup := app.Group("/demo")

	demoGroup.Post("/transactions", middleware.JWTMiddleware, demoController.SeedTransactions)
}
