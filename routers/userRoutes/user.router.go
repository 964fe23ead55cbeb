package userRoutes

import (
	userProfileController "fingerpays/controllers/userControllers"
	"fingerpays/middleware"
	userProfileValidator "fingerpays/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userProfileController.GetProfile)
	userGroup.Post("/profile/update", userProfileValidator.UpdateProfile(), middleware.JWTMiddleware, userProfileController.UpdateProfile)
}
