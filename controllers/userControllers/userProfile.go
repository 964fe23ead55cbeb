package userController

import (
	"errors"
	"fingerpays/database"
	"fingerpays/middleware"
	"fingerpays/models"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetProfile returns the user's profile together with the account basics
func GetProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	var profile models.Profile
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = false", userId).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
		}
		// Older accounts may predate the profile row
		profile = models.Profile{
			UserID:        userId,
			FullName:      user.Name,
			PhoneNumber:   user.Mobile,
			EmailVerified: user.IsEmailVerified,
		}
		if err := database.Database.Db.Create(&profile).Error; err != nil {
			log.Printf("Error creating profile for user %d: %v", userId, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
		}
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched!", fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

// UpdateProfile updates the editable profile fields
func UpdateProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedProfileUpdate").(*struct {
		FullName    string `json:"full_name"`
		PhoneNumber string `json:"phone_number"`
		Branch      string `json:"branch"`
		YearOfStudy string `json:"year_of_study"`
		StudentID   string `json:"student_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var profile models.Profile
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = false", userId).First(&profile).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
		}
		profile = models.Profile{UserID: userId, EmailVerified: user.IsEmailVerified}
	}

	if reqData.FullName != "" {
		profile.FullName = reqData.FullName
	}
	if reqData.PhoneNumber != "" {
		profile.PhoneNumber = reqData.PhoneNumber
	}
	if reqData.Branch != "" {
		profile.Branch = reqData.Branch
	}
	if reqData.YearOfStudy != "" {
		profile.YearOfStudy = reqData.YearOfStudy
	}
	if reqData.StudentID != "" {
		profile.StudentID = reqData.StudentID
	}

	if err := database.Database.Db.Save(&profile).Error; err != nil {
		log.Printf("Error saving profile for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated!", profile)
}
