package userValidator

import (
	"fingerpays/middleware"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func isValidPhoneNumber(phone string) bool {
	re := regexp.MustCompile(`^\d{10}$`)
	return re.MatchString(phone)
}

// UpdateProfile validator middleware
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			FullName    string `json:"full_name"`
			PhoneNumber string `json:"phone_number"`
			Branch      string `json:"branch"`
			YearOfStudy string `json:"year_of_study"`
			StudentID   string `json:"student_id"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.FullName != "" && len(strings.TrimSpace(reqData.FullName)) < 3 {
			errors["full_name"] = "Full name must be at least 3 characters long!"
		}
		if reqData.PhoneNumber != "" && !isValidPhoneNumber(reqData.PhoneNumber) {
			errors["phone_number"] = "Invalid phone number!"
		}
		if len(reqData.StudentID) > 50 {
			errors["student_id"] = "Student ID is too long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfileUpdate", reqData)
		return c.Next()
	}
}
