package userController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"fingerpays/config"
	"fingerpays/database"
	"fingerpays/middleware"
	"fingerpays/models"
	userRoutes "fingerpays/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProfileTest(t *testing.T) (*fiber.App, string, models.User) {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	userRoutes.SetupUserRoutes(app)

	user := models.User{Name: "Profile Student", Email: "profile@test.local", Password: "x", IsEmailVerified: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	return app, token, user
}

func TestGetProfileCreatesMissingRow(t *testing.T) {
	app, token, user := setupProfileTest(t)

	req, err := http.NewRequest("GET", "/user/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile models.Profile
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "Profile Student", profile.FullName)
	assert.True(t, profile.EmailVerified)
}

func TestUpdateProfile(t *testing.T) {
	app, token, user := setupProfileTest(t)

	profile := models.Profile{UserID: user.ID, FullName: user.Name}
	require.NoError(t, database.Database.Db.Create(&profile).Error)

	payload, err := json.Marshal(fiber.Map{
		"full_name":     "Renamed Student",
		"branch":        "Computer Science",
		"year_of_study": "3",
		"student_id":    "CS2023-042",
	})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/user/profile/update", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Status bool           `json:"status"`
		Data   models.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Renamed Student", body.Data.FullName)

	require.NoError(t, database.Database.Db.First(&profile, profile.ID).Error)
	assert.Equal(t, "Renamed Student", profile.FullName)
	assert.Equal(t, "Computer Science", profile.Branch)
	assert.Equal(t, "CS2023-042", profile.StudentID)
}

func TestUpdateProfileValidation(t *testing.T) {
	app, token, _ := setupProfileTest(t)

	payload, err := json.Marshal(fiber.Map{"phone_number": "12345"})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/user/profile/update", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
