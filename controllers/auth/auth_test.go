package authController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"fingerpays/config"
	"fingerpays/database"
	"fingerpays/models"
	authRoutes "fingerpays/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupAuthTest(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:            "test-secret",
		SaltRound:         4,
		DefaultDailyLimit: 2000,
		DefaultMaxBalance: 10000,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func doAuthRequest(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(method, path, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed apiResponse
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &parsed))

	return resp, parsed
}

func createVerifiedUser(t *testing.T, email, password string) models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	require.NoError(t, err)

	user := models.User{
		Name:            "Verified Student",
		Email:           email,
		Password:        string(hashed),
		IsEmailVerified: true,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func TestSignupCreatesUserProfileAndOTP(t *testing.T) {
	app := setupAuthTest(t)

	resp, body := doAuthRequest(t, app, "POST", "/auth/signup", fiber.Map{
		"name":     "New Student",
		"email":    "signup@test.local",
		"password": "strongpass1",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, body.Status)

	var user models.User
	require.NoError(t, database.Database.Db.Where("email = ?", "signup@test.local").First(&user).Error)
	assert.False(t, user.IsEmailVerified)
	assert.NotEqual(t, "strongpass1", user.Password)

	var profile models.Profile
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&profile).Error)
	assert.Equal(t, "New Student", profile.FullName)

	var otp models.OTP
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&otp).Error)
	assert.Len(t, otp.Code, 6)
	assert.False(t, otp.IsUsed)
}

func TestSignupValidation(t *testing.T) {
	app := setupAuthTest(t)

	resp, _ := doAuthRequest(t, app, "POST", "/auth/signup", fiber.Map{
		"name":     "ab",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSignupDuplicateEmail(t *testing.T) {
	app := setupAuthTest(t)
	createVerifiedUser(t, "dup@test.local", "strongpass1")

	resp, _ := doAuthRequest(t, app, "POST", "/auth/signup", fiber.Map{
		"name":     "Another Student",
		"email":    "dup@test.local",
		"password": "strongpass1",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLoginSuccess(t *testing.T) {
	app := setupAuthTest(t)
	user := createVerifiedUser(t, "login@test.local", "strongpass1")

	resp, body := doAuthRequest(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "login@test.local",
		"password": "strongpass1",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.NotEmpty(t, data["token"])

	var tracking models.LoginTracking
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&tracking).Error)
}

func TestLoginUnverifiedEmail(t *testing.T) {
	app := setupAuthTest(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("strongpass1"), 4)
	require.NoError(t, err)
	user := models.User{Name: "Unverified", Email: "unverified@test.local", Password: string(hashed)}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	resp, body := doAuthRequest(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "unverified@test.local",
		"password": "strongpass1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body.Message, "not verified")
}

func TestLoginBlocksAfterThreeFailures(t *testing.T) {
	app := setupAuthTest(t)
	user := createVerifiedUser(t, "blocked@test.local", "strongpass1")

	for i := 0; i < 3; i++ {
		resp, _ := doAuthRequest(t, app, "POST", "/auth/login", fiber.Map{
			"email":    "blocked@test.local",
			"password": "wrongpass",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}

	require.NoError(t, database.Database.Db.First(&user, user.ID).Error)
	assert.True(t, user.IsBlocked)

	// Even the right password is refused while blocked
	resp, body := doAuthRequest(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "blocked@test.local",
		"password": "strongpass1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body.Message, "blocked")
}

func TestVerifyOTP(t *testing.T) {
	app := setupAuthTest(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("strongpass1"), 4)
	require.NoError(t, err)
	user := models.User{Name: "To Verify", Email: "verify@test.local", Password: string(hashed)}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	profile := models.Profile{UserID: user.ID, FullName: user.Name}
	require.NoError(t, database.Database.Db.Create(&profile).Error)

	otp := models.OTP{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	require.NoError(t, database.Database.Db.Create(&otp).Error)

	resp, _ := doAuthRequest(t, app, "PATCH", "/auth/verify/otp", fiber.Map{
		"email": "verify@test.local",
		"code":  "123456",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, database.Database.Db.First(&user, user.ID).Error)
	assert.True(t, user.IsEmailVerified)

	require.NoError(t, database.Database.Db.First(&otp, otp.ID).Error)
	assert.True(t, otp.IsUsed)

	require.NoError(t, database.Database.Db.First(&profile, profile.ID).Error)
	assert.True(t, profile.EmailVerified)
}

func TestVerifyOTPExpired(t *testing.T) {
	app := setupAuthTest(t)

	user := models.User{Name: "Expired OTP", Email: "expired@test.local", Password: "x"}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	otp := models.OTP{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      "654321",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, database.Database.Db.Create(&otp).Error)

	resp, body := doAuthRequest(t, app, "PATCH", "/auth/verify/otp", fiber.Map{
		"email": "expired@test.local",
		"code":  "654321",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body.Message, "expired")
}

func TestResetPassword(t *testing.T) {
	app := setupAuthTest(t)
	user := createVerifiedUser(t, "reset@test.local", "oldpassword1")

	otp := models.OTP{
		UserID:      user.ID,
		Email:       user.Email,
		Code:        "111222",
		ExpiresAt:   time.Now().Add(5 * time.Minute),
		Description: "Forgot Password OTP",
	}
	require.NoError(t, database.Database.Db.Create(&otp).Error)

	resp, _ := doAuthRequest(t, app, "PATCH", "/auth/reset/password", fiber.Map{
		"email":        "reset@test.local",
		"code":         "111222",
		"new_password": "newpassword1",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Old password no longer works, new one does
	resp, _ = doAuthRequest(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "reset@test.local",
		"password": "oldpassword1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doAuthRequest(t, app, "POST", "/auth/login", fiber.Map{
		"email":    "reset@test.local",
		"password": "newpassword1",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
