package demoController_test

import (
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
	demoRoutes "fingerpays/routers/demoRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDemoTest(t *testing.T) (*fiber.App, string, models.User) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:            "test-secret",
		DefaultDailyLimit: 2000,
		DefaultMaxBalance: 10000,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	demoRoutes.SetupDemoRoutes(app)

	user := models.User{Name: "Demo Student", Email: "demo@test.local", Password: "x", IsEmailVerified: true}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)

	return app, token, user
}

func seedDemo(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest("POST", "/demo/transactions", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestSeedTransactions(t *testing.T) {
	app, token, user := setupDemoTest(t)

	resp := seedDemo(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body struct {
		Status bool `json:"status"`
		Data   struct {
			Transactions int `json:"transactions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.True(t, body.Status)
	assert.Equal(t, 5, body.Data.Transactions)

	var count int64
	database.Database.Db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(5), count)

	// Aggregates agree with the seeded ledger: 1500 recharged, 220 spent
	var wallet models.Wallet
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&wallet).Error)
	assert.Equal(t, float64(1280), wallet.Balance)
	assert.Equal(t, float64(1500), wallet.TotalRecharged)
	assert.Equal(t, float64(220), wallet.TotalSpent)

	// References are namespaced per user
	var txn models.Transaction
	require.NoError(t, database.Database.Db.Where("user_id = ? AND type = ?", user.ID, models.TransactionTypeRecharge).
		Order("id asc").First(&txn).Error)
	assert.Equal(t, fmt.Sprintf("DEMO_RECHARGE_001_U%d", user.ID), txn.ReferenceID)
}

func TestSeedConflictOnPartialDemoLedger(t *testing.T) {
	app, token, user := setupDemoTest(t)

	// A prior seed attempt got some rows in without the marker (the losing
	// side of a concurrent seed); the unique index rejects the batch and
	// the handler must still answer with the conflict, not a server error
	wallet := models.Wallet{UserID: user.ID, DailyLimit: 2000, MaxBalance: 10000}
	require.NoError(t, database.Database.Db.Create(&wallet).Error)
	existing := models.Transaction{
		UserID:      user.ID,
		WalletID:    wallet.ID,
		Type:        models.TransactionTypePayment,
		Amount:      45,
		Status:      models.TransactionStatusCompleted,
		ReferenceID: fmt.Sprintf("DEMO_PAYMENT_001_U%d", user.ID),
	}
	require.NoError(t, database.Database.Db.Create(&existing).Error)

	resp := seedDemo(t, app, token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// The rejected batch was rolled back entirely
	var count int64
	database.Database.Db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, database.Database.Db.First(&wallet, wallet.ID).Error)
	assert.Equal(t, float64(0), wallet.Balance)
}

func TestSeedTransactionsOnlyOnce(t *testing.T) {
	app, token, user := setupDemoTest(t)

	resp := seedDemo(t, app, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = seedDemo(t, app, token)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(5), count)
}
