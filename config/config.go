package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	EmailSender string
	Password    string // SMTP Password

	// Wallet limits applied to newly created wallets
	DefaultDailyLimit float64
	DefaultMaxBalance float64

	// Recharge amount bounds (INR)
	RechargeMinAmount float64
	RechargeMaxAmount float64

	// How long a recharge order waits before the settlement worker
	// picks it up, and how often the worker ticks
	SettlementDelaySeconds int
	SettlementTickSeconds  int
	SettlementMaxRetries   int

	// Payment gateway sandbox; empty URL means charges are auto-confirmed
	GatewayApiURL string
	GatewayApiKey string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	// Initialize AppConfig with values from environment variables
	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "fingerpays"),

		EmailSender: getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:    getEnv("PASSWORD", "defaultSecret"),

		DefaultDailyLimit: getEnvFloat("WALLET_DAILY_LIMIT", 2000),
		DefaultMaxBalance: getEnvFloat("WALLET_MAX_BALANCE", 10000),

		RechargeMinAmount: getEnvFloat("RECHARGE_MIN_AMOUNT", 50),
		RechargeMaxAmount: getEnvFloat("RECHARGE_MAX_AMOUNT", 10000),

		SettlementDelaySeconds: getEnvInt("SETTLEMENT_DELAY_SECONDS", 5),
		SettlementTickSeconds:  getEnvInt("SETTLEMENT_TICK_SECONDS", 5),
		SettlementMaxRetries:   getEnvInt("SETTLEMENT_MAX_RETRIES", 3),

		GatewayApiURL: getEnv("GATEWAY_API_URL", ""),
		GatewayApiKey: getEnv("GATEWAY_API_KEY", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.GatewayApiURL == "" {
		log.Println("Warning: GATEWAY_API_URL not set. Recharge orders settle without gateway confirmation.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvFloat retrieves an environment variable as a float or returns the default float value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}
