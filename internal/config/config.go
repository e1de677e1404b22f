package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDecimalEnv returns a decimal environment variable or a default value.
func GetDecimalEnv(key, defaultVal string) decimal.Decimal {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultVal)
}

// IsProduction checks if the app runs in production mode.
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}

// Transaction limit settings. A single transaction must stay inside
// [MIN_TRANSACTION_AMOUNT, MAX_TRANSACTION_AMOUNT] and a (user, wallet)
// pair may move at most DAILY_TRANSACTION_LIMIT per UTC day.
func MinTransactionAmount() decimal.Decimal {
	return GetDecimalEnv("MIN_TRANSACTION_AMOUNT", "0.01")
}

func MaxTransactionAmount() decimal.Decimal {
	return GetDecimalEnv("MAX_TRANSACTION_AMOUNT", "10000")
}

func DailyTransactionLimit() decimal.Decimal {
	return GetDecimalEnv("DAILY_TRANSACTION_LIMIT", "50000")
}
