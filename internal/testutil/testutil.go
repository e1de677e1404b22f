// Package testutil provides shared fixtures for service tests: an
// in-memory sqlite store migrated to the current schema plus helpers
// for seeding users and wallets.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
)

var dbSeq atomic.Int64

// NewStore opens a fresh in-memory database. Each call gets its own
// named shared-cache instance so the pool's connections see one schema.
func NewStore(t *testing.T) repositories.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	// sqlite allows a single writer; one pooled connection queues
	// concurrent transactions instead of failing them.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repositories.Migrate(db))
	return repositories.NewStore(db)
}

// CreateUser seeds a user with a throwaway password hash.
func CreateUser(t *testing.T, store repositories.Store, email string) *models.User {
	t.Helper()
	u := &models.User{
		Email:    email,
		Password: "x",
		FullName: "Test User",
		Status:   "active",
	}
	require.NoError(t, store.CreateUser(u))
	return u
}

// CreateWallet seeds an active USD wallet with the given balance.
func CreateWallet(t *testing.T, store repositories.Store, userID uint, balance string) *models.Wallet {
	t.Helper()
	w := &models.Wallet{
		UserID:   userID,
		Balance:  decimal.RequireFromString(balance),
		Currency: "USD",
		Status:   models.WalletStatusActive,
	}
	require.NoError(t, store.CreateWallet(w))
	return w
}
