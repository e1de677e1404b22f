package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosepay/internal/logger"
	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/analytics"
	"rosepay/internal/testutil"
)

func seed(t *testing.T, store repositories.Store, userID, walletID uint, amount, txType string, at time.Time) {
	t.Helper()
	require.NoError(t, store.CreateTransaction(&models.Transaction{
		UserID:    userID,
		WalletID:  walletID,
		Amount:    decimal.RequireFromString(amount),
		Type:      txType,
		Status:    models.TransactionStatusCompleted,
		CreatedAt: at,
	}))
}

func TestSummarize(t *testing.T) {
	store := testutil.NewStore(t)
	svc := analytics.NewService(store, logger.NewNop())

	alice := testutil.CreateUser(t, store, "alice@example.com")
	w := testutil.CreateWallet(t, store, alice.ID, "0")

	now := time.Now().UTC()
	seed(t, store, alice.ID, w.ID, "100", models.TransactionTypeDeposit, now)
	seed(t, store, alice.ID, w.ID, "20", models.TransactionTypeWithdrawal, now)
	seed(t, store, alice.ID, w.ID, "30", models.TransactionTypeTransfer, now)
	seed(t, store, alice.ID, w.ID, "10", models.TransactionTypePayment, now)
	// Outside the window.
	seed(t, store, alice.ID, w.ID, "999", models.TransactionTypeDeposit, now.AddDate(0, 0, -45))

	summary, err := svc.Summarize(alice.ID, 30)
	require.NoError(t, err)
	assert.True(t, summary.TotalDeposited.Equal(decimal.NewFromInt(100)))
	assert.True(t, summary.TotalWithdrawn.Equal(decimal.NewFromInt(20)))
	assert.True(t, summary.TotalTransferred.Equal(decimal.NewFromInt(30)))
	assert.True(t, summary.TotalPaid.Equal(decimal.NewFromInt(10)))
	assert.True(t, summary.NetFlow.Equal(decimal.NewFromInt(40)))
}
