package transfer_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosepay/internal/logger"
	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/limits"
	"rosepay/internal/services/notification"
	"rosepay/internal/services/transfer"
	"rosepay/internal/testutil"
)

func newEngine(store repositories.Store) transfer.Engine {
	v := limits.NewValidator(limits.Config{
		MinAmount:  decimal.RequireFromString("0.01"),
		MaxAmount:  decimal.NewFromInt(10000),
		DailyLimit: decimal.NewFromInt(50000),
	})
	return transfer.NewEngine(store, repositories.NoopWalletCache{}, v, notification.NopMailer{}, logger.NewNop())
}

func TestTransferMovesFunds(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "200")
	dst := testutil.CreateWallet(t, store, bob.ID, "50")

	txn, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &src.ID,
		DestWalletID:   dst.ID,
		Amount:         decimal.NewFromInt(75),
		Type:           models.TransactionTypeTransfer,
		Description:    "rent share",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, src.ID, txn.WalletID)
	require.NotNil(t, txn.RecipientWalletID)
	assert.Equal(t, dst.ID, *txn.RecipientWalletID)
	assert.NotEmpty(t, txn.Reference)

	srcAfter, err := store.GetWallet(src.ID)
	require.NoError(t, err)
	dstAfter, err := store.GetWallet(dst.ID)
	require.NoError(t, err)
	assert.True(t, srcAfter.Balance.Equal(decimal.NewFromInt(125)), srcAfter.Balance.String())
	assert.True(t, dstAfter.Balance.Equal(decimal.NewFromInt(125)), dstAfter.Balance.String())
}

func TestTransferConservesTotal(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "300.50")
	dst := testutil.CreateWallet(t, store, bob.ID, "99.50")
	before := src.Balance.Add(dst.Balance)

	for i := 0; i < 5; i++ {
		_, err := engine.Transfer(context.Background(), transfer.Request{
			UserID:         alice.ID,
			SourceWalletID: &src.ID,
			DestWalletID:   dst.ID,
			Amount:         decimal.RequireFromString("10.10"),
			Type:           models.TransactionTypeTransfer,
		})
		require.NoError(t, err)
	}

	srcAfter, _ := store.GetWallet(src.ID)
	dstAfter, _ := store.GetWallet(dst.ID)
	assert.True(t, srcAfter.Balance.Add(dstAfter.Balance).Equal(before))
}

func TestTransferInsufficientFunds(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "10")
	dst := testutil.CreateWallet(t, store, bob.ID, "0")

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &src.ID,
		DestWalletID:   dst.ID,
		Amount:         decimal.NewFromInt(25),
		Type:           models.TransactionTypeTransfer,
	})
	assert.ErrorIs(t, err, transfer.ErrInsufficientFunds)

	// Nothing moved and nothing was recorded.
	srcAfter, _ := store.GetWallet(src.ID)
	dstAfter, _ := store.GetWallet(dst.ID)
	assert.True(t, srcAfter.Balance.Equal(decimal.NewFromInt(10)))
	assert.True(t, dstAfter.Balance.IsZero())
	txns, err := store.ListTransactions(alice.ID, 0, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestTransferSameWallet(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	w := testutil.CreateWallet(t, store, alice.ID, "100")

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &w.ID,
		DestWalletID:   w.ID,
		Amount:         decimal.NewFromInt(5),
		Type:           models.TransactionTypeTransfer,
	})
	assert.ErrorIs(t, err, transfer.ErrSameWallet)
}

func TestTransferForeignSourceLooksMissing(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	bobWallet := testutil.CreateWallet(t, store, bob.ID, "500")
	aliceWallet := testutil.CreateWallet(t, store, alice.ID, "0")

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &bobWallet.ID,
		DestWalletID:   aliceWallet.ID,
		Amount:         decimal.NewFromInt(50),
		Type:           models.TransactionTypeTransfer,
	})
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
}

func TestTransferInactiveWallet(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "100")
	dst := testutil.CreateWallet(t, store, bob.ID, "0")
	dst.Status = models.WalletStatusDisabled
	require.NoError(t, store.SaveWallet(dst))

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &src.ID,
		DestWalletID:   dst.ID,
		Amount:         decimal.NewFromInt(10),
		Type:           models.TransactionTypeTransfer,
	})
	assert.ErrorIs(t, err, transfer.ErrWalletInactive)
}

func TestTransferAmountBounds(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "100000")
	dst := testutil.CreateWallet(t, store, bob.ID, "0")

	var amountErr *limits.AmountError

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &src.ID,
		DestWalletID:   dst.ID,
		Amount:         decimal.Zero,
		Type:           models.TransactionTypeTransfer,
	})
	require.ErrorAs(t, err, &amountErr)
	assert.True(t, amountErr.TooSmall)

	_, err = engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &src.ID,
		DestWalletID:   dst.ID,
		Amount:         decimal.NewFromInt(10001),
		Type:           models.TransactionTypeTransfer,
	})
	require.ErrorAs(t, err, &amountErr)
	assert.False(t, amountErr.TooSmall)
}

func TestTransferDailyLimit(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "100000")
	dst := testutil.CreateWallet(t, store, bob.ID, "0")

	// Five max-size transfers exhaust the 50000 daily limit.
	for i := 0; i < 5; i++ {
		_, err := engine.Transfer(context.Background(), transfer.Request{
			UserID:         alice.ID,
			SourceWalletID: &src.ID,
			DestWalletID:   dst.ID,
			Amount:         decimal.NewFromInt(10000),
			Type:           models.TransactionTypeTransfer,
		})
		require.NoError(t, err)
	}

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &src.ID,
		DestWalletID:   dst.ID,
		Amount:         decimal.NewFromInt(1),
		Type:           models.TransactionTypeTransfer,
	})
	var dailyErr *limits.DailyLimitError
	require.ErrorAs(t, err, &dailyErr)
	assert.True(t, dailyErr.Limit.Equal(decimal.NewFromInt(50000)))
	assert.True(t, dailyErr.Remaining.IsZero())
}

func TestDepositCreditsWallet(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	w := testutil.CreateWallet(t, store, alice.ID, "10")

	paymentID := "pay_123"
	txn, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:           alice.ID,
		DestWalletID:     w.ID,
		Amount:           decimal.RequireFromString("49.99"),
		Type:             models.TransactionTypeDeposit,
		GatewayPaymentID: &paymentID,
	})
	require.NoError(t, err)
	assert.Equal(t, w.ID, txn.WalletID)
	assert.Nil(t, txn.RecipientWalletID)

	after, _ := store.GetWallet(w.ID)
	assert.True(t, after.Balance.Equal(decimal.RequireFromString("59.99")))
}

func TestTransferDailyLimitUnderConcurrentAttempts(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "100000")
	dst := testutil.CreateWallet(t, store, bob.ID, "0")

	// Eight max-size attempts race for a 50000 daily limit; at most
	// five can get through.
	var wg sync.WaitGroup
	var succeeded atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Transfer(context.Background(), transfer.Request{
				UserID:         alice.ID,
				SourceWalletID: &src.ID,
				DestWalletID:   dst.ID,
				Amount:         decimal.NewFromInt(10000),
				Type:           models.TransactionTypeTransfer,
			})
			if err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(5), succeeded.Load())

	after, err := store.GetWallet(dst.ID)
	require.NoError(t, err)
	want := decimal.NewFromInt(10000 * succeeded.Load())
	assert.True(t, after.Balance.Equal(want))
	assert.True(t, after.Balance.LessThanOrEqual(decimal.NewFromInt(50000)))

	src2, err := store.GetWallet(src.ID)
	require.NoError(t, err)
	assert.True(t, src2.Balance.Add(after.Balance).Equal(decimal.NewFromInt(100000)))
}

func TestDepositRequiresOwnWallet(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	bobWallet := testutil.CreateWallet(t, store, bob.ID, "0")

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:       alice.ID,
		DestWalletID: bobWallet.ID,
		Amount:       decimal.NewFromInt(10),
		Type:         models.TransactionTypeDeposit,
	})
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
}

func TestDepositCountsTowardDailyLimit(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	w := testutil.CreateWallet(t, store, alice.ID, "0")

	for i := 0; i < 5; i++ {
		_, err := engine.Transfer(context.Background(), transfer.Request{
			UserID:       alice.ID,
			DestWalletID: w.ID,
			Amount:       decimal.NewFromInt(10000),
			Type:         models.TransactionTypeDeposit,
		})
		require.NoError(t, err)
	}

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:       alice.ID,
		DestWalletID: w.ID,
		Amount:       decimal.NewFromInt(100),
		Type:         models.TransactionTypeDeposit,
	})
	var dailyErr *limits.DailyLimitError
	assert.ErrorAs(t, err, &dailyErr)
}

func TestTransferRecordsLedgerOncePerCall(t *testing.T) {
	store := testutil.NewStore(t)
	engine := newEngine(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")
	bob := testutil.CreateUser(t, store, "bob@example.com")
	src := testutil.CreateWallet(t, store, alice.ID, "100")
	dst := testutil.CreateWallet(t, store, bob.ID, "0")

	_, err := engine.Transfer(context.Background(), transfer.Request{
		UserID:         alice.ID,
		SourceWalletID: &src.ID,
		DestWalletID:   dst.ID,
		Amount:         decimal.NewFromInt(20),
		Type:           models.TransactionTypeTransfer,
	})
	require.NoError(t, err)

	txns, err := store.ListTransactions(alice.ID, 0, 10, 0)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.WithinDuration(t, time.Now(), txns[0].CreatedAt, 5*time.Second)
}
