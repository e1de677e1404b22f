package links_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosepay/internal/logger"
	"rosepay/internal/repositories"
	"rosepay/internal/services/limits"
	"rosepay/internal/services/links"
	"rosepay/internal/services/notification"
	"rosepay/internal/services/transfer"
	"rosepay/internal/testutil"
)

func newService(store repositories.Store) links.Service {
	v := limits.NewValidator(limits.Config{
		MinAmount:  decimal.RequireFromString("0.01"),
		MaxAmount:  decimal.NewFromInt(10000),
		DailyLimit: decimal.NewFromInt(50000),
	})
	engine := transfer.NewEngine(store, repositories.NoopWalletCache{}, v, notification.NopMailer{}, logger.NewNop())
	return links.NewService(store, engine, logger.NewNop())
}

func TestPayLink(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	creator := testutil.CreateUser(t, store, "creator@example.com")
	payer := testutil.CreateUser(t, store, "payer@example.com")
	creatorWallet := testutil.CreateWallet(t, store, creator.ID, "0")
	payerWallet := testutil.CreateWallet(t, store, payer.ID, "100")

	link, err := svc.CreateLink(creator.ID, decimal.NewFromInt(30), "concert ticket", nil)
	require.NoError(t, err)
	require.True(t, link.Active)

	txn, err := svc.PayLink(context.Background(), link.LinkID, payer.ID, payerWallet.ID)
	require.NoError(t, err)
	require.NotNil(t, txn)

	after, err := svc.GetLink(link.LinkID)
	require.NoError(t, err)
	assert.False(t, after.Active)
	require.NotNil(t, after.PaidAt)
	require.NotNil(t, after.TransactionID)
	assert.Equal(t, txn.ID, *after.TransactionID)

	cw, _ := store.GetWallet(creatorWallet.ID)
	pw, _ := store.GetWallet(payerWallet.ID)
	assert.True(t, cw.Balance.Equal(decimal.NewFromInt(30)))
	assert.True(t, pw.Balance.Equal(decimal.NewFromInt(70)))
}

func TestPayLinkOnlyOnce(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	creator := testutil.CreateUser(t, store, "creator@example.com")
	payer := testutil.CreateUser(t, store, "payer@example.com")
	testutil.CreateWallet(t, store, creator.ID, "0")
	payerWallet := testutil.CreateWallet(t, store, payer.ID, "100")

	link, err := svc.CreateLink(creator.ID, decimal.NewFromInt(10), "", nil)
	require.NoError(t, err)

	_, err = svc.PayLink(context.Background(), link.LinkID, payer.ID, payerWallet.ID)
	require.NoError(t, err)

	_, err = svc.PayLink(context.Background(), link.LinkID, payer.ID, payerWallet.ID)
	assert.ErrorIs(t, err, links.ErrLinkAlreadyPaid)

	pw, _ := store.GetWallet(payerWallet.ID)
	assert.True(t, pw.Balance.Equal(decimal.NewFromInt(90)))
}

func TestPayExpiredLink(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	creator := testutil.CreateUser(t, store, "creator@example.com")
	payer := testutil.CreateUser(t, store, "payer@example.com")
	testutil.CreateWallet(t, store, creator.ID, "0")
	payerWallet := testutil.CreateWallet(t, store, payer.ID, "100")

	past := time.Now().Add(-time.Hour)
	link, err := svc.CreateLink(creator.ID, decimal.NewFromInt(10), "", &past)
	require.NoError(t, err)

	_, err = svc.PayLink(context.Background(), link.LinkID, payer.ID, payerWallet.ID)
	assert.ErrorIs(t, err, links.ErrLinkExpired)
}

func TestPayOwnLink(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	creator := testutil.CreateUser(t, store, "creator@example.com")
	wallet := testutil.CreateWallet(t, store, creator.ID, "100")

	link, err := svc.CreateLink(creator.ID, decimal.NewFromInt(10), "", nil)
	require.NoError(t, err)

	_, err = svc.PayLink(context.Background(), link.LinkID, creator.ID, wallet.ID)
	assert.ErrorIs(t, err, links.ErrOwnLink)
}

func TestCancelLink(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	creator := testutil.CreateUser(t, store, "creator@example.com")
	payer := testutil.CreateUser(t, store, "payer@example.com")
	testutil.CreateWallet(t, store, creator.ID, "0")
	payerWallet := testutil.CreateWallet(t, store, payer.ID, "100")

	link, err := svc.CreateLink(creator.ID, decimal.NewFromInt(10), "", nil)
	require.NoError(t, err)

	// Only the creator may cancel.
	err = svc.CancelLink(link.LinkID, payer.ID)
	assert.ErrorIs(t, err, repositories.ErrLinkNotFound)

	require.NoError(t, svc.CancelLink(link.LinkID, creator.ID))

	_, err = svc.PayLink(context.Background(), link.LinkID, payer.ID, payerWallet.ID)
	assert.ErrorIs(t, err, links.ErrLinkInactive)
}

func TestCreateLinkRejectsNonPositiveAmount(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)
	creator := testutil.CreateUser(t, store, "creator@example.com")

	_, err := svc.CreateLink(creator.ID, decimal.Zero, "", nil)
	assert.ErrorIs(t, err, links.ErrInvalidAmount)
}
