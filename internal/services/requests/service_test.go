package requests_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosepay/internal/logger"
	"rosepay/internal/repositories"
	"rosepay/internal/services/limits"
	"rosepay/internal/services/notification"
	"rosepay/internal/services/requests"
	"rosepay/internal/services/transfer"
	"rosepay/internal/testutil"
)

func newService(store repositories.Store) requests.Service {
	v := limits.NewValidator(limits.Config{
		MinAmount:  decimal.RequireFromString("0.01"),
		MaxAmount:  decimal.NewFromInt(10000),
		DailyLimit: decimal.NewFromInt(50000),
	})
	engine := transfer.NewEngine(store, repositories.NoopWalletCache{}, v, notification.NopMailer{}, logger.NewNop())
	return requests.NewService(store, engine, notification.NopMailer{}, logger.NewNop())
}

func TestPayRequest(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	requester := testutil.CreateUser(t, store, "requester@example.com")
	recipient := testutil.CreateUser(t, store, "recipient@example.com")
	requesterWallet := testutil.CreateWallet(t, store, requester.ID, "0")
	recipientWallet := testutil.CreateWallet(t, store, recipient.ID, "100")

	req, err := svc.CreateRequest(requester.ID, recipient.Email, decimal.NewFromInt(40), "dinner")
	require.NoError(t, err)
	assert.Equal(t, recipient.ID, req.RecipientID)

	txn, err := svc.PayRequest(context.Background(), req.ID, recipient.ID, recipientWallet.ID)
	require.NoError(t, err)
	require.NotNil(t, txn)

	rw, _ := store.GetWallet(requesterWallet.ID)
	assert.True(t, rw.Balance.Equal(decimal.NewFromInt(40)))

	sent, err := svc.ListSent(requester.ID)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "completed", sent[0].Status)
	assert.NotNil(t, sent[0].TransactionID)
}

func TestPayRequestOnlyRecipient(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	requester := testutil.CreateUser(t, store, "requester@example.com")
	recipient := testutil.CreateUser(t, store, "recipient@example.com")
	outsider := testutil.CreateUser(t, store, "outsider@example.com")
	testutil.CreateWallet(t, store, requester.ID, "0")
	outsiderWallet := testutil.CreateWallet(t, store, outsider.ID, "100")

	req, err := svc.CreateRequest(requester.ID, recipient.Email, decimal.NewFromInt(10), "")
	require.NoError(t, err)

	// A third party paying someone else's request sees not found.
	_, err = svc.PayRequest(context.Background(), req.ID, outsider.ID, outsiderWallet.ID)
	assert.ErrorIs(t, err, repositories.ErrRequestNotFound)
}

func TestPayRequestAlreadyProcessed(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	requester := testutil.CreateUser(t, store, "requester@example.com")
	recipient := testutil.CreateUser(t, store, "recipient@example.com")
	testutil.CreateWallet(t, store, requester.ID, "0")
	recipientWallet := testutil.CreateWallet(t, store, recipient.ID, "100")

	req, err := svc.CreateRequest(requester.ID, recipient.Email, decimal.NewFromInt(10), "")
	require.NoError(t, err)

	_, err = svc.PayRequest(context.Background(), req.ID, recipient.ID, recipientWallet.ID)
	require.NoError(t, err)

	_, err = svc.PayRequest(context.Background(), req.ID, recipient.ID, recipientWallet.ID)
	assert.ErrorIs(t, err, requests.ErrAlreadyProcessed)
}

func TestDeclineRequest(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	requester := testutil.CreateUser(t, store, "requester@example.com")
	recipient := testutil.CreateUser(t, store, "recipient@example.com")
	recipientWallet := testutil.CreateWallet(t, store, recipient.ID, "100")

	req, err := svc.CreateRequest(requester.ID, recipient.Email, decimal.NewFromInt(10), "")
	require.NoError(t, err)

	require.NoError(t, svc.DeclineRequest(req.ID, recipient.ID))

	_, err = svc.PayRequest(context.Background(), req.ID, recipient.ID, recipientWallet.ID)
	assert.ErrorIs(t, err, requests.ErrAlreadyProcessed)

	received, err := svc.ListReceived(recipient.ID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "declined", received[0].Status)
}

func TestCancelRequestOnlyRequester(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	requester := testutil.CreateUser(t, store, "requester@example.com")
	recipient := testutil.CreateUser(t, store, "recipient@example.com")

	req, err := svc.CreateRequest(requester.ID, recipient.Email, decimal.NewFromInt(10), "")
	require.NoError(t, err)

	err = svc.CancelRequest(req.ID, recipient.ID)
	assert.ErrorIs(t, err, repositories.ErrRequestNotFound)

	require.NoError(t, svc.CancelRequest(req.ID, requester.ID))
}

func TestCreateRequestRejectsSelf(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	alice := testutil.CreateUser(t, store, "alice@example.com")

	_, err := svc.CreateRequest(alice.ID, alice.Email, decimal.NewFromInt(10), "")
	assert.ErrorIs(t, err, requests.ErrSelfRequest)
}
