package billsplit_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosepay/internal/logger"
	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/billsplit"
	"rosepay/internal/services/limits"
	"rosepay/internal/services/notification"
	"rosepay/internal/services/transfer"
	"rosepay/internal/testutil"
)

func newService(store repositories.Store) billsplit.Service {
	v := limits.NewValidator(limits.Config{
		MinAmount:  decimal.RequireFromString("0.01"),
		MaxAmount:  decimal.NewFromInt(10000),
		DailyLimit: decimal.NewFromInt(50000),
	})
	engine := transfer.NewEngine(store, repositories.NoopWalletCache{}, v, notification.NopMailer{}, logger.NewNop())
	return billsplit.NewService(store, engine, notification.NopMailer{}, logger.NewNop())
}

type fixture struct {
	svc     billsplit.Service
	store   repositories.Store
	creator *models.User
	users   []*models.User
	wallets []*models.Wallet
	split   *models.BillSplit
}

// newSplitFixture sets up a 100-total split shared 40/30/30.
func newSplitFixture(t *testing.T) *fixture {
	store := testutil.NewStore(t)
	svc := newService(store)

	creator := testutil.CreateUser(t, store, "creator@example.com")
	testutil.CreateWallet(t, store, creator.ID, "0")

	f := &fixture{svc: svc, store: store, creator: creator}
	emails := []string{"p1@example.com", "p2@example.com", "p3@example.com"}
	amounts := []string{"40", "30", "30"}
	shares := make([]billsplit.Share, 0, 3)
	for i, email := range emails {
		u := testutil.CreateUser(t, store, email)
		w := testutil.CreateWallet(t, store, u.ID, "100")
		f.users = append(f.users, u)
		f.wallets = append(f.wallets, w)
		shares = append(shares, billsplit.Share{Email: email, Amount: decimal.RequireFromString(amounts[i])})
	}

	split, err := svc.CreateSplit(creator.ID, "Team dinner", "", "USD", decimal.NewFromInt(100), shares)
	require.NoError(t, err)
	require.Len(t, split.Participants, 3)
	f.split = split
	return f
}

func TestSettleAllShares(t *testing.T) {
	f := newSplitFixture(t)

	for i, p := range f.split.Participants {
		txn, err := f.svc.SettleShare(context.Background(), f.split.ID, p.ID, f.users[i].ID, f.wallets[i].ID)
		require.NoError(t, err)
		require.NotNil(t, txn)
	}

	after, err := f.store.GetBillSplit(f.split.ID)
	require.NoError(t, err)
	assert.Equal(t, "completed", after.Status)
	require.NotNil(t, after.SettledAt)

	creatorWallet, err := f.store.GetPrimaryWallet(f.creator.ID)
	require.NoError(t, err)
	assert.True(t, creatorWallet.Balance.Equal(decimal.NewFromInt(100)))
}

func TestSettleShareExactlyOnce(t *testing.T) {
	f := newSplitFixture(t)
	p := f.split.Participants[0]

	_, err := f.svc.SettleShare(context.Background(), f.split.ID, p.ID, f.users[0].ID, f.wallets[0].ID)
	require.NoError(t, err)

	_, err = f.svc.SettleShare(context.Background(), f.split.ID, p.ID, f.users[0].ID, f.wallets[0].ID)
	assert.ErrorIs(t, err, billsplit.ErrAlreadySettled)

	w, _ := f.store.GetWallet(f.wallets[0].ID)
	assert.True(t, w.Balance.Equal(decimal.NewFromInt(60)))

	// Split is still open: two shares remain.
	after, _ := f.store.GetBillSplit(f.split.ID)
	assert.Equal(t, "pending", after.Status)
	assert.Nil(t, after.SettledAt)
}

func TestSettleShareOnlyOwner(t *testing.T) {
	f := newSplitFixture(t)
	p := f.split.Participants[0]

	// Another participant trying to settle someone else's share.
	_, err := f.svc.SettleShare(context.Background(), f.split.ID, p.ID, f.users[1].ID, f.wallets[1].ID)
	assert.ErrorIs(t, err, repositories.ErrParticipantNotFound)
}

func TestCompletedSplitRejectsSettlement(t *testing.T) {
	f := newSplitFixture(t)
	for i, p := range f.split.Participants {
		_, err := f.svc.SettleShare(context.Background(), f.split.ID, p.ID, f.users[i].ID, f.wallets[i].ID)
		require.NoError(t, err)
	}

	p := f.split.Participants[0]
	_, err := f.svc.SettleShare(context.Background(), f.split.ID, p.ID, f.users[0].ID, f.wallets[0].ID)
	assert.ErrorIs(t, err, billsplit.ErrSplitNotPending)
}

func TestCreateSplitShareValidation(t *testing.T) {
	store := testutil.NewStore(t)
	svc := newService(store)

	creator := testutil.CreateUser(t, store, "creator@example.com")
	p1 := testutil.CreateUser(t, store, "p1@example.com")
	p2 := testutil.CreateUser(t, store, "p2@example.com")

	// Shares short of the total by more than a cent.
	_, err := svc.CreateSplit(creator.ID, "Bad", "", "USD", decimal.NewFromInt(100), []billsplit.Share{
		{Email: p1.Email, Amount: decimal.NewFromInt(40)},
		{Email: p2.Email, Amount: decimal.NewFromInt(30)},
	})
	assert.ErrorIs(t, err, billsplit.ErrShareMismatch)

	// A cent of rounding slack is tolerated: 33.33 * 3 vs 100.
	third := decimal.RequireFromString("33.33")
	p3 := testutil.CreateUser(t, store, "p3@example.com")
	_, err = svc.CreateSplit(creator.ID, "Rounded", "", "USD", decimal.NewFromInt(100), []billsplit.Share{
		{Email: p1.Email, Amount: third},
		{Email: p2.Email, Amount: third},
		{Email: p3.Email, Amount: third},
	})
	assert.NoError(t, err)

	// The creator cannot owe themselves.
	_, err = svc.CreateSplit(creator.ID, "Self", "", "USD", decimal.NewFromInt(10), []billsplit.Share{
		{Email: creator.Email, Amount: decimal.NewFromInt(10)},
	})
	assert.ErrorIs(t, err, billsplit.ErrCreatorIncluded)

	// Duplicate participants are rejected.
	_, err = svc.CreateSplit(creator.ID, "Dup", "", "USD", decimal.NewFromInt(20), []billsplit.Share{
		{Email: p1.Email, Amount: decimal.NewFromInt(10)},
		{Email: p1.Email, Amount: decimal.NewFromInt(10)},
	})
	assert.ErrorIs(t, err, billsplit.ErrDuplicateMember)
}

func TestGetSplitVisibility(t *testing.T) {
	f := newSplitFixture(t)

	outsider := testutil.CreateUser(t, f.store, "outsider@example.com")

	_, err := f.svc.GetSplit(f.split.ID, f.creator.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetSplit(f.split.ID, f.users[0].ID)
	assert.NoError(t, err)
	_, err = f.svc.GetSplit(f.split.ID, outsider.ID)
	assert.ErrorIs(t, err, repositories.ErrSplitNotFound)
}
