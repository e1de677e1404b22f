// Package transfer implements the money movement engine. Every balance
// mutation in the system funnels through Execute, which runs inside one
// database transaction: wallet row locks, limit checks, balance writes
// and the ledger record either all land or none do.
package transfer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/limits"
	"rosepay/internal/services/notification"
)

// Request describes one money movement. A nil SourceWalletID means the
// funds enter from outside the ledger (a deposit); otherwise the source
// wallet must belong to UserID and is debited.
type Request struct {
	UserID           uint
	SourceWalletID   *uint
	DestWalletID     uint
	Amount           decimal.Decimal
	Type             string
	Description      string
	GatewayPaymentID *string
}

// Engine moves money between wallets.
type Engine interface {
	// Transfer runs the movement in its own transaction and fires the
	// post-commit side effects.
	Transfer(ctx context.Context, req Request) (*models.Transaction, error)
	// Execute runs the movement on an existing transaction-scoped
	// store. Workflow services that must update their own rows
	// atomically with the transfer call this inside their unit of
	// work, then NotifyCompleted after the commit.
	Execute(st repositories.Store, req Request) (*models.Transaction, error)
	// NotifyCompleted fires the best-effort side effects for a
	// committed transaction: cache invalidation, recipient email and
	// merchant revenue. Failures are logged, never returned.
	NotifyCompleted(ctx context.Context, txn *models.Transaction)
}

type engine struct {
	store  repositories.Store
	cache  repositories.WalletCache
	limits limits.Validator
	mailer notification.Mailer
	log    *zap.SugaredLogger
}

func NewEngine(store repositories.Store, cache repositories.WalletCache, v limits.Validator, mailer notification.Mailer, log *zap.SugaredLogger) Engine {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		panic("cache is required")
	}
	if v == nil {
		panic("limit validator is required")
	}
	if mailer == nil {
		panic("mailer is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &engine{store: store, cache: cache, limits: v, mailer: mailer, log: log}
}

func (e *engine) Transfer(ctx context.Context, req Request) (*models.Transaction, error) {
	var txn *models.Transaction
	err := e.store.ExecuteInTransaction(func(st repositories.Store) error {
		var err error
		txn, err = e.Execute(st, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.NotifyCompleted(ctx, txn)
	return txn, nil
}

func (e *engine) Execute(st repositories.Store, req Request) (*models.Transaction, error) {
	if err := e.limits.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	var source, dest *models.Wallet
	var err error
	if req.SourceWalletID != nil {
		if *req.SourceWalletID == req.DestWalletID {
			return nil, ErrSameWallet
		}
		source, dest, err = e.lockPair(st, *req.SourceWalletID, req.DestWalletID)
		if err != nil {
			return nil, err
		}
		// Ownership failures are reported identically to missing
		// wallets so callers cannot probe other users' wallet ids.
		if source.UserID != req.UserID {
			return nil, repositories.ErrWalletNotFound
		}
		if source.Currency != dest.Currency {
			return nil, ErrCurrencyMismatch
		}
	} else {
		dest, err = st.GetWalletForUpdate(req.DestWalletID)
		if err != nil {
			return nil, err
		}
		// Deposits only credit the caller's own wallet.
		if dest.UserID != req.UserID {
			return nil, repositories.ErrWalletNotFound
		}
	}
	if source != nil && !source.Active() {
		return nil, ErrWalletInactive
	}
	if !dest.Active() {
		return nil, ErrWalletInactive
	}

	limitWallet := req.DestWalletID
	if source != nil {
		limitWallet = source.ID
	}
	if err := e.limits.CheckDailyLimit(st, req.UserID, limitWallet, req.Amount); err != nil {
		return nil, err
	}

	if source != nil {
		if source.Balance.LessThan(req.Amount) {
			return nil, ErrInsufficientFunds
		}
		source.Balance = source.Balance.Sub(req.Amount)
		if err := st.SaveWallet(source); err != nil {
			return nil, err
		}
	}
	dest.Balance = dest.Balance.Add(req.Amount)
	if err := st.SaveWallet(dest); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:           req.UserID,
		Amount:           req.Amount,
		Type:             req.Type,
		Status:           models.TransactionStatusCompleted,
		Description:      req.Description,
		GatewayPaymentID: req.GatewayPaymentID,
		Reference:        uuid.NewString(),
	}
	if source != nil {
		txn.WalletID = source.ID
		txn.RecipientWalletID = &dest.ID
	} else {
		txn.WalletID = dest.ID
	}
	if err := st.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// lockPair locks both wallet rows in ascending id order so that two
// opposing transfers cannot deadlock on each other.
func (e *engine) lockPair(st repositories.Store, sourceID, destID uint) (*models.Wallet, *models.Wallet, error) {
	first, second := sourceID, destID
	if destID < sourceID {
		first, second = destID, sourceID
	}
	a, err := st.GetWalletForUpdate(first)
	if err != nil {
		return nil, nil, err
	}
	b, err := st.GetWalletForUpdate(second)
	if err != nil {
		return nil, nil, err
	}
	if a.ID == sourceID {
		return a, b, nil
	}
	return b, a, nil
}

func (e *engine) NotifyCompleted(ctx context.Context, txn *models.Transaction) {
	if txn == nil {
		return
	}
	e.invalidate(ctx, txn.WalletID)
	creditedID := txn.WalletID
	if txn.RecipientWalletID != nil {
		creditedID = *txn.RecipientWalletID
		e.invalidate(ctx, creditedID)
	}

	credited, err := e.store.GetWallet(creditedID)
	if err != nil {
		e.log.Warnw("post-transfer wallet lookup failed", "wallet_id", creditedID, "error", err)
		return
	}

	if txn.RecipientWalletID != nil && credited.UserID != txn.UserID {
		if recipient, err := e.store.GetUserByID(credited.UserID); err == nil {
			subject, body := notification.TransferReceived(txn.Amount, credited.Currency, txn.Description)
			if err := e.mailer.Send(recipient.Email, subject, body); err != nil {
				e.log.Warnw("transfer notification failed", "transaction_id", txn.ID, "error", err)
			}
		}
	}

	if txn.Type == models.TransactionTypePayment {
		merchant, err := e.store.GetMerchantByUserID(credited.UserID)
		switch {
		case err == nil:
			if err := e.store.AddMerchantRevenue(merchant.ID, txn.Amount); err != nil {
				e.log.Warnw("merchant revenue update failed", "merchant_id", merchant.ID, "error", err)
			}
		case !errors.Is(err, repositories.ErrMerchantNotFound):
			e.log.Warnw("merchant lookup failed", "user_id", credited.UserID, "error", err)
		}
	}
}

func (e *engine) invalidate(ctx context.Context, walletID uint) {
	if err := e.cache.InvalidateWallet(ctx, walletID); err != nil {
		e.log.Warnw("wallet cache invalidation failed", "wallet_id", walletID, "error", err)
	}
}
