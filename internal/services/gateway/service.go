package gateway

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rosepay/internal/config"
	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/transfer"
)

var (
	ErrBadSignature       = errors.New("callback signature verification failed")
	ErrPaymentNotCaptured = errors.New("payment is not captured or authorized")
	ErrAmountMismatch     = errors.New("payment amount does not match the order amount")
)

// ConfirmParams is a verified-callback request to credit a wallet.
// Amount is the amount of the order being confirmed; the captured
// payment must match it exactly.
type ConfirmParams struct {
	UserID    uint
	WalletID  uint
	OrderID   string
	PaymentID string
	Amount    decimal.Decimal
	Signature string
}

// DepositResult reports the credited transaction. Duplicate is true when
// the payment id had already been processed; the wallet was credited
// exactly once either way.
type DepositResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Duplicate   bool                `json:"duplicate"`
}

type Service interface {
	// CreateDepositOrder opens a processor order for funding the
	// wallet. Nothing is credited until the callback confirms.
	CreateDepositOrder(userID, walletID uint, amount decimal.Decimal) (*Order, error)
	// ConfirmDeposit verifies the callback and credits the wallet,
	// idempotently keyed on the external payment id.
	ConfirmDeposit(ctx context.Context, params ConfirmParams) (*DepositResult, error)
}

type service struct {
	store  repositories.Store
	client Client
	engine transfer.Engine
	secret string
	log    *zap.SugaredLogger
}

func NewService(store repositories.Store, client Client, engine transfer.Engine, log *zap.SugaredLogger) Service {
	if store == nil {
		panic("store is required")
	}
	if client == nil {
		panic("gateway client is required")
	}
	if engine == nil {
		panic("transfer engine is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &service{
		store:  store,
		client: client,
		engine: engine,
		secret: config.GetEnv("GATEWAY_WEBHOOK_SECRET", ""),
		log:    log,
	}
}

func (s *service) CreateDepositOrder(userID, walletID uint, amount decimal.Decimal) (*Order, error) {
	wallet, err := s.store.GetWalletOwned(walletID, userID)
	if err != nil {
		return nil, err
	}
	order, err := s.client.CreateOrder(amount, wallet.Currency, uuid.NewString())
	if err != nil {
		return nil, err
	}
	s.log.Infow("deposit order created", "order_id", order.ID, "wallet_id", walletID)
	return order, nil
}

func (s *service) ConfirmDeposit(ctx context.Context, params ConfirmParams) (*DepositResult, error) {
	if !VerifySignature(params.OrderID, params.PaymentID, params.Signature, s.secret) {
		return nil, ErrBadSignature
	}
	payment, err := s.client.FetchPayment(params.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status != PaymentStatusCaptured && payment.Status != PaymentStatusAuthorized {
		return nil, ErrPaymentNotCaptured
	}
	if !payment.Amount.Equal(params.Amount) {
		return nil, ErrAmountMismatch
	}

	var txn *models.Transaction
	duplicate := false
	err = s.store.ExecuteInTransaction(func(st repositories.Store) error {
		existing, err := st.GetTransactionByGatewayPaymentID(params.PaymentID)
		if err == nil {
			txn, duplicate = existing, true
			return nil
		}
		if !errors.Is(err, repositories.ErrTransactionNotFound) {
			return err
		}
		txn, err = s.engine.Execute(st, transfer.Request{
			UserID:           params.UserID,
			DestWalletID:     params.WalletID,
			Amount:           payment.Amount,
			Type:             models.TransactionTypeDeposit,
			Description:      "Gateway deposit " + params.OrderID,
			GatewayPaymentID: &params.PaymentID,
		})
		return err
	})
	// Two callbacks racing past the existence check collide on the
	// unique payment id column; the loser reads the winner's row.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, lookupErr := s.store.GetTransactionByGatewayPaymentID(params.PaymentID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		return &DepositResult{Transaction: existing, Duplicate: true}, nil
	}
	if err != nil {
		return nil, err
	}
	if !duplicate {
		s.engine.NotifyCompleted(ctx, txn)
	}
	return &DepositResult{Transaction: txn, Duplicate: duplicate}, nil
}
