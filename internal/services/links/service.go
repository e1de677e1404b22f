// Package links implements shareable payment links. A link is a one-shot
// invitation to pay its creator a fixed amount; consumption is guarded by
// a row lock taken in the same transaction as the transfer, so a link can
// never be paid twice.
package links

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/transfer"
)

var (
	ErrLinkAlreadyPaid = errors.New("payment link has already been paid")
	ErrLinkInactive    = errors.New("payment link is no longer active")
	ErrLinkExpired     = errors.New("payment link has expired")
	ErrOwnLink         = errors.New("cannot pay your own payment link")
	ErrInvalidAmount   = errors.New("amount must be positive")
)

const defaultLinkTTL = 72 * time.Hour

type Service interface {
	CreateLink(userID uint, amount decimal.Decimal, description string, expiresAt *time.Time) (*models.PaymentLink, error)
	GetLink(linkID string) (*models.PaymentLink, error)
	ListLinks(userID uint) ([]models.PaymentLink, error)
	// PayLink debits the payer's wallet and credits the link creator's
	// primary wallet, consuming the link in the same transaction.
	PayLink(ctx context.Context, linkID string, payerID, payerWalletID uint) (*models.Transaction, error)
	// CancelLink deactivates an unpaid link.
	CancelLink(linkID string, userID uint) error
}

type service struct {
	store  repositories.Store
	engine transfer.Engine
	log    *zap.SugaredLogger
}

func NewService(store repositories.Store, engine transfer.Engine, log *zap.SugaredLogger) Service {
	if store == nil {
		panic("store is required")
	}
	if engine == nil {
		panic("transfer engine is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &service{store: store, engine: engine, log: log}
}

func (s *service) CreateLink(userID uint, amount decimal.Decimal, description string, expiresAt *time.Time) (*models.PaymentLink, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	expiry := time.Now().Add(defaultLinkTTL)
	if expiresAt != nil {
		expiry = *expiresAt
	}
	l := &models.PaymentLink{
		UserID:      userID,
		LinkID:      uuid.NewString(),
		Amount:      amount,
		Description: description,
		Active:      true,
		ExpiresAt:   &expiry,
	}
	if err := s.store.CreatePaymentLink(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) GetLink(linkID string) (*models.PaymentLink, error) {
	return s.store.GetPaymentLinkByLinkID(linkID)
}

func (s *service) ListLinks(userID uint) ([]models.PaymentLink, error) {
	return s.store.ListPaymentLinks(userID)
}

func (s *service) PayLink(ctx context.Context, linkID string, payerID, payerWalletID uint) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		link, err := st.GetPaymentLinkForUpdate(linkID)
		if err != nil {
			return err
		}
		if link.PaidAt != nil {
			return ErrLinkAlreadyPaid
		}
		if !link.Active {
			return ErrLinkInactive
		}
		if link.Expired(time.Now()) {
			return ErrLinkExpired
		}
		if link.UserID == payerID {
			return ErrOwnLink
		}
		creatorWallet, err := st.GetPrimaryWallet(link.UserID)
		if err != nil {
			return err
		}
		txn, err = s.engine.Execute(st, transfer.Request{
			UserID:         payerID,
			SourceWalletID: &payerWalletID,
			DestWalletID:   creatorWallet.ID,
			Amount:         link.Amount,
			Type:           models.TransactionTypePayment,
			Description:    link.Description,
		})
		if err != nil {
			return err
		}
		now := time.Now()
		link.PaidAt = &now
		link.Active = false
		link.TransactionID = &txn.ID
		return st.SavePaymentLink(link)
	})
	if err != nil {
		return nil, err
	}
	s.engine.NotifyCompleted(ctx, txn)
	return txn, nil
}

func (s *service) CancelLink(linkID string, userID uint) error {
	return s.store.ExecuteInTransaction(func(st repositories.Store) error {
		link, err := st.GetPaymentLinkForUpdate(linkID)
		if err != nil {
			return err
		}
		if link.UserID != userID {
			return repositories.ErrLinkNotFound
		}
		if link.PaidAt != nil {
			return ErrLinkAlreadyPaid
		}
		link.Active = false
		return st.SavePaymentLink(link)
	})
}
