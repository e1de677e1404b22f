// Package requests implements person-to-person payment requests. Only
// the recipient of a request may pay or decline it; paying runs the
// transfer and the status flip in one transaction behind a row lock.
package requests

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/notification"
	"rosepay/internal/services/transfer"
)

var (
	ErrSelfRequest      = errors.New("cannot request money from yourself")
	ErrAlreadyProcessed = errors.New("payment request has already been processed")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

const (
	statusPending   = "pending"
	statusCompleted = "completed"
	statusDeclined  = "declined"
	statusCancelled = "cancelled"
)

type Service interface {
	// CreateRequest asks the user behind recipientEmail for money.
	CreateRequest(requesterID uint, recipientEmail string, amount decimal.Decimal, description string) (*models.PaymentRequest, error)
	ListReceived(userID uint) ([]models.PaymentRequest, error)
	ListSent(userID uint) ([]models.PaymentRequest, error)
	// PayRequest settles the request from the recipient's wallet into
	// the requester's primary wallet.
	PayRequest(ctx context.Context, requestID, recipientID, walletID uint) (*models.Transaction, error)
	DeclineRequest(requestID, recipientID uint) error
	CancelRequest(requestID, requesterID uint) error
}

type service struct {
	store  repositories.Store
	engine transfer.Engine
	mailer notification.Mailer
	log    *zap.SugaredLogger
}

func NewService(store repositories.Store, engine transfer.Engine, mailer notification.Mailer, log *zap.SugaredLogger) Service {
	if store == nil {
		panic("store is required")
	}
	if engine == nil {
		panic("transfer engine is required")
	}
	if mailer == nil {
		panic("mailer is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &service{store: store, engine: engine, mailer: mailer, log: log}
}

func (s *service) CreateRequest(requesterID uint, recipientEmail string, amount decimal.Decimal, description string) (*models.PaymentRequest, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	recipient, err := s.store.GetUserByEmail(recipientEmail)
	if err != nil {
		return nil, err
	}
	if recipient.ID == requesterID {
		return nil, ErrSelfRequest
	}
	r := &models.PaymentRequest{
		RequesterID: requesterID,
		RecipientID: recipient.ID,
		Amount:      amount,
		Description: description,
		Status:      statusPending,
	}
	if err := s.store.CreatePaymentRequest(r); err != nil {
		return nil, err
	}
	if requester, err := s.store.GetUserByID(requesterID); err == nil {
		subject, body := notification.PaymentRequested(requester.FullName, amount, description)
		if err := s.mailer.Send(recipient.Email, subject, body); err != nil {
			s.log.Warnw("payment request notification failed", "request_id", r.ID, "error", err)
		}
	}
	return r, nil
}

func (s *service) ListReceived(userID uint) ([]models.PaymentRequest, error) {
	return s.store.ListPaymentRequestsReceived(userID)
}

func (s *service) ListSent(userID uint) ([]models.PaymentRequest, error) {
	return s.store.ListPaymentRequestsSent(userID)
}

func (s *service) PayRequest(ctx context.Context, requestID, recipientID, walletID uint) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		req, err := st.GetPaymentRequestForUpdate(requestID)
		if err != nil {
			return err
		}
		if req.RecipientID != recipientID {
			return repositories.ErrRequestNotFound
		}
		if req.Status != statusPending {
			return ErrAlreadyProcessed
		}
		requesterWallet, err := st.GetPrimaryWallet(req.RequesterID)
		if err != nil {
			return err
		}
		txn, err = s.engine.Execute(st, transfer.Request{
			UserID:         recipientID,
			SourceWalletID: &walletID,
			DestWalletID:   requesterWallet.ID,
			Amount:         req.Amount,
			Type:           models.TransactionTypeTransfer,
			Description:    req.Description,
		})
		if err != nil {
			return err
		}
		req.Status = statusCompleted
		req.TransactionID = &txn.ID
		now := txn.CreatedAt
		req.PaidAt = &now
		return st.SavePaymentRequest(req)
	})
	if err != nil {
		return nil, err
	}
	s.engine.NotifyCompleted(ctx, txn)
	return txn, nil
}

func (s *service) DeclineRequest(requestID, recipientID uint) error {
	return s.settle(requestID, recipientID, false)
}

func (s *service) CancelRequest(requestID, requesterID uint) error {
	return s.settle(requestID, requesterID, true)
}

func (s *service) settle(requestID, userID uint, byRequester bool) error {
	return s.store.ExecuteInTransaction(func(st repositories.Store) error {
		req, err := st.GetPaymentRequestForUpdate(requestID)
		if err != nil {
			return err
		}
		owner := req.RecipientID
		status := statusDeclined
		if byRequester {
			owner = req.RequesterID
			status = statusCancelled
		}
		if owner != userID {
			return repositories.ErrRequestNotFound
		}
		if req.Status != statusPending {
			return ErrAlreadyProcessed
		}
		req.Status = status
		return st.SavePaymentRequest(req)
	})
}
