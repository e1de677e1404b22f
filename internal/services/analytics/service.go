// Package analytics summarizes a user's money movement over a window.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
)

// Summary aggregates a user's activity since a cutoff.
type Summary struct {
	Since            time.Time       `json:"since"`
	TotalDeposited   decimal.Decimal `json:"total_deposited"`
	TotalWithdrawn   decimal.Decimal `json:"total_withdrawn"`
	TotalTransferred decimal.Decimal `json:"total_transferred"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	NetFlow          decimal.Decimal `json:"net_flow"`
}

type Service interface {
	// Summarize aggregates completed transaction amounts by type for
	// the trailing number of days.
	Summarize(userID uint, days int) (*Summary, error)
}

type service struct {
	store repositories.Store
	log   *zap.SugaredLogger
}

func NewService(store repositories.Store, log *zap.SugaredLogger) Service {
	if store == nil {
		panic("store is required")
	}
	if log == nil {
		panic("logger is required")
	}
	return &service{store: store, log: log}
}

func (s *service) Summarize(userID uint, days int) (*Summary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	deposited, err := s.store.SumAmountByType(userID, models.TransactionTypeDeposit, since)
	if err != nil {
		return nil, err
	}
	withdrawn, err := s.store.SumAmountByType(userID, models.TransactionTypeWithdrawal, since)
	if err != nil {
		return nil, err
	}
	transferred, err := s.store.SumAmountByType(userID, models.TransactionTypeTransfer, since)
	if err != nil {
		return nil, err
	}
	paid, err := s.store.SumAmountByType(userID, models.TransactionTypePayment, since)
	if err != nil {
		return nil, err
	}

	out := withdrawn.Add(transferred).Add(paid)
	return &Summary{
		Since:            since,
		TotalDeposited:   deposited,
		TotalWithdrawn:   withdrawn,
		TotalTransferred: transferred,
		TotalPaid:        paid,
		NetFlow:          deposited.Sub(out),
	}, nil
}
