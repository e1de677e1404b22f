// Package billsplit divides an expense among participants and settles
// each share through the transfer engine. Settling locks both the split
// and the participant row with the transfer, so a share settles exactly
// once and the split completes exactly once, on the last settlement.
package billsplit

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/notification"
	"rosepay/internal/services/transfer"
)

var (
	ErrNoParticipants  = errors.New("a bill split needs at least one participant")
	ErrShareMismatch   = errors.New("participant shares do not sum to the total")
	ErrCreatorIncluded = errors.New("the creator cannot be a participant")
	ErrAlreadySettled  = errors.New("share has already been settled")
	ErrSplitNotPending = errors.New("bill split is not open for settlement")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrDuplicateMember = errors.New("duplicate participant")
)

// shareTolerance absorbs cent rounding when a total does not divide
// evenly across participants.
var shareTolerance = decimal.NewFromFloat(0.01)

const (
	statusPending   = "pending"
	statusCompleted = "completed"
)

// Share names one participant's portion by email.
type Share struct {
	Email  string
	Amount decimal.Decimal
}

type Service interface {
	CreateSplit(creatorID uint, title, description, currency string, total decimal.Decimal, shares []Share) (*models.BillSplit, error)
	GetSplit(id, userID uint) (*models.BillSplit, error)
	ListSplits(userID uint) ([]models.BillSplit, error)
	// SettleShare pays the participant's share into the creator's
	// primary wallet and marks the split completed when it was the
	// last outstanding share.
	SettleShare(ctx context.Context, splitID, participantID, userID, walletID uint) (*models.Transaction, error)
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

func (s *service) CreateSplit(creatorID uint, title, description, currency string, total decimal.Decimal, shares []Share) (*models.BillSplit, error) {
	if !total.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if len(shares) == 0 {
		return nil, ErrNoParticipants
	}
	if currency == "" {
		currency = "USD"
	}

	sum := decimal.Zero
	seen := make(map[uint]bool, len(shares))
	participants := make([]models.BillSplitParticipant, 0, len(shares))
	for _, share := range shares {
		if !share.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}
		u, err := s.store.GetUserByEmail(share.Email)
		if err != nil {
			return nil, err
		}
		if u.ID == creatorID {
			return nil, ErrCreatorIncluded
		}
		if seen[u.ID] {
			return nil, ErrDuplicateMember
		}
		seen[u.ID] = true
		sum = sum.Add(share.Amount)
		participants = append(participants, models.BillSplitParticipant{
			UserID:     u.ID,
			AmountOwed: share.Amount,
			AmountPaid: decimal.Zero,
		})
	}
	if sum.Sub(total).Abs().GreaterThan(shareTolerance) {
		return nil, ErrShareMismatch
	}

	split := &models.BillSplit{
		CreatorID:    creatorID,
		Title:        title,
		Description:  description,
		TotalAmount:  total,
		Currency:     currency,
		Status:       statusPending,
		Participants: participants,
	}
	if err := s.store.CreateBillSplit(split); err != nil {
		return nil, err
	}
	s.notifyParticipants(split, shares)
	return split, nil
}

func (s *service) notifyParticipants(split *models.BillSplit, shares []Share) {
	creator, err := s.store.GetUserByID(split.CreatorID)
	if err != nil {
		return
	}
	for _, share := range shares {
		subject, body := notification.BillSplitInvite(creator.FullName, split.Title, share.Amount)
		if err := s.mailer.Send(share.Email, subject, body); err != nil {
			s.log.Warnw("bill split invite failed", "split_id", split.ID, "error", err)
		}
	}
}

func (s *service) GetSplit(id, userID uint) (*models.BillSplit, error) {
	split, err := s.store.GetBillSplit(id)
	if err != nil {
		return nil, err
	}
	if split.CreatorID == userID {
		return split, nil
	}
	for _, p := range split.Participants {
		if p.UserID == userID {
			return split, nil
		}
	}
	return nil, repositories.ErrSplitNotFound
}

func (s *service) ListSplits(userID uint) ([]models.BillSplit, error) {
	return s.store.ListBillSplits(userID)
}

func (s *service) SettleShare(ctx context.Context, splitID, participantID, userID, walletID uint) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		split, err := st.GetBillSplitForUpdate(splitID)
		if err != nil {
			return err
		}
		if split.Status != statusPending {
			return ErrSplitNotPending
		}
		p, err := st.GetParticipantForUpdate(splitID, participantID)
		if err != nil {
			return err
		}
		if p.UserID != userID {
			return repositories.ErrParticipantNotFound
		}
		if p.Settled {
			return ErrAlreadySettled
		}
		creatorWallet, err := st.GetPrimaryWallet(split.CreatorID)
		if err != nil {
			return err
		}
		txn, err = s.engine.Execute(st, transfer.Request{
			UserID:         userID,
			SourceWalletID: &walletID,
			DestWalletID:   creatorWallet.ID,
			Amount:         p.AmountOwed,
			Type:           models.TransactionTypeTransfer,
			Description:    "Bill split: " + split.Title,
		})
		if err != nil {
			return err
		}
		now := time.Now()
		p.AmountPaid = p.AmountOwed
		p.Settled = true
		p.SettledAt = &now
		p.TransactionID = &txn.ID
		if err := st.SaveParticipant(p); err != nil {
			return err
		}
		remaining, err := st.CountUnsettledParticipants(splitID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			split.Status = statusCompleted
			split.SettledAt = &now
			return st.SaveBillSplit(split)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.engine.NotifyCompleted(ctx, txn)
	return txn, nil
}
