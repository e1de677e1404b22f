// Package recurring schedules repeated transfers. Execution is pull
// based: a caller (the scheduler loop or an admin endpoint) asks for due
// schedules and executes each one behind a row lock, in the same
// transaction as the transfer it produces.
package recurring

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
	ErrNotDue           = errors.New("recurring payment is not due yet")
	ErrEnded            = errors.New("recurring payment has reached its end date")
	ErrInactive         = errors.New("recurring payment is not active")
	ErrInvalidFrequency = errors.New("unknown frequency")
	ErrNoRecipient      = errors.New("a recipient wallet or email is required")
	ErrInvalidAmount    = errors.New("amount must be positive")
)

// CreateParams describes a new schedule. Exactly one of RecipientWalletID
// and RecipientEmail must be set; an email is resolved to the user's
// primary wallet at creation time.
type CreateParams struct {
	UserID            uint
	WalletID          uint
	RecipientWalletID *uint
	RecipientEmail    string
	Amount            decimal.Decimal
	Description       string
	Frequency         string
	StartDate         *time.Time
	EndDate           *time.Time
}

type Service interface {
	Create(params CreateParams) (*models.RecurringPayment, error)
	Get(id, userID uint) (*models.RecurringPayment, error)
	List(userID uint, activeOnly bool) ([]models.RecurringPayment, error)
	Cancel(id, userID uint) error
	// ExecuteDue runs one due schedule: the transfer, the counter
	// bump and the next-due-date advance share a transaction.
	ExecuteDue(ctx context.Context, id uint, now time.Time) (*models.Transaction, error)
	// RunDue executes every schedule due at now and returns how many
	// succeeded. Individual failures are logged and skipped; an
	// underfunded schedule stays due and is retried on the next pass.
	RunDue(ctx context.Context, now time.Time) int
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

// interval maps a frequency to its fixed offset.
func interval(frequency string) (time.Duration, error) {
	switch frequency {
	case models.FrequencyDaily:
		return 24 * time.Hour, nil
	case models.FrequencyWeekly:
		return 7 * 24 * time.Hour, nil
	case models.FrequencyMonthly:
		return 30 * 24 * time.Hour, nil
	case models.FrequencyYearly:
		return 365 * 24 * time.Hour, nil
	default:
		return 0, ErrInvalidFrequency
	}
}

func (s *service) Create(params CreateParams) (*models.RecurringPayment, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if _, err := interval(params.Frequency); err != nil {
		return nil, err
	}

	recipientWalletID := params.RecipientWalletID
	if recipientWalletID == nil {
		if params.RecipientEmail == "" {
			return nil, ErrNoRecipient
		}
		recipient, err := s.store.GetUserByEmail(params.RecipientEmail)
		if err != nil {
			return nil, err
		}
		w, err := s.store.GetPrimaryWallet(recipient.ID)
		if err != nil {
			return nil, err
		}
		recipientWalletID = &w.ID
	}

	// The source wallet must exist and belong to the caller before
	// anything is scheduled against it.
	if _, err := s.store.GetWalletOwned(params.WalletID, params.UserID); err != nil {
		return nil, err
	}

	start := time.Now()
	if params.StartDate != nil {
		start = *params.StartDate
	}
	rp := &models.RecurringPayment{
		UserID:            params.UserID,
		WalletID:          params.WalletID,
		RecipientWalletID: recipientWalletID,
		RecipientEmail:    params.RecipientEmail,
		Amount:            params.Amount,
		Description:       params.Description,
		Frequency:         params.Frequency,
		NextPaymentDate:   start,
		EndDate:           params.EndDate,
		Active:            true,
	}
	if err := s.store.CreateRecurringPayment(rp); err != nil {
		return nil, err
	}
	return rp, nil
}

func (s *service) Get(id, userID uint) (*models.RecurringPayment, error) {
	return s.store.GetRecurringOwned(id, userID)
}

func (s *service) List(userID uint, activeOnly bool) ([]models.RecurringPayment, error) {
	return s.store.ListRecurringPayments(userID, activeOnly)
}

func (s *service) Cancel(id, userID uint) error {
	return s.store.ExecuteInTransaction(func(st repositories.Store) error {
		rp, err := st.GetRecurringForUpdate(id)
		if err != nil {
			return err
		}
		if rp.UserID != userID {
			return repositories.ErrRecurringNotFound
		}
		if !rp.Active {
			return ErrInactive
		}
		rp.Active = false
		return st.SaveRecurringPayment(rp)
	})
}

func (s *service) ExecuteDue(ctx context.Context, id uint, now time.Time) (*models.Transaction, error) {
	var txn *models.Transaction
	var owner *models.User
	err := s.store.ExecuteInTransaction(func(st repositories.Store) error {
		rp, err := st.GetRecurringForUpdate(id)
		if err != nil {
			return err
		}
		if !rp.Active {
			return ErrInactive
		}
		if rp.NextPaymentDate.After(now) {
			return ErrNotDue
		}
		if rp.EndDate != nil && rp.NextPaymentDate.After(*rp.EndDate) {
			rp.Active = false
			if err := st.SaveRecurringPayment(rp); err != nil {
				return err
			}
			return ErrEnded
		}
		if rp.RecipientWalletID == nil {
			return ErrNoRecipient
		}
		txn, err = s.engine.Execute(st, transfer.Request{
			UserID:         rp.UserID,
			SourceWalletID: &rp.WalletID,
			DestWalletID:   *rp.RecipientWalletID,
			Amount:         rp.Amount,
			Type:           models.TransactionTypeTransfer,
			Description:    rp.Description,
		})
		if err != nil {
			return err
		}
		step, err := interval(rp.Frequency)
		if err != nil {
			return err
		}
		// Advance from the due date, not from now, so a late run
		// does not push every future payment later.
		rp.NextPaymentDate = rp.NextPaymentDate.Add(step)
		rp.TotalPayments++
		rp.LastPaidAt = &now
		if err := st.SaveRecurringPayment(rp); err != nil {
			return err
		}
		owner, _ = st.GetUserByID(rp.UserID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.engine.NotifyCompleted(ctx, txn)
	if owner != nil {
		subject, body := notification.RecurringExecuted(txn.Amount, txn.Description)
		if err := s.mailer.Send(owner.Email, subject, body); err != nil {
			s.log.Warnw("recurring payment notification failed", "recurring_id", id, "error", err)
		}
	}
	return txn, nil
}

func (s *service) RunDue(ctx context.Context, now time.Time) int {
	due, err := s.store.ListDueRecurringPayments(now)
	if err != nil {
		s.log.Errorw("listing due recurring payments failed", "error", err)
		return 0
	}
	executed := 0
	for _, rp := range due {
		if _, err := s.ExecuteDue(ctx, rp.ID, now); err != nil {
			// ErrNotDue and ErrEnded are expected races with
			// concurrent runners.
			if !errors.Is(err, ErrNotDue) && !errors.Is(err, ErrEnded) {
				s.log.Warnw("recurring payment execution failed",
					"recurring_id", rp.ID, "error", err)
			}
			continue
		}
		executed++
	}
	return executed
}
