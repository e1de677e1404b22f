// Package budget tracks spending against user-defined caps. Budgets are
// advisory: status reports how much of the cap is used and whether a
// hypothetical spend would exceed it, but they never block a transfer.
// The hard ceilings live in the limits package.
package budget

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
)

var (
	ErrInvalidPeriod = errors.New("unknown budget period")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// spendTypes are the transaction types that count against a budget.
// Deposits credit the wallet and are never spending.
var spendTypes = []string{
	models.TransactionTypeWithdrawal,
	models.TransactionTypeTransfer,
	models.TransactionTypePayment,
}

// Status is one budget with its window recomputed against now.
type Status struct {
	Budget      models.Budget   `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PeriodEnd   time.Time       `json:"period_end"`
	OverBudget  bool            `json:"over_budget"`
	PercentUsed decimal.Decimal `json:"percent_used"`
}

type Service interface {
	Create(userID uint, walletID *uint, category string, amount decimal.Decimal, period string) (*models.Budget, error)
	Get(id, userID uint) (*Status, error)
	List(userID uint, activeOnly bool) ([]Status, error)
	Deactivate(id, userID uint) error
	// CheckSpend returns the active budgets covering walletID whose cap
	// a spend of amount would push past. Budgets with no wallet apply
	// to every wallet. Advisory only.
	CheckSpend(userID, walletID uint, amount decimal.Decimal) ([]Status, error)
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

func (s *service) Create(userID uint, walletID *uint, category string, amount decimal.Decimal, period string) (*models.Budget, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	switch period {
	case models.BudgetPeriodDaily, models.BudgetPeriodWeekly, models.BudgetPeriodMonthly:
	default:
		return nil, ErrInvalidPeriod
	}
	if walletID != nil {
		if _, err := s.store.GetWalletOwned(*walletID, userID); err != nil {
			return nil, err
		}
	}
	b := &models.Budget{
		UserID:       userID,
		WalletID:     walletID,
		Category:     category,
		Amount:       amount,
		Period:       period,
		CurrentSpent: decimal.Zero,
		PeriodStart:  periodStart(period, time.Now().UTC()),
		Active:       true,
	}
	if err := s.store.CreateBudget(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(id, userID uint) (*Status, error) {
	b, err := s.store.GetBudget(id, userID)
	if err != nil {
		return nil, err
	}
	return s.status(b, time.Now().UTC())
}

func (s *service) List(userID uint, activeOnly bool) ([]Status, error) {
	budgets, err := s.store.ListBudgets(userID, activeOnly)
	if err != nil {
		return nil, err
	}
	statuses := make([]Status, 0, len(budgets))
	for i := range budgets {
		st, err := s.status(&budgets[i], time.Now().UTC())
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *st)
	}
	return statuses, nil
}

func (s *service) Deactivate(id, userID uint) error {
	b, err := s.store.GetBudget(id, userID)
	if err != nil {
		return err
	}
	b.Active = false
	return s.store.SaveBudget(b)
}

func (s *service) CheckSpend(userID, walletID uint, amount decimal.Decimal) ([]Status, error) {
	budgets, err := s.store.ListBudgets(userID, true)
	if err != nil {
		return nil, err
	}
	exceeded := make([]Status, 0)
	for i := range budgets {
		b := &budgets[i]
		if b.WalletID != nil && *b.WalletID != walletID {
			continue
		}
		st, err := s.status(b, time.Now().UTC())
		if err != nil {
			return nil, err
		}
		if st.Spent.Add(amount).GreaterThan(b.Amount) {
			exceeded = append(exceeded, *st)
		}
	}
	return exceeded, nil
}

// status rolls the window forward if its period has elapsed, recomputes
// spending from the ledger and persists the refreshed cache.
func (s *service) status(b *models.Budget, now time.Time) (*Status, error) {
	start, end := currentWindow(b.Period, b.PeriodStart, now)
	spent, err := s.store.SpentAmountBetween(b.UserID, b.WalletID, spendTypes, start, end)
	if err != nil {
		return nil, err
	}
	if !start.Equal(b.PeriodStart) || !spent.Equal(b.CurrentSpent) {
		b.PeriodStart = start
		b.CurrentSpent = spent
		if err := s.store.SaveBudget(b); err != nil {
			s.log.Debugw("budget cache refresh failed", "budget_id", b.ID, "error", err)
		}
	}
	st := &Status{
		Budget:     *b,
		Spent:      spent,
		Remaining:  b.Amount.Sub(spent),
		PeriodEnd:  end,
		OverBudget: spent.GreaterThan(b.Amount),
	}
	if b.Amount.IsPositive() {
		st.PercentUsed = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return st, nil
}

// periodStart anchors a new budget's first window: UTC midnight for
// daily, the preceding Monday for weekly, the first of the month for
// monthly.
func periodStart(period string, now time.Time) time.Time {
	switch period {
	case models.BudgetPeriodDaily:
		return now.Truncate(24 * time.Hour)
	case models.BudgetPeriodWeekly:
		day := now.Truncate(24 * time.Hour)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// currentWindow advances start one period at a time until it contains
// now, then returns the half-open [start, end) window.
func currentWindow(period string, start, now time.Time) (time.Time, time.Time) {
	for {
		end := advance(period, start)
		if end.After(now) {
			return start, end
		}
		start = end
	}
}

func advance(period string, start time.Time) time.Time {
	switch period {
	case models.BudgetPeriodDaily:
		return start.AddDate(0, 0, 1)
	case models.BudgetPeriodWeekly:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 1, 0)
	}
}
