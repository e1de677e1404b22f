// Package limits enforces per-transaction and per-day monetary ceilings.
// The daily check must run inside the same transactional scope as the
// transfer it gates; two concurrent transfers validated against a stale
// sum could otherwise jointly exceed the limit.
package limits

import (
	"time"

	"github.com/shopspring/decimal"

	"rosepay/internal/config"
	"rosepay/internal/repositories"
)

// Config carries the monetary ceilings.
type Config struct {
	MinAmount  decimal.Decimal
	MaxAmount  decimal.Decimal
	DailyLimit decimal.Decimal
}

// ConfigFromEnv reads the ceilings from the environment with the
// application defaults.
func ConfigFromEnv() Config {
	return Config{
		MinAmount:  config.MinTransactionAmount(),
		MaxAmount:  config.MaxTransactionAmount(),
		DailyLimit: config.DailyTransactionLimit(),
	}
}

// Validator checks amounts against the configured limits.
type Validator interface {
	// ValidateAmount enforces the per-transaction bounds.
	ValidateAmount(amount decimal.Decimal) error
	// CheckDailyLimit sums the (user, wallet) pair's completed
	// transactions since UTC midnight through st, which must be the
	// transfer's transaction-scoped store.
	CheckDailyLimit(st repositories.Store, userID, walletID uint, amount decimal.Decimal) error
}

type validator struct {
	cfg Config
}

func NewValidator(cfg Config) Validator {
	return &validator{cfg: cfg}
}

func (v *validator) ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(v.cfg.MinAmount) {
		return &AmountError{Bound: v.cfg.MinAmount, TooSmall: true}
	}
	if amount.GreaterThan(v.cfg.MaxAmount) {
		return &AmountError{Bound: v.cfg.MaxAmount}
	}
	return nil
}

func (v *validator) CheckDailyLimit(st repositories.Store, userID, walletID uint, amount decimal.Decimal) error {
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	total, err := st.CompletedAmountSince(userID, walletID, midnight)
	if err != nil {
		return err
	}
	if total.Add(amount).GreaterThan(v.cfg.DailyLimit) {
		return &DailyLimitError{
			Limit:     v.cfg.DailyLimit,
			Remaining: v.cfg.DailyLimit.Sub(total),
		}
	}
	return nil
}
