package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget periods. Daily and weekly are fixed windows anchored at UTC
// midnight / Monday; monthly follows calendar month boundaries.
const (
	BudgetPeriodDaily   = "daily"
	BudgetPeriodWeekly  = "weekly"
	BudgetPeriodMonthly = "monthly"
)

// Budget caps spending for a user (optionally scoped to one wallet and a
// category) over a rolling period. CurrentSpent is a cache recomputed
// from completed transactions, not maintained incrementally.
type Budget struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	WalletID     *uint           `json:"wallet_id,omitempty"`
	Category     string          `json:"category,omitempty"`
	Amount       decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Period       string          `gorm:"size:16;not null" json:"period"`
	CurrentSpent decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"current_spent"`
	PeriodStart  time.Time       `gorm:"not null" json:"period_start"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
}
