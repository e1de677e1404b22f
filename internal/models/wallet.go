package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet statuses
const (
	WalletStatusActive   = "active"
	WalletStatusDisabled = "disabled"
)

// Wallet holds a single-currency balance for one user. Balances are only
// ever mutated by the transfer engine; wallets referenced by transactions
// are disabled instead of deleted.
type Wallet struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Currency  string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	PINHash   string          `gorm:"column:pin_hash" json:"-"`
	Status    string          `gorm:"not null;default:'active'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (w *Wallet) Active() bool { return w.Status == WalletStatusActive }
