package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeTransfer   = "transfer"
	TransactionTypePayment    = "payment"
)

// Transaction statuses. Completed and failed are terminal.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// Transaction is an immutable, append-only record of one money movement.
// WalletID is the debited wallet, or the credited wallet for deposits
// (deposits have no source; the money enters from outside the ledger).
// GatewayPaymentID carries the external payment id for gateway-funded
// deposits and is unique, which makes gateway callbacks idempotent.
type Transaction struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	WalletID          uint            `gorm:"not null;index" json:"wallet_id"`
	Amount            decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Type              string          `gorm:"size:32;not null" json:"type"`
	Status            string          `gorm:"size:16;not null;default:'pending'" json:"status"`
	Description       string          `json:"description"`
	RecipientWalletID *uint           `gorm:"index" json:"recipient_wallet_id,omitempty"`
	GatewayPaymentID  *string         `gorm:"size:64;uniqueIndex" json:"gateway_payment_id,omitempty"`
	Reference         string          `gorm:"size:36" json:"reference"`
	CreatedAt         time.Time       `json:"created_at"`
}
