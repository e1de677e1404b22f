package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest asks another user for money. It is resolved by exactly
// one accept; there is no partial or renegotiated settlement.
type PaymentRequest struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	RequesterID   uint            `gorm:"not null;index" json:"requester_id"`
	RecipientID   uint            `gorm:"not null;index" json:"recipient_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Description   string          `json:"description"`
	Status        string          `gorm:"size:16;not null;default:'pending'" json:"status"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	TransactionID *uint           `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
