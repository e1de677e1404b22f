package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentLink is a shareable one-shot request for money. A link is created
// active and collapses to inactive on the first successful payment; expiry
// is checked at read time rather than swept in the background.
type PaymentLink struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	LinkID        string          `gorm:"size:36;uniqueIndex;not null" json:"link_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Description   string          `json:"description"`
	Active        bool            `gorm:"not null;default:true" json:"active"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	TransactionID *uint           `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Expired reports whether the link is past its expiry at the given instant.
func (l *PaymentLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
