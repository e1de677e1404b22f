package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recurring payment frequencies. Monthly and yearly are fixed-length
// offsets (30 and 365 days), so the next due date is always previous
// due date + interval regardless of when the payment actually ran.
const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

// RecurringPayment schedules repeated transfers from a wallet. Each due
// execution produces one transaction and advances NextPaymentDate from
// the due date, not from the execution time, so late runs don't drift.
type RecurringPayment struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	WalletID          uint            `gorm:"not null" json:"wallet_id"`
	RecipientWalletID *uint           `json:"recipient_wallet_id,omitempty"`
	RecipientEmail    string          `json:"recipient_email,omitempty"`
	Amount            decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Description       string          `json:"description"`
	Frequency         string          `gorm:"size:16;not null" json:"frequency"`
	NextPaymentDate   time.Time       `gorm:"not null" json:"next_payment_date"`
	EndDate           *time.Time      `json:"end_date,omitempty"`
	Active            bool            `gorm:"not null;default:true" json:"active"`
	TotalPayments     int             `gorm:"not null;default:0" json:"total_payments"`
	LastPaidAt        *time.Time      `json:"last_paid_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
