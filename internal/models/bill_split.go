package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillSplit divides one expense among N participants. Participant shares
// must sum to the total at creation time. The split completes when the
// last participant settles; completion is derived in the same unit of
// work as the settling transfer, never by a background scan.
type BillSplit struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatorID   uint            `gorm:"not null;index" json:"creator_id"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"total_amount"`
	Currency    string          `gorm:"size:3;default:'USD'" json:"currency"`
	Status      string          `gorm:"size:16;not null;default:'pending'" json:"status"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`

	Participants []BillSplitParticipant `gorm:"foreignKey:BillSplitID" json:"participants,omitempty"`
}

// BillSplitParticipant tracks one person's share of a split.
type BillSplitParticipant struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	BillSplitID   uint            `gorm:"not null;index" json:"bill_split_id"`
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	AmountOwed    decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount_owed"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"amount_paid"`
	Settled       bool            `gorm:"not null;default:false" json:"settled"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
	TransactionID *uint           `json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
