package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Merchant is a business profile attached to one user. TotalRevenue is a
// denormalized counter bumped after transfers into a merchant-owned
// wallet; the transactions table remains the source of truth.
type Merchant struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	UserID       uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessName string          `gorm:"not null" json:"business_name"`
	BusinessType string          `json:"business_type,omitempty"`
	MerchantID   string          `gorm:"size:16;uniqueIndex;not null" json:"merchant_id"`
	Active       bool            `gorm:"not null;default:true" json:"active"`
	TotalRevenue decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"total_revenue"`
	CreatedAt    time.Time       `json:"created_at"`
}
