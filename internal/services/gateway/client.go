// Package gateway funds wallets from an external card processor. An
// order is created first, the processor collects the card payment, and
// the signed callback credits the wallet exactly once.
package gateway

import (
	"fmt"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"rosepay/internal/config"
)

// Payment statuses normalized from the processor.
const (
	PaymentStatusCaptured   = "captured"
	PaymentStatusAuthorized = "authorized"
	PaymentStatusFailed     = "failed"
)

// Order is a processor-side intent to collect a payment.
type Order struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ClientSecret string          `json:"client_secret"`
}

// Payment is the processor's record of a collected payment.
type Payment struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
}

// Client abstracts the card processor so tests can substitute a fake.
type Client interface {
	CreateOrder(amount decimal.Decimal, currency, reference string) (*Order, error)
	FetchPayment(paymentID string) (*Payment, error)
}

type stripeClient struct {
	api *client.API
}

// NewStripeClient reads STRIPE_SECRET_KEY and returns a live client.
func NewStripeClient() Client {
	api := &client.API{}
	api.Init(config.GetEnv("STRIPE_SECRET_KEY", ""), nil)
	return &stripeClient{api: api}
}

func (c *stripeClient) CreateOrder(amount decimal.Decimal, currency, reference string) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(amount)),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("reference", reference)
	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Order{
		ID:           intent.ID,
		Amount:       amount,
		Currency:     currency,
		ClientSecret: intent.ClientSecret,
	}, nil
}

func (c *stripeClient) FetchPayment(paymentID string) (*Payment, error) {
	intent, err := c.api.PaymentIntents.Get(paymentID, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch payment intent: %w", err)
	}
	return &Payment{
		ID:     intent.ID,
		Amount: fromMinorUnits(intent.Amount),
		Status: normalizeStatus(intent.Status),
	}, nil
}

func normalizeStatus(s stripe.PaymentIntentStatus) string {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return PaymentStatusCaptured
	case stripe.PaymentIntentStatusRequiresCapture:
		return PaymentStatusAuthorized
	default:
		return PaymentStatusFailed
	}
}

// toMinorUnits converts a major-unit amount to the processor's integer
// minor units (cents).
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

func fromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(decimal.NewFromInt(100))
}
