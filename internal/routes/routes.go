// Package routes wires handlers onto the fiber app.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"rosepay/internal/handlers"
	"rosepay/internal/middleware"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Wallet      *handlers.WalletHandler
	Transfer    *handlers.TransferHandler
	Transaction *handlers.TransactionHandler
	Links       *handlers.PaymentLinkHandler
	Requests    *handlers.PaymentRequestHandler
	BillSplit   *handlers.BillSplitHandler
	Recurring   *handlers.RecurringHandler
	Budget      *handlers.BudgetHandler
	Merchant    *handlers.MerchantHandler
	Gateway     *handlers.GatewayHandler
	Analytics   *handlers.AnalyticsHandler
}

func Register(app *fiber.App, h Handlers) {
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public
	api.Post("/auth/register", h.Auth.Register)
	api.Post("/auth/login", h.Auth.Login)
	api.Get("/merchants/:merchant_id", h.Merchant.Lookup)
	api.Get("/payment-links/:link_id", h.Links.GetLink)

	// Authenticated
	auth := api.Group("", middleware.Auth())

	auth.Get("/auth/me", h.Auth.Me)

	auth.Post("/wallets", h.Wallet.CreateWallet)
	auth.Get("/wallets", h.Wallet.ListWallets)
	auth.Get("/wallets/:id", h.Wallet.GetWallet)
	auth.Post("/wallets/:id/pin", h.Wallet.SetPIN)
	auth.Post("/wallets/:id/verify-pin", h.Wallet.VerifyPIN)
	auth.Patch("/wallets/:id/status", h.Wallet.SetStatus)

	auth.Post("/transfers", h.Transfer.Transfer)
	auth.Post("/deposits", h.Transfer.Deposit)
	auth.Get("/transactions", h.Transaction.ListTransactions)
	auth.Get("/transactions/:id", h.Transaction.GetTransaction)

	auth.Post("/payment-links", h.Links.CreateLink)
	auth.Get("/payment-links", h.Links.ListLinks)
	auth.Post("/payment-links/:link_id/pay", h.Links.PayLink)
	auth.Delete("/payment-links/:link_id", h.Links.CancelLink)

	auth.Post("/payment-requests", h.Requests.CreateRequest)
	auth.Get("/payment-requests/received", h.Requests.ListReceived)
	auth.Get("/payment-requests/sent", h.Requests.ListSent)
	auth.Post("/payment-requests/:id/pay", h.Requests.PayRequest)
	auth.Post("/payment-requests/:id/decline", h.Requests.DeclineRequest)
	auth.Post("/payment-requests/:id/cancel", h.Requests.CancelRequest)

	auth.Post("/bill-splits", h.BillSplit.CreateSplit)
	auth.Get("/bill-splits", h.BillSplit.ListSplits)
	auth.Get("/bill-splits/:id", h.BillSplit.GetSplit)
	auth.Post("/bill-splits/:id/participants/:participant_id/settle", h.BillSplit.SettleShare)

	auth.Post("/recurring-payments", h.Recurring.Create)
	auth.Get("/recurring-payments", h.Recurring.List)
	auth.Get("/recurring-payments/:id", h.Recurring.Get)
	auth.Post("/recurring-payments/:id/execute", h.Recurring.Execute)
	auth.Post("/recurring-payments/:id/cancel", h.Recurring.Cancel)

	auth.Post("/budgets", h.Budget.Create)
	auth.Get("/budgets", h.Budget.List)
	auth.Get("/budgets/check", h.Budget.Check)
	auth.Get("/budgets/:id", h.Budget.Get)
	auth.Delete("/budgets/:id", h.Budget.Deactivate)

	auth.Post("/merchants", h.Merchant.Register)
	auth.Get("/merchants/me/profile", h.Merchant.GetProfile)
	auth.Get("/merchants/me/stats", h.Merchant.GetStats)

	auth.Post("/gateway/deposit-orders", h.Gateway.CreateDepositOrder)
	auth.Post("/gateway/deposits/confirm", h.Gateway.ConfirmDeposit)

	auth.Get("/analytics/summary", h.Analytics.Summary)
}
