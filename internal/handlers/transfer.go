package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rosepay/internal/models"
	"rosepay/internal/repositories"
	"rosepay/internal/services/limits"
	"rosepay/internal/services/transfer"
	"rosepay/internal/utils"
)

type TransferHandler struct {
	engine transfer.Engine
}

func NewTransferHandler(engine transfer.Engine) *TransferHandler {
	return &TransferHandler{engine: engine}
}

// transferStatus maps money movement failures onto HTTP statuses. Shared
// by every handler that runs a transfer underneath.
func transferStatus(c *fiber.Ctx, err error) error {
	var amountErr *limits.AmountError
	var dailyErr *limits.DailyLimitError
	switch {
	case errors.As(err, &amountErr):
		return utils.BadRequest(c, amountErr.Error())
	case errors.As(err, &dailyErr):
		return utils.Forbidden(c, dailyErr.Error())
	case errors.Is(err, transfer.ErrInsufficientFunds),
		errors.Is(err, transfer.ErrSameWallet),
		errors.Is(err, transfer.ErrCurrencyMismatch):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, transfer.ErrWalletInactive):
		return utils.Forbidden(c, err.Error())
	case errors.Is(err, repositories.ErrWalletNotFound):
		return utils.NotFound(c, "wallet not found")
	default:
		return utils.InternalError(c, "transfer failed")
	}
}

func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		SourceWalletID uint            `json:"source_wallet_id"`
		DestWalletID   uint            `json:"dest_wallet_id"`
		Amount         decimal.Decimal `json:"amount"`
		Description    string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.SourceWalletID == 0 || input.DestWalletID == 0 {
		return utils.BadRequest(c, "source and destination wallets are required")
	}
	txn, err := h.engine.Transfer(c.Context(), transfer.Request{
		UserID:         claims.UserID,
		SourceWalletID: &input.SourceWalletID,
		DestWalletID:   input.DestWalletID,
		Amount:         input.Amount,
		Type:           models.TransactionTypeTransfer,
		Description:    input.Description,
	})
	if err != nil {
		return transferStatus(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": txn})
}

// Deposit credits a wallet from outside the ledger without a gateway
// order, for manual top-ups.
func (h *TransferHandler) Deposit(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		WalletID    uint            `json:"wallet_id"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.WalletID == 0 {
		return utils.BadRequest(c, "wallet is required")
	}
	txn, err := h.engine.Transfer(c.Context(), transfer.Request{
		UserID:       claims.UserID,
		DestWalletID: input.WalletID,
		Amount:       input.Amount,
		Type:         models.TransactionTypeDeposit,
		Description:  input.Description,
	})
	if err != nil {
		return transferStatus(c, err)
	}
	return utils.Created(c, fiber.Map{"transaction": txn})
}
