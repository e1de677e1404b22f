package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rosepay/internal/repositories"
	"rosepay/internal/services/gateway"
	"rosepay/internal/utils"
)

type GatewayHandler struct {
	service gateway.Service
}

func NewGatewayHandler(service gateway.Service) *GatewayHandler {
	return &GatewayHandler{service: service}
}

func (h *GatewayHandler) CreateDepositOrder(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		WalletID uint            `json:"wallet_id"`
		Amount   decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if !input.Amount.IsPositive() {
		return utils.BadRequest(c, "amount must be positive")
	}
	order, err := h.service.CreateDepositOrder(claims.UserID, input.WalletID, input.Amount)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to create deposit order")
	}
	return utils.Created(c, fiber.Map{"order": order})
}

func (h *GatewayHandler) ConfirmDeposit(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		WalletID  uint            `json:"wallet_id"`
		OrderID   string          `json:"order_id"`
		PaymentID string          `json:"payment_id"`
		Amount    decimal.Decimal `json:"amount"`
		Signature string          `json:"signature"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	result, err := h.service.ConfirmDeposit(c.Context(), gateway.ConfirmParams{
		UserID:    claims.UserID,
		WalletID:  input.WalletID,
		OrderID:   input.OrderID,
		PaymentID: input.PaymentID,
		Amount:    input.Amount,
		Signature: input.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrBadSignature):
			return utils.Unauthorized(c, err.Error())
		case errors.Is(err, gateway.ErrPaymentNotCaptured),
			errors.Is(err, gateway.ErrAmountMismatch):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, repositories.ErrWalletNotFound):
			return utils.NotFound(c, "wallet not found")
		default:
			return transferStatus(c, err)
		}
	}
	return utils.Success(c, result)
}
