package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rosepay/internal/repositories"
	"rosepay/internal/services/wallet"
	"rosepay/internal/utils"
	"rosepay/internal/validation"
)

type WalletHandler struct {
	service wallet.Service
}

func NewWalletHandler(service wallet.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) CreateWallet(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		Currency string `json:"currency"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	w, err := h.service.CreateWallet(claims.UserID, input.Currency)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletExists):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, validation.ErrInvalidCurrency):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to create wallet")
		}
	}
	return utils.Created(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}
	w, err := h.service.GetWallet(c.Context(), uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.InternalError(c, "failed to get wallet")
	}
	return utils.Success(c, fiber.Map{"wallet": w})
}

func (h *WalletHandler) ListWallets(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	wallets, err := h.service.ListWallets(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list wallets")
	}
	return utils.Success(c, fiber.Map{"wallets": wallets})
}

func (h *WalletHandler) SetPIN(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}
	var input struct {
		PIN string `json:"pin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := h.service.SetPIN(c.Context(), uint(id), claims.UserID, input.PIN); err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound):
			return utils.NotFound(c, "wallet not found")
		case errors.Is(err, validation.ErrInvalidPIN):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to set PIN")
		}
	}
	return utils.Success(c, fiber.Map{"message": "PIN updated"})
}

func (h *WalletHandler) VerifyPIN(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}
	var input struct {
		PIN string `json:"pin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := h.service.VerifyPIN(c.Context(), uint(id), claims.UserID, input.PIN); err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound):
			return utils.NotFound(c, "wallet not found")
		case errors.Is(err, wallet.ErrPINNotSet), errors.Is(err, wallet.ErrPINMismatch):
			return utils.Forbidden(c, err.Error())
		default:
			return utils.InternalError(c, "failed to verify PIN")
		}
	}
	return utils.Success(c, fiber.Map{"valid": true})
}

func (h *WalletHandler) SetStatus(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}
	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := h.service.SetStatus(c.Context(), uint(id), claims.UserID, input.Status); err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return utils.NotFound(c, "wallet not found")
		}
		return utils.BadRequest(c, err.Error())
	}
	return utils.Success(c, fiber.Map{"message": "wallet status updated"})
}
