package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rosepay/internal/repositories"
	"rosepay/internal/services/merchant"
	"rosepay/internal/utils"
)

type MerchantHandler struct {
	service merchant.Service
}

func NewMerchantHandler(service merchant.Service) *MerchantHandler {
	return &MerchantHandler{service: service}
}

func (h *MerchantHandler) Register(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		BusinessName string `json:"business_name"`
		BusinessType string `json:"business_type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	m, err := h.service.Register(claims.UserID, input.BusinessName, input.BusinessType)
	if err != nil {
		switch {
		case errors.Is(err, merchant.ErrAlreadyRegistered):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, merchant.ErrBusinessNameEmpty):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to register merchant")
		}
	}
	return utils.Created(c, fiber.Map{"merchant": m})
}

func (h *MerchantHandler) GetProfile(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	m, err := h.service.GetProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return utils.NotFound(c, "merchant profile not found")
		}
		return utils.InternalError(c, "failed to get merchant profile")
	}
	return utils.Success(c, fiber.Map{"merchant": m})
}

func (h *MerchantHandler) Lookup(c *fiber.Ctx) error {
	m, err := h.service.Lookup(c.Params("merchant_id"))
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return utils.NotFound(c, "merchant not found")
		}
		return utils.InternalError(c, "failed to look up merchant")
	}
	// Public lookup exposes only the business identity.
	return utils.Success(c, fiber.Map{"merchant": fiber.Map{
		"merchant_id":   m.MerchantID,
		"business_name": m.BusinessName,
		"business_type": m.BusinessType,
		"active":        m.Active,
	}})
}

func (h *MerchantHandler) GetStats(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	stats, err := h.service.GetStats(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrMerchantNotFound) {
			return utils.NotFound(c, "merchant profile not found")
		}
		return utils.InternalError(c, "failed to get merchant stats")
	}
	return utils.Success(c, fiber.Map{"stats": stats})
}
