package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rosepay/internal/repositories"
	"rosepay/internal/services/links"
	"rosepay/internal/utils"
)

type PaymentLinkHandler struct {
	service links.Service
}

func NewPaymentLinkHandler(service links.Service) *PaymentLinkHandler {
	return &PaymentLinkHandler{service: service}
}

func (h *PaymentLinkHandler) CreateLink(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		ExpiresAt   *time.Time      `json:"expires_at"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	link, err := h.service.CreateLink(claims.UserID, input.Amount, input.Description, input.ExpiresAt)
	if err != nil {
		if errors.Is(err, links.ErrInvalidAmount) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "failed to create payment link")
	}
	return utils.Created(c, fiber.Map{"payment_link": link})
}

func (h *PaymentLinkHandler) GetLink(c *fiber.Ctx) error {
	link, err := h.service.GetLink(c.Params("link_id"))
	if err != nil {
		if errors.Is(err, repositories.ErrLinkNotFound) {
			return utils.NotFound(c, "payment link not found")
		}
		return utils.InternalError(c, "failed to get payment link")
	}
	return utils.Success(c, fiber.Map{"payment_link": link})
}

func (h *PaymentLinkHandler) ListLinks(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	list, err := h.service.ListLinks(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list payment links")
	}
	return utils.Success(c, fiber.Map{"payment_links": list})
}

func (h *PaymentLinkHandler) PayLink(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		WalletID uint `json:"wallet_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	txn, err := h.service.PayLink(c.Context(), c.Params("link_id"), claims.UserID, input.WalletID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrLinkNotFound):
			return utils.NotFound(c, "payment link not found")
		case errors.Is(err, links.ErrLinkAlreadyPaid),
			errors.Is(err, links.ErrLinkInactive):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, links.ErrLinkExpired):
			return utils.Respond(c, fiber.StatusGone, fiber.Map{"error": err.Error()})
		case errors.Is(err, links.ErrOwnLink):
			return utils.BadRequest(c, err.Error())
		default:
			return transferStatus(c, err)
		}
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

func (h *PaymentLinkHandler) CancelLink(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if err := h.service.CancelLink(c.Params("link_id"), claims.UserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrLinkNotFound):
			return utils.NotFound(c, "payment link not found")
		case errors.Is(err, links.ErrLinkAlreadyPaid):
			return utils.Conflict(c, err.Error())
		default:
			return utils.InternalError(c, "failed to cancel payment link")
		}
	}
	return utils.Success(c, fiber.Map{"message": "payment link cancelled"})
}
