package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rosepay/internal/repositories"
	"rosepay/internal/services/requests"
	"rosepay/internal/utils"
)

type PaymentRequestHandler struct {
	service requests.Service
}

func NewPaymentRequestHandler(service requests.Service) *PaymentRequestHandler {
	return &PaymentRequestHandler{service: service}
}

func (h *PaymentRequestHandler) CreateRequest(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		RecipientEmail string          `json:"recipient_email"`
		Amount         decimal.Decimal `json:"amount"`
		Description    string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	req, err := h.service.CreateRequest(claims.UserID, input.RecipientEmail, input.Amount, input.Description)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return utils.NotFound(c, "recipient not found")
		case errors.Is(err, requests.ErrSelfRequest),
			errors.Is(err, requests.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to create payment request")
		}
	}
	return utils.Created(c, fiber.Map{"payment_request": req})
}

func (h *PaymentRequestHandler) ListReceived(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	list, err := h.service.ListReceived(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list payment requests")
	}
	return utils.Success(c, fiber.Map{"payment_requests": list})
}

func (h *PaymentRequestHandler) ListSent(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	list, err := h.service.ListSent(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list payment requests")
	}
	return utils.Success(c, fiber.Map{"payment_requests": list})
}

func (h *PaymentRequestHandler) PayRequest(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid request id")
	}
	var input struct {
		WalletID uint `json:"wallet_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	txn, err := h.service.PayRequest(c.Context(), uint(id), claims.UserID, input.WalletID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrRequestNotFound):
			return utils.NotFound(c, "payment request not found")
		case errors.Is(err, requests.ErrAlreadyProcessed):
			return utils.Conflict(c, err.Error())
		default:
			return transferStatus(c, err)
		}
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

func (h *PaymentRequestHandler) DeclineRequest(c *fiber.Ctx) error {
	return h.settle(c, func(id, userID uint) error {
		return h.service.DeclineRequest(id, userID)
	}, "payment request declined")
}

func (h *PaymentRequestHandler) CancelRequest(c *fiber.Ctx) error {
	return h.settle(c, func(id, userID uint) error {
		return h.service.CancelRequest(id, userID)
	}, "payment request cancelled")
}

func (h *PaymentRequestHandler) settle(c *fiber.Ctx, fn func(id, userID uint) error, message string) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid request id")
	}
	if err := fn(uint(id), claims.UserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRequestNotFound):
			return utils.NotFound(c, "payment request not found")
		case errors.Is(err, requests.ErrAlreadyProcessed):
			return utils.Conflict(c, err.Error())
		default:
			return utils.InternalError(c, "failed to update payment request")
		}
	}
	return utils.Success(c, fiber.Map{"message": message})
}
