package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rosepay/internal/repositories"
	"rosepay/internal/services/recurring"
	"rosepay/internal/utils"
)

type RecurringHandler struct {
	service recurring.Service
}

func NewRecurringHandler(service recurring.Service) *RecurringHandler {
	return &RecurringHandler{service: service}
}

func (h *RecurringHandler) Create(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		WalletID          uint            `json:"wallet_id"`
		RecipientWalletID *uint           `json:"recipient_wallet_id"`
		RecipientEmail    string          `json:"recipient_email"`
		Amount            decimal.Decimal `json:"amount"`
		Description       string          `json:"description"`
		Frequency         string          `json:"frequency"`
		StartDate         *time.Time      `json:"start_date"`
		EndDate           *time.Time      `json:"end_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	rp, err := h.service.Create(recurring.CreateParams{
		UserID:            claims.UserID,
		WalletID:          input.WalletID,
		RecipientWalletID: input.RecipientWalletID,
		RecipientEmail:    input.RecipientEmail,
		Amount:            input.Amount,
		Description:       input.Description,
		Frequency:         input.Frequency,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound),
			errors.Is(err, repositories.ErrUserNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, recurring.ErrInvalidFrequency),
			errors.Is(err, recurring.ErrNoRecipient),
			errors.Is(err, recurring.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to create recurring payment")
		}
	}
	return utils.Created(c, fiber.Map{"recurring_payment": rp})
}

func (h *RecurringHandler) Get(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid recurring payment id")
	}
	rp, err := h.service.Get(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecurringNotFound) {
			return utils.NotFound(c, "recurring payment not found")
		}
		return utils.InternalError(c, "failed to get recurring payment")
	}
	return utils.Success(c, fiber.Map{"recurring_payment": rp})
}

func (h *RecurringHandler) List(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	list, err := h.service.List(claims.UserID, c.QueryBool("active_only", false))
	if err != nil {
		return utils.InternalError(c, "failed to list recurring payments")
	}
	return utils.Success(c, fiber.Map{"recurring_payments": list})
}

// Execute runs one due schedule on demand instead of waiting for the
// scheduler tick.
func (h *RecurringHandler) Execute(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid recurring payment id")
	}
	// Ownership first so foreign schedules stay invisible.
	if _, err := h.service.Get(uint(id), claims.UserID); err != nil {
		if errors.Is(err, repositories.ErrRecurringNotFound) {
			return utils.NotFound(c, "recurring payment not found")
		}
		return utils.InternalError(c, "failed to execute recurring payment")
	}
	txn, err := h.service.ExecuteDue(c.Context(), uint(id), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, recurring.ErrNotDue),
			errors.Is(err, recurring.ErrEnded),
			errors.Is(err, recurring.ErrInactive):
			return utils.Conflict(c, err.Error())
		default:
			return transferStatus(c, err)
		}
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

func (h *RecurringHandler) Cancel(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid recurring payment id")
	}
	if err := h.service.Cancel(uint(id), claims.UserID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRecurringNotFound):
			return utils.NotFound(c, "recurring payment not found")
		case errors.Is(err, recurring.ErrInactive):
			return utils.Conflict(c, err.Error())
		default:
			return utils.InternalError(c, "failed to cancel recurring payment")
		}
	}
	return utils.Success(c, fiber.Map{"message": "recurring payment cancelled"})
}
