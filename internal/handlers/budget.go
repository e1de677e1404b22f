package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rosepay/internal/repositories"
	"rosepay/internal/services/budget"
	"rosepay/internal/utils"
)

type BudgetHandler struct {
	service budget.Service
}

func NewBudgetHandler(service budget.Service) *BudgetHandler {
	return &BudgetHandler{service: service}
}

func (h *BudgetHandler) Create(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		WalletID *uint           `json:"wallet_id"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Period   string          `json:"period"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	b, err := h.service.Create(claims.UserID, input.WalletID, input.Category, input.Amount, input.Period)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrWalletNotFound):
			return utils.NotFound(c, "wallet not found")
		case errors.Is(err, budget.ErrInvalidPeriod),
			errors.Is(err, budget.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to create budget")
		}
	}
	return utils.Created(c, fiber.Map{"budget": b})
}

func (h *BudgetHandler) Get(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid budget id")
	}
	status, err := h.service.Get(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return utils.NotFound(c, "budget not found")
		}
		return utils.InternalError(c, "failed to get budget")
	}
	return utils.Success(c, fiber.Map{"budget": status})
}

func (h *BudgetHandler) List(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	statuses, err := h.service.List(claims.UserID, c.QueryBool("active_only", true))
	if err != nil {
		return utils.InternalError(c, "failed to list budgets")
	}
	return utils.Success(c, fiber.Map{"budgets": statuses})
}

func (h *BudgetHandler) Check(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	walletID := c.QueryInt("wallet_id")
	if walletID <= 0 {
		return utils.BadRequest(c, "invalid wallet id")
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		return utils.BadRequest(c, "invalid amount")
	}
	exceeded, err := h.service.CheckSpend(claims.UserID, uint(walletID), amount)
	if err != nil {
		return utils.InternalError(c, "failed to check budgets")
	}
	return utils.Success(c, fiber.Map{
		"would_exceed":     len(exceeded) > 0,
		"exceeded_budgets": exceeded,
	})
}

func (h *BudgetHandler) Deactivate(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid budget id")
	}
	if err := h.service.Deactivate(uint(id), claims.UserID); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return utils.NotFound(c, "budget not found")
		}
		return utils.InternalError(c, "failed to deactivate budget")
	}
	return utils.Success(c, fiber.Map{"message": "budget deactivated"})
}
