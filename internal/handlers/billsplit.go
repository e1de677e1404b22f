package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"rosepay/internal/repositories"
	"rosepay/internal/services/billsplit"
	"rosepay/internal/utils"
)

type BillSplitHandler struct {
	service billsplit.Service
}

func NewBillSplitHandler(service billsplit.Service) *BillSplitHandler {
	return &BillSplitHandler{service: service}
}

func (h *BillSplitHandler) CreateSplit(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	var input struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		Currency    string          `json:"currency"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		Shares      []struct {
			Email  string          `json:"email"`
			Amount decimal.Decimal `json:"amount"`
		} `json:"shares"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	shares := make([]billsplit.Share, 0, len(input.Shares))
	for _, s := range input.Shares {
		shares = append(shares, billsplit.Share{Email: s.Email, Amount: s.Amount})
	}
	split, err := h.service.CreateSplit(claims.UserID, input.Title, input.Description,
		input.Currency, input.TotalAmount, shares)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return utils.NotFound(c, "participant not found")
		case errors.Is(err, billsplit.ErrNoParticipants),
			errors.Is(err, billsplit.ErrShareMismatch),
			errors.Is(err, billsplit.ErrCreatorIncluded),
			errors.Is(err, billsplit.ErrDuplicateMember),
			errors.Is(err, billsplit.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to create bill split")
		}
	}
	return utils.Created(c, fiber.Map{"bill_split": split})
}

func (h *BillSplitHandler) GetSplit(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid bill split id")
	}
	split, err := h.service.GetSplit(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrSplitNotFound) {
			return utils.NotFound(c, "bill split not found")
		}
		return utils.InternalError(c, "failed to get bill split")
	}
	return utils.Success(c, fiber.Map{"bill_split": split})
}

func (h *BillSplitHandler) ListSplits(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	list, err := h.service.ListSplits(claims.UserID)
	if err != nil {
		return utils.InternalError(c, "failed to list bill splits")
	}
	return utils.Success(c, fiber.Map{"bill_splits": list})
}

func (h *BillSplitHandler) SettleShare(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	splitID, err := c.ParamsInt("id")
	if err != nil || splitID <= 0 {
		return utils.BadRequest(c, "invalid bill split id")
	}
	participantID, err := c.ParamsInt("participant_id")
	if err != nil || participantID <= 0 {
		return utils.BadRequest(c, "invalid participant id")
	}
	var input struct {
		WalletID uint `json:"wallet_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	txn, err := h.service.SettleShare(c.Context(), uint(splitID), uint(participantID),
		claims.UserID, input.WalletID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSplitNotFound),
			errors.Is(err, repositories.ErrParticipantNotFound):
			return utils.NotFound(c, "bill split not found")
		case errors.Is(err, billsplit.ErrAlreadySettled),
			errors.Is(err, billsplit.ErrSplitNotPending):
			return utils.Conflict(c, err.Error())
		default:
			return transferStatus(c, err)
		}
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}
