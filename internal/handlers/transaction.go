package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rosepay/internal/repositories"
	"rosepay/internal/utils"
)

type TransactionHandler struct {
	store repositories.Store
}

func NewTransactionHandler(store repositories.Store) *TransactionHandler {
	return &TransactionHandler{store: store}
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return utils.BadRequest(c, "invalid transaction id")
	}
	txn, err := h.store.GetTransaction(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return utils.NotFound(c, "transaction not found")
		}
		return utils.InternalError(c, "failed to get transaction")
	}
	return utils.Success(c, fiber.Map{"transaction": txn})
}

func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}
	walletID := c.QueryInt("wallet_id", 0)

	txns, err := h.store.ListTransactions(claims.UserID, uint(walletID), limit, offset)
	if err != nil {
		return utils.InternalError(c, "failed to list transactions")
	}
	return utils.Success(c, fiber.Map{
		"transactions": txns,
		"limit":        limit,
		"offset":       offset,
	})
}
