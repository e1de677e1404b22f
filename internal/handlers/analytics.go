package handlers

import (
	"github.com/gofiber/fiber/v2"

	"rosepay/internal/services/analytics"
	"rosepay/internal/utils"
)

type AnalyticsHandler struct {
	service analytics.Service
}

func NewAnalyticsHandler(service analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	summary, err := h.service.Summarize(claims.UserID, c.QueryInt("days", 30))
	if err != nil {
		return utils.InternalError(c, "failed to build summary")
	}
	return utils.Success(c, fiber.Map{"summary": summary})
}
