// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"rosepay/internal/config"
	"rosepay/internal/models"
	"rosepay/internal/utils"
)

// Auth validates the Bearer token and stores the claims in the request
// context under "claims".
func Auth() fiber.Handler {
	secret := config.GetEnv("JWT_SECRET", "")
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return utils.Unauthorized(c, "missing authorization header")
		}
		if !strings.HasPrefix(header, "Bearer ") {
			return utils.Unauthorized(c, "invalid authorization format")
		}
		claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
		if err != nil {
			return utils.Unauthorized(c, "invalid token")
		}
		c.Locals("claims", claims)
		return c.Next()
	}
}

// Claims extracts the authenticated user's claims from the context.
func Claims(c *fiber.Ctx) (*models.UserClaims, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	return claims, ok && claims != nil
}
