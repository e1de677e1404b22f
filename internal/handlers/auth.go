// Package handlers maps HTTP requests onto the service layer and domain
// errors onto status codes.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"rosepay/internal/middleware"
	"rosepay/internal/models"
	"rosepay/internal/services/auth"
	"rosepay/internal/utils"
	"rosepay/internal/validation"
)

// requireClaims pulls the authenticated claims set by the auth
// middleware.
func requireClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	result, err := h.service.Register(input.Email, input.Password, input.FullName)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, validation.ErrInvalidEmail), errors.Is(err, validation.ErrWeakPassword):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, "failed to register user")
		}
	}
	return utils.Created(c, result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	result, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return utils.Unauthorized(c, err.Error())
		case errors.Is(err, auth.ErrUserDisabled):
			return utils.Forbidden(c, err.Error())
		default:
			return utils.InternalError(c, "failed to log in")
		}
	}
	return utils.Success(c, result)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, err := requireClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	user, err := h.service.GetUser(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "user not found")
	}
	return utils.Success(c, fiber.Map{"user": user})
}
