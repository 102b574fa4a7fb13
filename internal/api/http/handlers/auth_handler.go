package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/AaronAmha/HomeManagement/internal/api/dto"
	"github.com/AaronAmha/HomeManagement/internal/service"
	apperrors "github.com/AaronAmha/HomeManagement/pkg/util"
)

// AuthHandler manages operator login for the ops API.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, expiresAt, operator, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     operator.Email,
		Name:      operator.Name,
	}})
}
