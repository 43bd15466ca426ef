package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest represents the change password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Login handles user authentication
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(apperror.New("Username and password are required"))
	}

	response, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		// Return 401 for authentication errors
		return c.Status(401).JSON(apperror.New(err.Error()))
	}

	return c.JSON(response)
}

// ChangePassword handles password change for the logged in user
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return c.Status(400).JSON(apperror.New("old_password and new_password are required"))
	}

	if err := h.authService.ChangePassword(actor, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			return c.Status(400).JSON(apperror.New(err.Error()))
		}
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}

// ValidateTokenRequest represents the validate token request body
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateToken handles JWT token validation
// POST /api/v1/auth/validate-token
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var req ValidateTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	if req.Token == "" {
		return c.Status(400).JSON(apperror.New("Token is required"))
	}

	response, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		return c.Status(401).JSON(apperror.New(err.Error()))
	}

	return c.JSON(response)
}
