package auth

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	ctx := c.UserContext()
	ip := c.IP()

	result, err := h.authService.Login(ctx, req)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindUnauthorized) {
			h.bruteForceProtection.RecordFailedAttempt(ctx, ip)
		}
		return response.FromError(c, err)
	}

	// Clear failed attempts on successful login
	h.bruteForceProtection.RecordSuccessfulAttempt(ctx, ip)

	return response.SuccessWithMessage(c, "Login successful", result)
}
