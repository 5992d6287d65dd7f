package auth

import (
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/middleware"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// Logout handles POST /api/auth/logout. The presented token stays revoked
// until it would have expired.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.FromError(c, apperrors.Unauthorized("User not authenticated"))
	}

	if err := h.authService.Logout(c.UserContext(), claims); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
