package auth

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/auth/me
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	profile, err := h.userService.GetProfile(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, profile)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ProfileUpdateRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	updated, err := h.userService.UpdateProfile(c.UserContext(), user, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Profile updated successfully", updated)
}
