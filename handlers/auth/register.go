package auth

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/utils/middleware"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication and profile endpoints
type AuthHandler struct {
	authService          *services.AuthService
	userService          *services.UserService
	bruteForceProtection *middleware.BruteForceProtection
}

// NewAuthHandler creates a new auth handler. bruteForceProtection may be nil.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		userService:          userService,
		bruteForceProtection: bruteForceProtection,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	result, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "User registered successfully", result)
}
