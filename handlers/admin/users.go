package admin

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// UserHandler serves admin user management
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new admin user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /api/admin/users.
// Supports ?role, ?department, ?page and ?limit.
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	_, _, page := handlers.Pagination(c)
	users, err := h.userService.AdminList(c.UserContext(), user, services.UserListOptions{
		Role:       c.Query("role"),
		Department: c.Query("department"),
		Page:       page,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, users)
}

// GetUser handles GET /api/admin/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	target, err := h.userService.AdminGet(c.UserContext(), user, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, target)
}

// UpdateUser handles PUT /api/admin/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.AdminUserUpdateRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	target, err := h.userService.AdminUpdate(c.UserContext(), user, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "User updated successfully", target)
}

// DeleteUser handles DELETE /api/admin/users/:id. References to the user are
// detached before the soft delete.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.userService.AdminDelete(c.UserContext(), user, id); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}
