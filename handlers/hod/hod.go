package hod

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HODHandler serves the department views of a head of department.
// Project and meeting listings reuse the role scoped service listings.
type HODHandler struct {
	userService *services.UserService
}

// NewHODHandler creates a new HOD handler
func NewHODHandler(userService *services.UserService) *HODHandler {
	return &HODHandler{userService: userService}
}

// ListFaculty handles GET /api/hod/faculty
func (h *HODHandler) ListFaculty(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	faculty, err := h.userService.ListDepartmentFaculty(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, faculty)
}
