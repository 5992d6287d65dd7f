package faculty

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// FacultyHandler serves the faculty dashboard and evaluation endpoints
type FacultyHandler struct {
	userService       *services.UserService
	evaluationService *services.EvaluationService
}

// NewFacultyHandler creates a new faculty handler
func NewFacultyHandler(userService *services.UserService, evaluationService *services.EvaluationService) *FacultyHandler {
	return &FacultyHandler{
		userService:       userService,
		evaluationService: evaluationService,
	}
}

// ListAssignedStudents handles GET /api/faculty/students
func (h *FacultyHandler) ListAssignedStudents(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	students, err := h.userService.ListAssignedStudents(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, students)
}

// UpsertEvaluation handles POST /api/faculty/evaluations/:studentId
func (h *FacultyHandler) UpsertEvaluation(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	studentID, err := handlers.ParamID(c, "studentId")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.EvaluationRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	evaluation, created, err := h.evaluationService.Upsert(c.UserContext(), user, studentID, req)
	if err != nil {
		return response.FromError(c, err)
	}
	if created {
		return response.Created(c, "Evaluation submitted successfully", evaluation)
	}
	return response.SuccessWithMessage(c, "Evaluation updated successfully", evaluation)
}

// ListEvaluations handles GET /api/faculty/evaluations
func (h *FacultyHandler) ListEvaluations(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	evaluations, err := h.evaluationService.ListByEvaluator(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, evaluations)
}

// ListMyEvaluations handles GET /api/evaluations/my for students
func (h *FacultyHandler) ListMyEvaluations(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	evaluations, err := h.evaluationService.ListMine(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, evaluations)
}
