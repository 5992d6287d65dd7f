package project

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles project lifecycle endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// GuideRequest is the body of PUT /api/projects/:id/guide
type GuideRequest struct {
	Guide uint `json:"guide"`
}

// PanelRequest is the body of PUT /api/admin/projects/:id/panel
type PanelRequest struct {
	Members []uint `json:"members"`
}

// SubmitProposal handles POST /api/projects/proposal
func (h *ProjectHandler) SubmitProposal(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ProposalRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	project, err := h.projectService.SubmitProposal(c.UserContext(), user, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Project proposal submitted successfully", project)
}

// ListMine handles GET /api/projects/my
func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	projects, err := h.projectService.ListMine(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, projects)
}

// ListProjects handles GET /api/projects and the HOD/admin project listings.
// Supports ?status, ?page and ?limit.
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	_, _, page := handlers.Pagination(c)
	projects, err := h.projectService.List(c.UserContext(), user, services.ProjectListOptions{
		Status: c.Query("status"),
		Page:   page,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, projects)
}

// GetProject handles GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	project, err := h.projectService.Get(c.UserContext(), user, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, project)
}

// UpdateStatus handles PATCH /api/projects/:id/status
func (h *ProjectHandler) UpdateStatus(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.StatusUpdateRequest
	if err := handlers.ParseFields(c, user, authz.KindProject, &req); err != nil {
		return response.FromError(c, err)
	}

	project, err := h.projectService.UpdateStatus(c.UserContext(), user, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Project status updated successfully", project)
}

// AssignGuide handles PUT /api/projects/:id/guide
func (h *ProjectHandler) AssignGuide(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req GuideRequest
	if err := handlers.ParseFields(c, user, authz.KindProject, &req); err != nil {
		return response.FromError(c, err)
	}

	project, err := h.projectService.AssignGuide(c.UserContext(), user, id, req.Guide)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Guide assigned successfully", project)
}

// UpdateProgress handles PATCH /api/projects/:id/progress
func (h *ProjectHandler) UpdateProgress(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ProgressRequest
	if err := handlers.ParseFields(c, user, authz.KindProject, &req); err != nil {
		return response.FromError(c, err)
	}

	project, err := h.projectService.UpdateProgress(c.UserContext(), user, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Project progress updated successfully", project)
}

// AddProgressUpdate handles POST /api/projects/:id/progress-updates
func (h *ProjectHandler) AddProgressUpdate(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.ProgressUpdateRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	progress, err := h.projectService.AddProgressUpdate(c.UserContext(), user, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Progress update added successfully", progress)
}

// ListProgressUpdates handles GET /api/projects/:id/progress-updates
func (h *ProjectHandler) ListProgressUpdates(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	updates, err := h.projectService.ListProgressUpdates(c.UserContext(), user, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, updates)
}

// DeleteProject handles DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.projectService.DeleteProject(c.UserContext(), user, id); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Project deleted successfully", nil)
}

// AssignPanel handles PUT /api/admin/projects/:id/panel
func (h *ProjectHandler) AssignPanel(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req PanelRequest
	if err := handlers.ParseFields(c, user, authz.KindProject, &req); err != nil {
		return response.FromError(c, err)
	}

	project, err := h.projectService.AssignPanel(c.UserContext(), user, id, req.Members)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Panel members assigned successfully", project)
}
