package meeting

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// MeetingHandler handles meeting endpoints
type MeetingHandler struct {
	meetingService *services.MeetingService
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService *services.MeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService}
}

// Upsert handles POST /api/meetings. Returns 201 when the meeting is new and
// 200 when an existing meeting with the same number was rescheduled.
func (h *MeetingHandler) Upsert(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.MeetingRequest
	if err := handlers.ParseBody(c, &req); err != nil {
		return response.FromError(c, err)
	}

	meeting, created, err := h.meetingService.Upsert(c.UserContext(), user, req)
	if err != nil {
		return response.FromError(c, err)
	}
	if created {
		return response.Created(c, "Meeting scheduled successfully", meeting)
	}
	return response.SuccessWithMessage(c, "Meeting rescheduled successfully", meeting)
}

// List handles GET /api/meetings and GET /api/hod/meetings.
// Supports ?projectId and ?status.
func (h *MeetingHandler) List(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	projectID := c.QueryInt("projectId", 0)
	if projectID < 0 {
		projectID = 0
	}
	meetings, err := h.meetingService.List(c.UserContext(), user, services.MeetingListOptions{
		ProjectID: uint(projectID),
		Status:    c.Query("status"),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, meetings)
}

// Get handles GET /api/meetings/:id
func (h *MeetingHandler) Get(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	meeting, err := h.meetingService.Get(c.UserContext(), user, id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, meeting)
}

// UpdateStatus handles PUT /api/meetings/:id/status
func (h *MeetingHandler) UpdateStatus(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.MeetingStatusRequest
	if err := handlers.ParseFields(c, user, authz.KindMeeting, &req); err != nil {
		return response.FromError(c, err)
	}

	meeting, err := h.meetingService.UpdateStatus(c.UserContext(), user, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Meeting updated successfully", meeting)
}

// UpdateStudentPoints handles PUT /api/meetings/:id/student-points
func (h *MeetingHandler) UpdateStudentPoints(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	var req services.StudentPointsRequest
	if err := handlers.ParseFields(c, user, authz.KindMeeting, &req); err != nil {
		return response.FromError(c, err)
	}

	meeting, err := h.meetingService.UpdateStudentPoints(c.UserContext(), user, id, req)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Discussion points saved", meeting)
}
