package admin

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// AuditHandler exposes the audit trail and scheduled job history to admins
type AuditHandler struct {
	auditLogs repository.AuditLogRepository
	jobLogs   repository.JobLogRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditLogs repository.AuditLogRepository, jobLogs repository.JobLogRepository) *AuditHandler {
	return &AuditHandler{auditLogs: auditLogs, jobLogs: jobLogs}
}

// ListAuditLogs retrieves audit log entries, newest first
// GET /api/admin/audit-logs
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	_, _, page := handlers.Pagination(c)

	logs, err := h.auditLogs.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return response.FromError(c, apperrors.Internal("Failed to fetch audit logs", err))
	}
	return response.Success(c, logs)
}

// ListJobLogs retrieves recent runs of the scheduled jobs, optionally for one job
// GET /api/admin/job-logs?job=meeting_reminders
func (h *AuditHandler) ListJobLogs(c *fiber.Ctx) error {
	_, limit, _ := handlers.Pagination(c)

	logs, err := h.jobLogs.List(c.UserContext(), c.Query("job"), limit)
	if err != nil {
		return response.FromError(c, apperrors.Internal("Failed to fetch job logs", err))
	}
	return response.Success(c, logs)
}
