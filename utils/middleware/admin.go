package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// redactedFields are never copied from request bodies into audit details
var redactedFields = []string{"password", "currentPassword", "newPassword"}

// AdminAuditLog records a successful admin mutation after the handler ran.
// Denied requests are recorded by the authorization hook instead.
func AdminAuditLog(logs repository.AuditLogRepository, action, resourceKind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Capture before c.Next(): fiber reuses the request buffers afterwards
		var body map[string]interface{}
		if raw := c.Body(); len(raw) > 0 {
			if err := json.Unmarshal(raw, &body); err == nil {
				for _, f := range redactedFields {
					delete(body, f)
				}
			}
		}
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}

		admin, ok := GetUser(c)
		if !ok {
			return nil
		}

		var resourceID uint
		if id, parseErr := strconv.ParseUint(c.Params("id"), 10, 64); parseErr == nil {
			resourceID = uint(id)
		}

		entry := &model.AuditLog{
			ActorID:      admin.ID,
			ActorRole:    admin.Role,
			Action:       action,
			ResourceKind: resourceKind,
			ResourceID:   resourceID,
			Decision:     model.AuditAllow,
			IPAddress:    ip,
			UserAgent:    userAgent,
		}
		if body != nil {
			if details, marshalErr := json.Marshal(body); marshalErr == nil {
				entry.Details = datatypes.JSON(details)
			}
		}

		if createErr := logs.Create(c.UserContext(), entry); createErr != nil {
			logger.Warn().Err(createErr).Str("action", action).Msg("failed to write admin audit log")
		}
		return nil
	}
}
