package notification

import (
	"github.com/disserto/disserto-api/handlers"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/utils/response"
	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification-related API endpoints
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GetNotifications handles GET /api/notifications
// Supports ?unreadOnly=true, ?type, ?page and ?limit.
func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	page, limit, window := handlers.Pagination(c)
	notifications, total, err := h.notificationService.List(c.UserContext(), user, services.ListNotificationsOptions{
		UnreadOnly: c.QueryBool("unreadOnly", false),
		Type:       c.Query("type"),
		Page:       window,
	})
	if err != nil {
		return response.FromError(c, err)
	}

	unread, err := h.notificationService.UnreadCount(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, fiber.Map{
		"notifications": notifications,
		"unreadCount":   unread,
		"pagination":    response.CalculatePagination(page, limit, total),
	})
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	count, err := h.notificationService.UnreadCount(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, fiber.Map{"count": count})
}

// MarkAsRead handles PATCH /api/notifications/:id
func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.notificationService.MarkRead(c.UserContext(), user, id); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Notification marked as read", nil)
}

// MarkAllAsRead handles PATCH /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	n, err := h.notificationService.MarkAllRead(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "All notifications marked as read", fiber.Map{"updated": n})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.FromError(c, err)
	}

	if err := h.notificationService.Delete(c.UserContext(), user, id); err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "Notification deleted", nil)
}

// DeleteAllNotifications handles DELETE /api/notifications
func (h *NotificationHandler) DeleteAllNotifications(c *fiber.Ctx) error {
	user, err := handlers.CurrentUser(c)
	if err != nil {
		return response.FromError(c, err)
	}

	n, err := h.notificationService.DeleteAll(c.UserContext(), user)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessWithMessage(c, "All notifications deleted", fiber.Map{"deleted": n})
}
