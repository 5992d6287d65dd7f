package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/rs/zerolog"
)

// NotificationService handles user notifications. It is also the sink the
// event dispatcher writes to.
type NotificationService struct {
	notifications repository.NotificationRepository
	authz         *authz.Authorizer
	now           Clock
	log           zerolog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications repository.NotificationRepository, authorizer *authz.Authorizer) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		authz:         authorizer,
		now:           time.Now,
		log:           logger.With("notifications"),
	}
}

// ListNotificationsOptions represents options for listing notifications
type ListNotificationsOptions struct {
	UnreadOnly bool
	Type       string
	Page
}

// Create stores a notification. Read is always false on creation.
func (s *NotificationService) Create(ctx context.Context, notification *model.Notification) error {
	notification.Read = false
	if err := s.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	s.log.Debug().
		Uint("notification_id", notification.ID).
		Uint("recipient", notification.RecipientID).
		Str("type", string(notification.Type)).
		Msg("notification created")
	return nil
}

// List returns the actor's notifications, newest first, with the total count.
func (s *NotificationService) List(ctx context.Context, actor *model.User, opts ListNotificationsOptions) ([]model.Notification, int64, error) {
	page := opts.Page.normalize()
	items, total, err := s.notifications.List(ctx, repository.NotificationFilter{
		RecipientID: actor.ID,
		UnreadOnly:  opts.UnreadOnly,
		Type:        model.NotificationType(opts.Type),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, 0, internal(err)
	}
	return items, total, nil
}

// UnreadCount returns how many of the actor's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, actor *model.User) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, internal(err)
	}
	return count, nil
}

// MarkRead marks one of the actor's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, actor *model.User, id uint) error {
	if err := s.own(ctx, actor, id, authz.NotificationUpdate); err != nil {
		return err
	}
	return lookup(s.notifications.MarkRead(ctx, id, actor.ID), "Notification not found")
}

// MarkAllRead marks every notification of the actor as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor *model.User) (int64, error) {
	n, err := s.notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, internal(err)
	}
	return n, nil
}

// Delete removes one of the actor's notifications.
func (s *NotificationService) Delete(ctx context.Context, actor *model.User, id uint) error {
	if err := s.own(ctx, actor, id, authz.NotificationDelete); err != nil {
		return err
	}
	return lookup(s.notifications.Delete(ctx, id, actor.ID), "Notification not found")
}

// DeleteAll removes every notification of the actor.
func (s *NotificationService) DeleteAll(ctx context.Context, actor *model.User) (int64, error) {
	n, err := s.notifications.DeleteAll(ctx, actor.ID)
	if err != nil {
		return 0, internal(err)
	}
	return n, nil
}

// CleanupRead deletes read notifications older than retention.
func (s *NotificationService) CleanupRead(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.notifications.DeleteReadBefore(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up notifications: %w", err)
	}
	return n, nil
}

// own checks that notification id exists and belongs to the actor. Foreign
// notifications are reported as not found.
func (s *NotificationService) own(ctx context.Context, actor *model.User, id uint, action authz.Action) error {
	n, err := s.notifications.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("Notification not found")
	}
	if err != nil {
		return internal(err)
	}
	return s.authz.Check(ctx, authz.ActorFrom(actor), action, authz.Resource{
		Kind:    authz.KindNotification,
		ID:      n.ID,
		OwnerID: n.RecipientID,
	})
}
