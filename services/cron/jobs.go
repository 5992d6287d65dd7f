package cron

import (
	"context"
	"fmt"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/events"
)

// SendMeetingReminders notifies the student and faculty of every upcoming
// meeting inside the reminder window. Each meeting is reminded once; a
// reschedule clears the flag.
func (m *CronManager) SendMeetingReminders(ctx context.Context) (string, error) {
	now := m.now()
	meetings, err := m.deps.Meetings.List(ctx, repository.MeetingFilter{
		Statuses:       []model.MeetingStatus{model.MeetingStatusScheduled, model.MeetingStatusRescheduled},
		ScheduledFrom:  now,
		ScheduledUntil: now.Add(m.cfg.ReminderWindow),
		ReminderUnsent: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to query meetings: %w", err)
	}
	if len(meetings) == 0 {
		return "No meetings to remind", nil
	}

	sent, failed := 0, 0
	for i := range meetings {
		meeting := &meetings[i]
		m.deps.Events.Dispatch(ctx, events.MeetingReminder{
			MeetingID:     meeting.ID,
			Title:         meeting.Title,
			ScheduledDate: meeting.ScheduledDate,
			StudentID:     meeting.StudentID,
			FacultyID:     meeting.FacultyID,
		})

		meeting.ReminderSent = true
		if err := m.deps.Meetings.Save(ctx, meeting); err != nil {
			m.log.Warn().Err(err).Uint("meeting_id", meeting.ID).Msg("failed to mark reminder sent")
			failed++
			continue
		}
		sent++
	}

	return fmt.Sprintf("Sent %d reminders, %d failed", sent, failed), nil
}

// CleanupExpiredTokens removes blacklist entries for tokens that have expired.
func (m *CronManager) CleanupExpiredTokens(ctx context.Context) (string, error) {
	n, err := m.deps.Tokens.CleanupExpiredTokens(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to clean up revoked tokens: %w", err)
	}
	return fmt.Sprintf("Removed %d expired revoked tokens", n), nil
}

// CleanupReadNotifications removes read notifications older than the retention.
func (m *CronManager) CleanupReadNotifications(ctx context.Context) (string, error) {
	n, err := m.deps.Notifications.CleanupRead(ctx, m.cfg.NotificationRetention)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed %d read notifications older than %s", n, m.cfg.NotificationRetention), nil
}
