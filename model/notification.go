package model

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationType is the domain event kind a notification was created for
type NotificationType string

const (
	NotificationProposalSubmitted     NotificationType = "proposal_submitted"
	NotificationProjectApproved       NotificationType = "project_approved"
	NotificationProjectRejected       NotificationType = "project_rejected"
	NotificationGuideAssigned         NotificationType = "guide_assigned"
	NotificationDissertationSubmitted NotificationType = "dissertation_submitted"
	NotificationProjectCompleted      NotificationType = "project_completed"
	NotificationPanelAssigned         NotificationType = "panel_assigned"
	NotificationMeetingScheduled      NotificationType = "meeting_scheduled"
	NotificationMeetingRescheduled    NotificationType = "meeting_rescheduled"
	NotificationMeetingUpdated        NotificationType = "meeting_updated"
	NotificationStudentPointsAdded    NotificationType = "student_points_added"
	NotificationProgressSubmitted     NotificationType = "progress_submitted"
	NotificationEvaluationSubmitted   NotificationType = "evaluation_submitted"
	NotificationSubmissionReviewed    NotificationType = "submission_reviewed"
	NotificationMeetingReminder       NotificationType = "meeting_reminder"
)

// Notification is an informational record addressed to a single recipient
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	RecipientID uint             `gorm:"index;not null" json:"recipient"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Message     string           `gorm:"type:text" json:"message"`
	Type        NotificationType `gorm:"type:varchar(40);not null;index" json:"type"`
	Link        string           `gorm:"type:varchar(255)" json:"link,omitempty"`
	Read        bool             `gorm:"default:false;index" json:"read"`
	Metadata    datatypes.JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
