// Package repository declares the persistence contracts used by the services.
// Implementations live in database (gorm/postgres) and database/memory.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/disserto/disserto-api/model"
)

var (
	// ErrNotFound is returned when a lookup by id or key matches nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// UserFilter narrows user listings. Zero values are ignored.
type UserFilter struct {
	Role        model.Role
	Departments []string // matched against department OR branch, normalized
	IDs         []uint
	Limit       int
	Offset      int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]model.User, error)
	IncrementTokenVersion(ctx context.Context, id uint) error
}

// ProjectFilter narrows project listings. Zero values are ignored.
type ProjectFilter struct {
	StudentID     uint
	GuideID       uint
	PanelMemberID uint
	Departments   []string
	Statuses      []model.ProjectStatus
	Limit         int
	Offset        int
}

type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Save(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]model.Project, error)
}

// MeetingFilter narrows meeting listings. Zero values are ignored.
type MeetingFilter struct {
	ProjectID      uint
	StudentID      uint
	FacultyID      uint
	ProjectIDs     []uint
	Statuses       []model.MeetingStatus
	ScheduledFrom  time.Time
	ScheduledUntil time.Time
	ReminderUnsent bool
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	Save(ctx context.Context, meeting *model.Meeting) error
	FindByID(ctx context.Context, id uint) (*model.Meeting, error)
	FindByProjectAndNumber(ctx context.Context, projectID uint, number int) (*model.Meeting, error)
	List(ctx context.Context, filter MeetingFilter) ([]model.Meeting, error)
}

type ProgressRepository interface {
	Create(ctx context.Context, progress *model.Progress) error
	ListByProject(ctx context.Context, projectID uint) ([]model.Progress, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, submission *model.Submission) error
	Save(ctx context.Context, submission *model.Submission) error
	FindByID(ctx context.Context, id uint) (*model.Submission, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Submission, error)
}

// EvaluationFilter narrows evaluation listings. Zero values are ignored.
type EvaluationFilter struct {
	StudentID   uint
	EvaluatorID uint
	ProjectID   uint
}

type EvaluationRepository interface {
	Create(ctx context.Context, evaluation *model.Evaluation) error
	Save(ctx context.Context, evaluation *model.Evaluation) error
	FindByKey(ctx context.Context, studentID, evaluatorID uint, evalType model.EvaluationType) (*model.Evaluation, error)
	List(ctx context.Context, filter EvaluationFilter) ([]model.Evaluation, error)
}

// NotificationFilter narrows a recipient's notification listing.
type NotificationFilter struct {
	RecipientID uint
	UnreadOnly  bool
	Type        model.NotificationType
	Limit       int
	Offset      int
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByID(ctx context.Context, id uint) (*model.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]model.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) error
	MarkAllRead(ctx context.Context, recipientID uint) (int64, error)
	Delete(ctx context.Context, id, recipientID uint) error
	DeleteAll(ctx context.Context, recipientID uint) (int64, error)
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, limit, offset int) ([]model.AuditLog, error)
}

type TokenRepository interface {
	Revoke(ctx context.Context, token *model.RevokedToken) error
	IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type JobLogRepository interface {
	Create(ctx context.Context, entry *model.CronJobLog) error
	Save(ctx context.Context, entry *model.CronJobLog) error
	List(ctx context.Context, jobName string, limit int) ([]model.CronJobLog, error)
}

// Repositories bundles every repository a running service needs.
type Repositories struct {
	Users         UserRepository
	Projects      ProjectRepository
	Meetings      MeetingRepository
	Progress      ProgressRepository
	Submissions   SubmissionRepository
	Evaluations   EvaluationRepository
	Notifications NotificationRepository
	AuditLogs     AuditLogRepository
	Tokens        TokenRepository
	JobLogs       JobLogRepository
}
