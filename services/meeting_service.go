package services

import (
	"context"
	"errors"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/services/events"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/disserto/disserto-api/utils/validation"
	"github.com/rs/zerolog"
)

// MeetingService manages the numbered guide/student checkpoints of a project
type MeetingService struct {
	repos     *repository.Repositories
	authz     *authz.Authorizer
	events    *events.Dispatcher
	validator *validation.Validator
	log       zerolog.Logger
}

// NewMeetingService creates a new meeting service
func NewMeetingService(repos *repository.Repositories, authorizer *authz.Authorizer, dispatcher *events.Dispatcher) *MeetingService {
	return &MeetingService{
		repos:     repos,
		authz:     authorizer,
		events:    dispatcher,
		validator: validation.NewValidator(),
		log:       logger.With("meetings"),
	}
}

// MeetingRequest schedules meeting N of a project. Sending the same
// (project, meetingNumber) again reschedules the existing meeting.
type MeetingRequest struct {
	ProjectID     uint      `json:"projectId" validate:"required"`
	Title         string    `json:"title" validate:"required,max=255"`
	MeetingNumber int       `json:"meetingNumber" validate:"required,gte=1,lte=4"`
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	Notes         string    `json:"notes"`
	MeetingType   string    `json:"meetingType" validate:"omitempty,oneof=online offline hybrid"`
	Duration      int       `json:"duration" validate:"omitempty,gte=15,lte=120"`
}

// MeetingStatusRequest is the faculty's update of a meeting's outcome
type MeetingStatusRequest struct {
	Status         *string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled rescheduled pending"`
	MeetingSummary *string `json:"meetingSummary"`
	GuideRemarks   *string `json:"guideRemarks"`
}

// StudentPointsRequest carries the student's discussion points
type StudentPointsRequest struct {
	StudentPoints string `json:"studentPoints" validate:"required"`
}

// MeetingListOptions narrows a role scoped meeting listing
type MeetingListOptions struct {
	ProjectID uint
	Status    string
}

// Upsert creates the meeting or reschedules the existing one with the same
// number. created reports which happened.
func (s *MeetingService) Upsert(ctx context.Context, actor *model.User, req MeetingRequest) (meeting *model.Meeting, created bool, err error) {
	if err := s.validator.Check(req); err != nil {
		return nil, false, err
	}

	project, err := s.repos.Projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		return nil, false, lookup(err, "Project not found")
	}
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.MeetingCreate, authz.ProjectResource(project)); err != nil {
		return nil, false, err
	}

	meetingType := model.MeetingType(req.MeetingType)
	if meetingType == "" {
		meetingType = model.MeetingTypeOffline
	}
	duration := req.Duration
	if duration == 0 {
		duration = model.DefaultDuration
	}

	existing, err := s.repos.Meetings.FindByProjectAndNumber(ctx, project.ID, req.MeetingNumber)
	switch {
	case err == nil:
		existing.Title = req.Title
		existing.ScheduledDate = req.ScheduledDate
		existing.Notes = req.Notes
		existing.MeetingType = meetingType
		existing.Duration = duration
		existing.Status = model.MeetingStatusRescheduled
		existing.FacultyID = actor.ID
		existing.ReminderSent = false
		if err := s.repos.Meetings.Save(ctx, existing); err != nil {
			return nil, false, internal(err)
		}
		s.events.Dispatch(ctx, events.MeetingRescheduled{
			MeetingID:     existing.ID,
			ProjectID:     project.ID,
			StudentID:     existing.StudentID,
			Title:         existing.Title,
			Number:        existing.MeetingNumber,
			ScheduledDate: existing.ScheduledDate,
		})
		return existing, false, nil

	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, internal(err)
	}

	meeting = &model.Meeting{
		Title:         req.Title,
		MeetingNumber: req.MeetingNumber,
		ScheduledDate: req.ScheduledDate,
		Status:        model.MeetingStatusScheduled,
		StudentID:     project.StudentID,
		FacultyID:     actor.ID,
		ProjectID:     project.ID,
		Notes:         req.Notes,
		MeetingType:   meetingType,
		Duration:      duration,
	}
	if err := s.repos.Meetings.Create(ctx, meeting); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, apperrors.Conflict("Meeting was created concurrently, retry the request")
		}
		return nil, false, internal(err)
	}

	s.events.Dispatch(ctx, events.MeetingScheduled{
		MeetingID:     meeting.ID,
		ProjectID:     project.ID,
		StudentID:     meeting.StudentID,
		Title:         meeting.Title,
		Number:        meeting.MeetingNumber,
		ScheduledDate: meeting.ScheduledDate,
	})
	return meeting, true, nil
}

// List returns the meetings visible to the actor: a student's or faculty
// member's own, an HOD's department, or everything for an admin.
func (s *MeetingService) List(ctx context.Context, actor *model.User, opts MeetingListOptions) ([]model.Meeting, error) {
	filter := repository.MeetingFilter{ProjectID: opts.ProjectID}
	if opts.Status != "" {
		status := model.MeetingStatus(opts.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("Invalid status filter", nil)
		}
		filter.Statuses = []model.MeetingStatus{status}
	}

	switch actor.Role {
	case model.RoleStudent:
		filter.StudentID = actor.ID
	case model.RoleFaculty:
		filter.FacultyID = actor.ID
	case model.RoleHOD:
		keys := actor.DepartmentKeys()
		if len(keys) == 0 {
			return []model.Meeting{}, nil
		}
		projects, err := s.repos.Projects.List(ctx, repository.ProjectFilter{Departments: keys})
		if err != nil {
			return nil, internal(err)
		}
		if len(projects) == 0 {
			return []model.Meeting{}, nil
		}
		for _, p := range projects {
			filter.ProjectIDs = append(filter.ProjectIDs, p.ID)
		}
	case model.RoleAdmin:
	default:
		return nil, authz.DecisionError(authz.Authorize(authz.ActorFrom(actor), authz.MeetingRead, authz.Resource{}))
	}

	meetings, err := s.repos.Meetings.List(ctx, filter)
	if err != nil {
		return nil, internal(err)
	}
	return meetings, nil
}

// Get loads one meeting the actor may read.
func (s *MeetingService) Get(ctx context.Context, actor *model.User, id uint) (*model.Meeting, error) {
	meeting, _, err := s.load(ctx, actor, id, authz.MeetingRead)
	return meeting, err
}

// UpdateStatus records the outcome of a meeting. Only the project's current guide may do it.
func (s *MeetingService) UpdateStatus(ctx context.Context, actor *model.User, id uint, req MeetingStatusRequest) (*model.Meeting, error) {
	meeting, _, err := s.load(ctx, actor, id, authz.MeetingUpdateStatus)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}
	if req.Status == nil && req.MeetingSummary == nil && req.GuideRemarks == nil {
		return nil, apperrors.Validation("No fields to update", nil)
	}

	if req.Status != nil {
		meeting.Status = model.MeetingStatus(*req.Status)
	}
	if req.MeetingSummary != nil {
		meeting.MeetingSummary = *req.MeetingSummary
	}
	if req.GuideRemarks != nil {
		meeting.GuideRemarks = *req.GuideRemarks
	}
	if err := s.repos.Meetings.Save(ctx, meeting); err != nil {
		return nil, internal(err)
	}

	s.events.Dispatch(ctx, events.MeetingUpdated{
		MeetingID: meeting.ID,
		StudentID: meeting.StudentID,
		Title:     meeting.Title,
		Status:    meeting.Status,
	})
	return meeting, nil
}

// UpdateStudentPoints stores the student's discussion points for a meeting.
func (s *MeetingService) UpdateStudentPoints(ctx context.Context, actor *model.User, id uint, req StudentPointsRequest) (*model.Meeting, error) {
	meeting, _, err := s.load(ctx, actor, id, authz.MeetingUpdatePoints)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	meeting.StudentPoints = req.StudentPoints
	if err := s.repos.Meetings.Save(ctx, meeting); err != nil {
		return nil, internal(err)
	}

	s.events.Dispatch(ctx, events.StudentPointsAdded{
		MeetingID:   meeting.ID,
		FacultyID:   meeting.FacultyID,
		Title:       meeting.Title,
		StudentName: actor.Name,
	})
	return meeting, nil
}

func (s *MeetingService) load(ctx context.Context, actor *model.User, id uint, action authz.Action) (*model.Meeting, *model.Project, error) {
	meeting, err := s.repos.Meetings.FindByID(ctx, id)
	if err != nil {
		return nil, nil, lookup(err, "Meeting not found")
	}

	// the project only supplies the department; a deleted project leaves it empty
	project, err := s.repos.Projects.FindByID(ctx, meeting.ProjectID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, internal(err)
	}

	if err := s.authz.Check(ctx, authz.ActorFrom(actor), action, authz.MeetingResource(meeting, project)); err != nil {
		return nil, nil, err
	}
	return meeting, project, nil
}
