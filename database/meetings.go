package database

import (
	"context"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"gorm.io/gorm"
)

type meetingRepo struct {
	db *gorm.DB
}

func (r *meetingRepo) Create(ctx context.Context, meeting *model.Meeting) error {
	return translate(r.db.WithContext(ctx).Create(meeting).Error)
}

func (r *meetingRepo) Save(ctx context.Context, meeting *model.Meeting) error {
	return translate(r.db.WithContext(ctx).Save(meeting).Error)
}

func (r *meetingRepo) FindByID(ctx context.Context, id uint) (*model.Meeting, error) {
	var meeting model.Meeting
	if err := r.db.WithContext(ctx).First(&meeting, id).Error; err != nil {
		return nil, translate(err)
	}
	return &meeting, nil
}

func (r *meetingRepo) FindByProjectAndNumber(ctx context.Context, projectID uint, number int) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND meeting_number = ?", projectID, number).
		First(&meeting).Error
	if err != nil {
		return nil, translate(err)
	}
	return &meeting, nil
}

func (r *meetingRepo) List(ctx context.Context, filter repository.MeetingFilter) ([]model.Meeting, error) {
	q := r.db.WithContext(ctx).Model(&model.Meeting{})
	if filter.ProjectID != 0 {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.StudentID != 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.FacultyID != 0 {
		q = q.Where("faculty_id = ?", filter.FacultyID)
	}
	if len(filter.ProjectIDs) > 0 {
		q = q.Where("project_id IN ?", filter.ProjectIDs)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if !filter.ScheduledFrom.IsZero() {
		q = q.Where("scheduled_date >= ?", filter.ScheduledFrom)
	}
	if !filter.ScheduledUntil.IsZero() {
		q = q.Where("scheduled_date <= ?", filter.ScheduledUntil)
	}
	if filter.ReminderUnsent {
		q = q.Where("reminder_sent = ?", false)
	}

	var meetings []model.Meeting
	if err := q.Order("project_id ASC, meeting_number ASC").Find(&meetings).Error; err != nil {
		return nil, translate(err)
	}
	return meetings, nil
}
