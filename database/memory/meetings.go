package memory

import (
	"context"
	"sort"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
)

type meetingRepo struct {
	s *Store
}

func (r *meetingRepo) Create(_ context.Context, meeting *model.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.meetings {
		if m.ProjectID == meeting.ProjectID && m.MeetingNumber == meeting.MeetingNumber {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	meeting.ID = r.s.next("meetings")
	meeting.CreatedAt = now
	meeting.UpdatedAt = now
	r.s.meetings[meeting.ID] = *meeting
	return nil
}

func (r *meetingRepo) Save(_ context.Context, meeting *model.Meeting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.meetings[meeting.ID]
	if !ok {
		return repository.ErrNotFound
	}
	meeting.CreatedAt = existing.CreatedAt
	meeting.UpdatedAt = r.s.now()
	r.s.meetings[meeting.ID] = *meeting
	return nil
}

func (r *meetingRepo) FindByID(_ context.Context, id uint) (*model.Meeting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	meeting, ok := r.s.meetings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &meeting, nil
}

func (r *meetingRepo) FindByProjectAndNumber(_ context.Context, projectID uint, number int) (*model.Meeting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.meetings {
		if m.ProjectID == projectID && m.MeetingNumber == number {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *meetingRepo) List(_ context.Context, filter repository.MeetingFilter) ([]model.Meeting, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	meetings := []model.Meeting{}
	for _, m := range r.s.meetings {
		if filter.ProjectID != 0 && m.ProjectID != filter.ProjectID {
			continue
		}
		if filter.StudentID != 0 && m.StudentID != filter.StudentID {
			continue
		}
		if filter.FacultyID != 0 && m.FacultyID != filter.FacultyID {
			continue
		}
		if len(filter.ProjectIDs) > 0 && !containsUint(filter.ProjectIDs, m.ProjectID) {
			continue
		}
		if len(filter.Statuses) > 0 && !hasMeetingStatus(filter.Statuses, m.Status) {
			continue
		}
		if !filter.ScheduledFrom.IsZero() && m.ScheduledDate.Before(filter.ScheduledFrom) {
			continue
		}
		if !filter.ScheduledUntil.IsZero() && m.ScheduledDate.After(filter.ScheduledUntil) {
			continue
		}
		if filter.ReminderUnsent && m.ReminderSent {
			continue
		}
		meetings = append(meetings, m)
	}
	sort.Slice(meetings, func(i, j int) bool {
		if meetings[i].ProjectID != meetings[j].ProjectID {
			return meetings[i].ProjectID < meetings[j].ProjectID
		}
		return meetings[i].MeetingNumber < meetings[j].MeetingNumber
	})
	return meetings, nil
}

func hasMeetingStatus(statuses []model.MeetingStatus, s model.MeetingStatus) bool {
	for _, x := range statuses {
		if x == s {
			return true
		}
	}
	return false
}
