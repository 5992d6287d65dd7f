// Package lifecycle holds the project state machine and the pure rules that
// go with it: guide assignment bookkeeping and grade derivation.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/disserto/disserto-api/model"
)

var (
	// ErrInvalidTransition is returned for any status change outside the table
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrGuideNotFaculty is returned when the proposed guide is not a faculty member
	ErrGuideNotFaculty = errors.New("guide must be a faculty member")
)

// transitions lists the allowed target states for every source state
var transitions = map[model.ProjectStatus][]model.ProjectStatus{
	model.ProjectStatusPending:   {model.ProjectStatusApproved, model.ProjectStatusRejected},
	model.ProjectStatusApproved:  {model.ProjectStatusSubmitted},
	model.ProjectStatusSubmitted: {model.ProjectStatusCompleted},
}

// CanTransition reports whether a project may move from one status to another.
// Same-state transitions are never allowed.
func CanTransition(from, to model.ProjectStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves p to status to, stamping LastUpdated. p is unchanged on error.
func Transition(p *model.Project, to model.ProjectStatus, now time.Time) error {
	if !CanTransition(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	p.Status = to
	p.LastUpdated = now
	return nil
}

// IsActive reports whether a project in status s blocks a new proposal.
func IsActive(s model.ProjectStatus) bool {
	return s == model.ProjectStatusPending || s == model.ProjectStatusApproved
}

// GuideChange lists the records touched by a guide assignment
type GuideChange struct {
	Project  *model.Project
	Student  *model.User
	NewGuide *model.User
	// OldGuide is set when a different faculty member lost the student
	OldGuide *model.User
}

// AssignGuide points project and student at newGuide and updates the
// assigned-student lists of the new and the previous guide. oldGuide may be nil.
// Nothing is modified when newGuide is not faculty.
func AssignGuide(project *model.Project, student, newGuide, oldGuide *model.User, now time.Time) (*GuideChange, error) {
	if newGuide == nil || newGuide.Role != model.RoleFaculty {
		return nil, ErrGuideNotFaculty
	}

	guideID := newGuide.ID
	project.GuideID = &guideID
	project.LastUpdated = now

	change := &GuideChange{Project: project, NewGuide: newGuide}
	if student != nil {
		sid := guideID
		student.AssignedGuideID = &sid
		newGuide.AddAssignedStudent(student.ID)
		change.Student = student

		if oldGuide != nil && oldGuide.ID != newGuide.ID && oldGuide.RemoveAssignedStudent(student.ID) {
			change.OldGuide = oldGuide
		}
	}
	return change, nil
}
