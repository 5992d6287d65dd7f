// Package events defines the domain events raised by lifecycle operations
// and renders them into notifications.
package events

import (
	"fmt"
	"time"

	"github.com/disserto/disserto-api/model"
)

// Event is a domain event. Each event knows who should hear about it.
type Event interface {
	Kind() model.NotificationType
	drafts() []draft
}

type draft struct {
	recipient uint
	title     string
	message   string
	link      string
	metadata  map[string]interface{}
}

func projectLink(id uint) string { return fmt.Sprintf("/projects/%d", id) }
func meetingLink(id uint) string { return fmt.Sprintf("/meetings/%d", id) }

const dateLayout = "Jan 2, 2006 15:04"

// ProposalSubmitted fires when a student submits a new proposal. HODID is
// zero when no HOD was found for the department.
type ProposalSubmitted struct {
	ProjectID   uint
	Title       string
	StudentName string
	HODID       uint
}

func (e ProposalSubmitted) Kind() model.NotificationType { return model.NotificationProposalSubmitted }

func (e ProposalSubmitted) drafts() []draft {
	return []draft{{
		recipient: e.HODID,
		title:     "New project proposal",
		message:   fmt.Sprintf("%s submitted the proposal %q for review.", e.StudentName, e.Title),
		link:      projectLink(e.ProjectID),
		metadata:  map[string]interface{}{"projectId": e.ProjectID},
	}}
}

// ProjectApproved fires on pending -> approved. GuideName is set when the
// approval also assigned a guide.
type ProjectApproved struct {
	ProjectID uint
	Title     string
	StudentID uint
	Comments  string
	GuideName string
}

func (e ProjectApproved) Kind() model.NotificationType { return model.NotificationProjectApproved }

func (e ProjectApproved) drafts() []draft {
	msg := fmt.Sprintf("Your project %q has been approved.", e.Title)
	if e.GuideName != "" {
		msg += fmt.Sprintf(" %s will be your guide.", e.GuideName)
	}
	if e.Comments != "" {
		msg += " Comments: " + e.Comments
	}
	return []draft{{
		recipient: e.StudentID,
		title:     "Project approved",
		message:   msg,
		link:      projectLink(e.ProjectID),
		metadata:  map[string]interface{}{"projectId": e.ProjectID},
	}}
}

// ProjectRejected fires on pending -> rejected
type ProjectRejected struct {
	ProjectID uint
	Title     string
	StudentID uint
	Comments  string
}

func (e ProjectRejected) Kind() model.NotificationType { return model.NotificationProjectRejected }

func (e ProjectRejected) drafts() []draft {
	msg := fmt.Sprintf("Your project %q has been rejected.", e.Title)
	if e.Comments != "" {
		msg += " Reason: " + e.Comments
	}
	return []draft{{
		recipient: e.StudentID,
		title:     "Project rejected",
		message:   msg,
		link:      projectLink(e.ProjectID),
		metadata:  map[string]interface{}{"projectId": e.ProjectID, "comments": e.Comments},
	}}
}

// GuideAssigned fires whenever a project gets a (new) guide. StudentNotified
// suppresses the student's copy when another event already told them.
type GuideAssigned struct {
	ProjectID       uint
	Title           string
	StudentID       uint
	StudentName     string
	GuideID         uint
	GuideName       string
	StudentNotified bool
}

func (e GuideAssigned) Kind() model.NotificationType { return model.NotificationGuideAssigned }

func (e GuideAssigned) drafts() []draft {
	meta := map[string]interface{}{"projectId": e.ProjectID, "guideId": e.GuideID, "studentId": e.StudentID}
	out := []draft{{
		recipient: e.GuideID,
		title:     "New student assigned",
		message:   fmt.Sprintf("You have been assigned as guide for %s on %q.", e.StudentName, e.Title),
		link:      projectLink(e.ProjectID),
		metadata:  meta,
	}}
	if !e.StudentNotified {
		out = append(out, draft{
			recipient: e.StudentID,
			title:     "Guide assigned",
			message:   fmt.Sprintf("%s has been assigned as the guide for your project %q.", e.GuideName, e.Title),
			link:      projectLink(e.ProjectID),
			metadata:  meta,
		})
	}
	return out
}

// DissertationSubmitted fires on approved -> submitted
type DissertationSubmitted struct {
	ProjectID    uint
	SubmissionID uint
	Title        string
	StudentName  string
	GuideID      uint
	HODID        uint
}

func (e DissertationSubmitted) Kind() model.NotificationType {
	return model.NotificationDissertationSubmitted
}

func (e DissertationSubmitted) drafts() []draft {
	meta := map[string]interface{}{"projectId": e.ProjectID, "submissionId": e.SubmissionID}
	msg := fmt.Sprintf("%s submitted the final dissertation %q.", e.StudentName, e.Title)
	return []draft{
		{recipient: e.GuideID, title: "Dissertation submitted", message: msg, link: projectLink(e.ProjectID), metadata: meta},
		{recipient: e.HODID, title: "Dissertation submitted", message: msg, link: projectLink(e.ProjectID), metadata: meta},
	}
}

// ProjectCompleted fires on submitted -> completed
type ProjectCompleted struct {
	ProjectID uint
	Title     string
	StudentID uint
}

func (e ProjectCompleted) Kind() model.NotificationType { return model.NotificationProjectCompleted }

func (e ProjectCompleted) drafts() []draft {
	return []draft{{
		recipient: e.StudentID,
		title:     "Project completed",
		message:   fmt.Sprintf("Your project %q has been marked as completed.", e.Title),
		link:      projectLink(e.ProjectID),
		metadata:  map[string]interface{}{"projectId": e.ProjectID},
	}}
}

// PanelAssigned fires when an admin sets the evaluation panel of a project
type PanelAssigned struct {
	ProjectID uint
	Title     string
	MemberIDs []uint
}

func (e PanelAssigned) Kind() model.NotificationType { return model.NotificationPanelAssigned }

func (e PanelAssigned) drafts() []draft {
	out := make([]draft, 0, len(e.MemberIDs))
	for _, id := range e.MemberIDs {
		out = append(out, draft{
			recipient: id,
			title:     "Evaluation panel",
			message:   fmt.Sprintf("You have been added to the evaluation panel for %q.", e.Title),
			link:      projectLink(e.ProjectID),
			metadata:  map[string]interface{}{"projectId": e.ProjectID},
		})
	}
	return out
}

// MeetingScheduled fires when a new (project, meeting number) is created
type MeetingScheduled struct {
	MeetingID     uint
	ProjectID     uint
	StudentID     uint
	Title         string
	Number        int
	ScheduledDate time.Time
}

func (e MeetingScheduled) Kind() model.NotificationType { return model.NotificationMeetingScheduled }

func (e MeetingScheduled) drafts() []draft {
	return []draft{{
		recipient: e.StudentID,
		title:     fmt.Sprintf("Meeting %d scheduled", e.Number),
		message:   fmt.Sprintf("%q is scheduled for %s.", e.Title, e.ScheduledDate.Format(dateLayout)),
		link:      meetingLink(e.MeetingID),
		metadata:  map[string]interface{}{"meetingId": e.MeetingID, "projectId": e.ProjectID},
	}}
}

// MeetingRescheduled fires when an existing (project, meeting number) is created again
type MeetingRescheduled struct {
	MeetingID     uint
	ProjectID     uint
	StudentID     uint
	Title         string
	Number        int
	ScheduledDate time.Time
}

func (e MeetingRescheduled) Kind() model.NotificationType {
	return model.NotificationMeetingRescheduled
}

func (e MeetingRescheduled) drafts() []draft {
	return []draft{{
		recipient: e.StudentID,
		title:     fmt.Sprintf("Meeting %d rescheduled", e.Number),
		message:   fmt.Sprintf("%q has been moved to %s.", e.Title, e.ScheduledDate.Format(dateLayout)),
		link:      meetingLink(e.MeetingID),
		metadata:  map[string]interface{}{"meetingId": e.MeetingID, "projectId": e.ProjectID},
	}}
}

// MeetingUpdated fires when the faculty changes a meeting's status or notes
type MeetingUpdated struct {
	MeetingID uint
	StudentID uint
	Title     string
	Status    model.MeetingStatus
}

func (e MeetingUpdated) Kind() model.NotificationType { return model.NotificationMeetingUpdated }

func (e MeetingUpdated) drafts() []draft {
	return []draft{{
		recipient: e.StudentID,
		title:     "Meeting updated",
		message:   fmt.Sprintf("%q is now %s.", e.Title, e.Status),
		link:      meetingLink(e.MeetingID),
		metadata:  map[string]interface{}{"meetingId": e.MeetingID, "status": e.Status},
	}}
}

// StudentPointsAdded fires when a student records discussion points for a meeting
type StudentPointsAdded struct {
	MeetingID   uint
	FacultyID   uint
	Title       string
	StudentName string
}

func (e StudentPointsAdded) Kind() model.NotificationType {
	return model.NotificationStudentPointsAdded
}

func (e StudentPointsAdded) drafts() []draft {
	return []draft{{
		recipient: e.FacultyID,
		title:     "Discussion points added",
		message:   fmt.Sprintf("%s added discussion points for %q.", e.StudentName, e.Title),
		link:      meetingLink(e.MeetingID),
		metadata:  map[string]interface{}{"meetingId": e.MeetingID},
	}}
}

// ProgressSubmitted fires when a student posts a progress update
type ProgressSubmitted struct {
	ProjectID   uint
	ProgressID  uint
	Title       string
	Completion  int
	GuideID     uint
	StudentName string
}

func (e ProgressSubmitted) Kind() model.NotificationType { return model.NotificationProgressSubmitted }

func (e ProgressSubmitted) drafts() []draft {
	return []draft{{
		recipient: e.GuideID,
		title:     "Progress update",
		message:   fmt.Sprintf("%s posted %q (%d%% complete).", e.StudentName, e.Title, e.Completion),
		link:      projectLink(e.ProjectID),
		metadata:  map[string]interface{}{"projectId": e.ProjectID, "progressId": e.ProgressID},
	}}
}

// EvaluationSubmitted fires on every evaluation upsert
type EvaluationSubmitted struct {
	EvaluationID uint
	StudentID    uint
	Type         model.EvaluationType
	Grade        model.Grade
}

func (e EvaluationSubmitted) Kind() model.NotificationType {
	return model.NotificationEvaluationSubmitted
}

func (e EvaluationSubmitted) drafts() []draft {
	return []draft{{
		recipient: e.StudentID,
		title:     "Evaluation published",
		message:   fmt.Sprintf("Your %s evaluation has been recorded with grade %s.", e.Type, e.Grade),
		link:      "/evaluations",
		metadata:  map[string]interface{}{"evaluationId": e.EvaluationID, "grade": e.Grade},
	}}
}

// SubmissionReviewed fires when a reviewer changes a submission's status
type SubmissionReviewed struct {
	SubmissionID uint
	ProjectID    uint
	StudentID    uint
	Status       model.SubmissionStatus
	Comments     string
}

func (e SubmissionReviewed) Kind() model.NotificationType {
	return model.NotificationSubmissionReviewed
}

func (e SubmissionReviewed) drafts() []draft {
	msg := fmt.Sprintf("Your dissertation submission was marked %s.", e.Status)
	if e.Comments != "" {
		msg += " Comments: " + e.Comments
	}
	return []draft{{
		recipient: e.StudentID,
		title:     "Submission reviewed",
		message:   msg,
		link:      projectLink(e.ProjectID),
		metadata:  map[string]interface{}{"submissionId": e.SubmissionID, "status": e.Status},
	}}
}

// MeetingReminder is raised by the scheduler ahead of a meeting
type MeetingReminder struct {
	MeetingID     uint
	Title         string
	ScheduledDate time.Time
	StudentID     uint
	FacultyID     uint
}

func (e MeetingReminder) Kind() model.NotificationType { return model.NotificationMeetingReminder }

func (e MeetingReminder) drafts() []draft {
	msg := fmt.Sprintf("Reminder: %q is scheduled for %s.", e.Title, e.ScheduledDate.Format(dateLayout))
	meta := map[string]interface{}{"meetingId": e.MeetingID}
	return []draft{
		{recipient: e.StudentID, title: "Upcoming meeting", message: msg, link: meetingLink(e.MeetingID), metadata: meta},
		{recipient: e.FacultyID, title: "Upcoming meeting", message: msg, link: meetingLink(e.MeetingID), metadata: meta},
	}
}
