package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/pdfvalidation/pdftest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want StringList
	}{
		{"comma string", `"Go, Rust"`, StringList{"Go", "Rust"}},
		{"comma string with blanks", `" Go ,, Rust ,"`, StringList{"Go", "Rust"}},
		{"list unchanged", `["Go", " Rust "]`, StringList{"Go", " Rust "}},
		{"null", `null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestSubmitProposal_CommaTechnologiesAndHODNotified(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")

	var req ProposalRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "X",
		"description": "d",
		"problemStatement": "p",
		"technologies": "Go, Rust",
		"expectedOutcome": "o",
		"department": "CSE"
	}`), &req))

	project, err := f.projects.SubmitProposal(f.ctx, student, req)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusPending, project.Status)
	assert.Equal(t, []string{"Go", "Rust"}, []string(project.Technologies))
	require.NotNil(t, project.HODAssignedID)
	assert.Equal(t, hod.ID, *project.HODAssignedID)

	inbox := f.inbox(t, hod.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, model.NotificationProposalSubmitted, inbox[0].Type)
}

func TestSubmitProposal_HODMatchedByBranch(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Legacy Hod", "")
	hod.Branch = " cse "
	require.NoError(t, f.repos.Users.Save(f.ctx, hod))
	student := f.user(t, model.RoleStudent, "Student A", "CSE")

	project := f.proposal(t, student)
	require.NotNil(t, project.HODAssignedID)
	assert.Equal(t, hod.ID, *project.HODAssignedID)
}

func TestSubmitProposal_NoHOD(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, model.RoleStudent, "Student A", "MECH")

	project := f.proposal(t, student)
	assert.Nil(t, project.HODAssignedID)

	for _, id := range []uint{1, 2, 3} {
		assert.Empty(t, f.inbox(t, id))
	}
}

func TestSubmitProposal_Validation(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	faculty := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")

	_, err := f.projects.SubmitProposal(f.ctx, student, ProposalRequest{Title: "X"})
	requireKind(t, err, apperrors.KindValidation)
	details := apperrors.As(err).Details.(map[string]string)
	assert.Contains(t, details, "technologies")
	assert.Contains(t, details, "problemStatement")

	_, err = f.projects.SubmitProposal(f.ctx, faculty, ProposalRequest{})
	requireKind(t, err, apperrors.KindForbidden)
}

func TestSubmitProposal_OneActiveProjectPerStudent(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")

	first := f.proposal(t, student)

	_, err := f.projects.SubmitProposal(f.ctx, student, ProposalRequest{
		Title: "Y", Description: "d", ProblemStatement: "p", ExpectedOutcome: "o",
		Technologies: StringList{"Go"}, Department: "CSE",
	})
	requireKind(t, err, apperrors.KindConflict)

	_, err = f.projects.UpdateStatus(f.ctx, hod, first.ID, StatusUpdateRequest{Status: "approved", GuideID: &guide.ID})
	require.NoError(t, err)
	_, err = f.projects.SubmitProposal(f.ctx, student, ProposalRequest{
		Title: "Y", Description: "d", ProblemStatement: "p", ExpectedOutcome: "o",
		Technologies: StringList{"Go"}, Department: "CSE",
	})
	requireKind(t, err, apperrors.KindConflict)

	other := f.user(t, model.RoleStudent, "Student B", "CSE")
	rejected := f.proposal(t, other)
	_, err = f.projects.UpdateStatus(f.ctx, hod, rejected.ID, StatusUpdateRequest{Status: "rejected", Comments: "too broad"})
	require.NoError(t, err)
	_ = f.proposal(t, other)
}

func TestUpdateStatus_ApproveWithGuide(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")

	project := f.proposal(t, student)
	project, err := f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "approved", GuideID: &guide.ID})
	require.NoError(t, err)

	assert.Equal(t, model.ProjectStatusApproved, project.Status)
	require.NotNil(t, project.GuideID)
	assert.Equal(t, guide.ID, *project.GuideID)

	studentInbox := f.inbox(t, student.ID)
	require.Len(t, studentInbox, 1)
	assert.Equal(t, model.NotificationProjectApproved, studentInbox[0].Type)
	assert.Contains(t, studentInbox[0].Message, "Dr Rao")

	guideInbox := f.inbox(t, guide.ID)
	require.Len(t, guideInbox, 1)
	assert.Equal(t, model.NotificationGuideAssigned, guideInbox[0].Type)

	assert.Equal(t, guide.ID, *f.reload(t, student).AssignedGuideID)
	assert.True(t, f.reload(t, guide).HasAssignedStudent(student.ID))
}

func TestUpdateStatus_StrictTransitions(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.proposal(t, student)

	_, err := f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "rejected", Comments: "scope"})
	require.NoError(t, err)

	_, err = f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "approved"})
	requireKind(t, err, apperrors.KindConflict)
	assert.Equal(t, 400, apperrors.As(err).Kind.Status())

	_, err = f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "rejected"})
	requireKind(t, err, apperrors.KindConflict)

	stored, err := f.repos.Projects.FindByID(f.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusRejected, stored.Status)
	assert.Equal(t, "scope", stored.Comments)

	inbox := f.inbox(t, student.ID)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Message, "Reason: scope")
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.proposal(t, student)

	_, err := f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "archived"})
	requireKind(t, err, apperrors.KindValidation)

	_, err = f.projects.UpdateStatus(f.ctx, hod, 999, StatusUpdateRequest{Status: "approved"})
	requireKind(t, err, apperrors.KindNotFound)
}

func TestUpdateStatus_DepartmentScope(t *testing.T) {
	f := newFixture(t)
	hodECE := f.user(t, model.RoleHOD, "Hod Ece", "ECE")
	admin := f.user(t, model.RoleAdmin, "Admin", "")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.proposal(t, student)

	_, err := f.projects.UpdateStatus(f.ctx, hodECE, project.ID, StatusUpdateRequest{Status: "approved"})
	requireKind(t, err, apperrors.KindForbidden)
	assert.Equal(t, "Access denied: outside your department", apperrors.As(err).Message)

	logs, err := f.repos.AuditLogs.List(f.ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditDeny, logs[0].Decision)

	updated, err := f.projects.UpdateStatus(f.ctx, admin, project.ID, StatusUpdateRequest{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusApproved, updated.Status)
}

func TestUpdateStatus_GuideMustBeFaculty(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	other := f.user(t, model.RoleStudent, "Student B", "CSE")
	project := f.proposal(t, student)

	_, err := f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "approved", GuideID: &other.ID})
	requireKind(t, err, apperrors.KindConflict)
	assert.Equal(t, "guide must be a faculty member", apperrors.As(err).Message)

	missing := uint(999)
	_, err = f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "approved", GuideID: &missing})
	requireKind(t, err, apperrors.KindConflict)

	stored, err := f.repos.Projects.FindByID(f.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusPending, stored.Status)
	assert.Nil(t, stored.GuideID)
}

func TestAssignGuide_ReassignMovesStudent(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	first := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	second := f.user(t, model.RoleFaculty, "Dr Iyer", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.approved(t, student, hod, first)

	project, err := f.projects.AssignGuide(f.ctx, hod, project.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *project.GuideID)

	assert.False(t, f.reload(t, first).HasAssignedStudent(student.ID))
	assert.True(t, f.reload(t, second).HasAssignedStudent(student.ID))
	assert.Equal(t, second.ID, *f.reload(t, student).AssignedGuideID)

	// approval + reassignment
	assert.Len(t, f.inbox(t, student.ID), 2)
	assert.Len(t, f.inbox(t, second.ID), 1)

	_, err = f.projects.AssignGuide(f.ctx, first, project.ID, first.ID)
	requireKind(t, err, apperrors.KindForbidden)
}

func TestProgress_GuideUpdateAndStudentReports(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	other := f.user(t, model.RoleFaculty, "Dr Iyer", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")

	pending := f.proposal(t, student)
	completion := 40
	_, err := f.projects.AddProgressUpdate(f.ctx, student, pending.ID, ProgressUpdateRequest{Title: "t", Description: "d", Completion: &completion})
	requireKind(t, err, apperrors.KindConflict)

	project, err := f.projects.UpdateStatus(f.ctx, hod, pending.ID, StatusUpdateRequest{Status: "approved", GuideID: &guide.ID})
	require.NoError(t, err)

	progress, err := f.projects.AddProgressUpdate(f.ctx, student, project.ID, ProgressUpdateRequest{Title: "Week 3", Description: "d", Completion: &completion})
	require.NoError(t, err)
	assert.Equal(t, 40, progress.Completion)

	stored, err := f.repos.Projects.FindByID(f.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.Progress)

	guideInbox := f.inbox(t, guide.ID)
	require.Len(t, guideInbox, 2)
	assert.Equal(t, model.NotificationProgressSubmitted, guideInbox[0].Type)

	updates, err := f.projects.ListProgressUpdates(f.ctx, guide, project.ID)
	require.NoError(t, err)
	assert.Len(t, updates, 1)

	pct := 55
	feedback := "good pace"
	updated, err := f.projects.UpdateProgress(f.ctx, guide, project.ID, ProgressRequest{Progress: &pct, Feedback: &feedback})
	require.NoError(t, err)
	assert.Equal(t, 55, updated.Progress)
	assert.Equal(t, "good pace", updated.Feedback)

	_, err = f.projects.UpdateProgress(f.ctx, other, project.ID, ProgressRequest{Progress: &pct})
	requireKind(t, err, apperrors.KindForbidden)

	tooMuch := 120
	_, err = f.projects.UpdateProgress(f.ctx, guide, project.ID, ProgressRequest{Progress: &tooMuch})
	requireKind(t, err, apperrors.KindValidation)
}

func TestSubmitFinal_RequiresApprovedProject(t *testing.T) {
	f := newFixture(t)
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.proposal(t, student)

	_, err := f.projects.SubmitFinal(f.ctx, student, FinalSubmissionRequest{
		ProjectID: project.ID,
		Title:     "Final",
		Abstract:  "a",
		File:      &FileUpload{Filename: "thesis.pdf", Content: pdftest.Minimal(1)},
	})
	requireKind(t, err, apperrors.KindConflict)
	assert.Equal(t, 400, apperrors.As(err).Kind.Status())

	submissions, err := f.repos.Submissions.ListByProject(f.ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, submissions)

	stored, err := f.repos.Projects.FindByID(f.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusPending, stored.Status)
}

func TestSubmitFinal_StoresPDFAndNotifies(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.approved(t, student, hod, guide)

	_, err := f.projects.SubmitFinal(f.ctx, student, FinalSubmissionRequest{
		Title: "Final", Abstract: "a", File: &FileUpload{Filename: "thesis.docx", Content: []byte("PK")},
	})
	requireKind(t, err, apperrors.KindValidation)

	_, err = f.projects.SubmitFinal(f.ctx, student, FinalSubmissionRequest{Title: "Final", Abstract: "a"})
	requireKind(t, err, apperrors.KindValidation)

	submission, err := f.projects.SubmitFinal(f.ctx, student, FinalSubmissionRequest{
		Title:    "Final",
		Abstract: "a",
		Keywords: StringList{"caching"},
		File:     &FileUpload{Filename: "thesis.pdf", Content: pdftest.Minimal(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, project.ID, submission.ProjectID)
	assert.Equal(t, 3, submission.PageCount)
	assert.Equal(t, model.SubmissionStatusPending, submission.Status)
	assert.True(t, strings.HasPrefix(submission.FileURL, "/uploads/dissertations/"))

	_, err = os.Stat(filepath.Join(f.files.Root(), filepath.FromSlash(submission.FileKey)))
	assert.NoError(t, err)

	stored, err := f.repos.Projects.FindByID(f.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusSubmitted, stored.Status)

	assert.Equal(t, model.NotificationDissertationSubmitted, f.inbox(t, guide.ID)[0].Type)
	assert.Equal(t, model.NotificationDissertationSubmitted, f.inbox(t, hod.ID)[0].Type)

	_, err = f.projects.SubmitFinal(f.ctx, student, FinalSubmissionRequest{
		ProjectID: project.ID, Title: "Again", Abstract: "a",
		File: &FileUpload{Filename: "thesis.pdf", Content: pdftest.Minimal(1)},
	})
	requireKind(t, err, apperrors.KindConflict)

	other := f.user(t, model.RoleStudent, "Student B", "CSE")
	_, err = f.projects.SubmitFinal(f.ctx, other, FinalSubmissionRequest{
		ProjectID: project.ID, Title: "x", Abstract: "a",
		File: &FileUpload{Filename: "thesis.pdf", Content: pdftest.Minimal(1)},
	})
	requireKind(t, err, apperrors.KindForbidden)
}

func TestReviewSubmissionAndComplete(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.approved(t, student, hod, guide)

	submission, err := f.projects.SubmitFinal(f.ctx, student, FinalSubmissionRequest{
		ProjectID: project.ID, Title: "Final", Abstract: "a",
		File: &FileUpload{Filename: "thesis.pdf", Content: pdftest.Minimal(1)},
	})
	require.NoError(t, err)

	_, err = f.projects.ReviewSubmission(f.ctx, student, submission.ID, ReviewRequest{Status: "approved"})
	requireKind(t, err, apperrors.KindForbidden)

	reviewed, err := f.projects.ReviewSubmission(f.ctx, guide, submission.ID, ReviewRequest{Status: "approved", Comments: "well done"})
	require.NoError(t, err)
	assert.Equal(t, model.SubmissionStatusApproved, reviewed.Status)
	assert.Equal(t, guide.ID, *reviewed.ReviewedBy)
	assert.Equal(t, model.NotificationSubmissionReviewed, f.inbox(t, student.ID)[0].Type)

	listed, err := f.projects.ListSubmissions(f.ctx, hod, project.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	completed, err := f.projects.UpdateStatus(f.ctx, hod, project.ID, StatusUpdateRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusCompleted, completed.Status)
	assert.Equal(t, model.NotificationProjectCompleted, f.inbox(t, student.ID)[0].Type)
}

func TestAssignPanelAndDelete(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, model.RoleAdmin, "Admin", "")
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	panelist := f.user(t, model.RoleFaculty, "Dr Panel", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.proposal(t, student)

	_, err := f.projects.AssignPanel(f.ctx, hod, project.ID, []uint{panelist.ID})
	requireKind(t, err, apperrors.KindForbidden)

	_, err = f.projects.AssignPanel(f.ctx, admin, project.ID, []uint{panelist.ID, student.ID})
	requireKind(t, err, apperrors.KindValidation)

	updated, err := f.projects.AssignPanel(f.ctx, admin, project.ID, []uint{panelist.ID, panelist.ID})
	require.NoError(t, err)
	assert.Equal(t, []int64{int64(panelist.ID)}, []int64(updated.PanelMembers))
	assert.Len(t, f.inbox(t, panelist.ID), 1)

	_, err = f.projects.Get(f.ctx, panelist, project.ID)
	require.NoError(t, err)

	// same panel again does not notify twice
	_, err = f.projects.AssignPanel(f.ctx, admin, project.ID, []uint{panelist.ID})
	require.NoError(t, err)
	assert.Len(t, f.inbox(t, panelist.ID), 1)

	requireKind(t, f.projects.DeleteProject(f.ctx, hod, project.ID), apperrors.KindForbidden)
	require.NoError(t, f.projects.DeleteProject(f.ctx, admin, project.ID))
	requireKind(t, f.projects.DeleteProject(f.ctx, admin, project.ID), apperrors.KindNotFound)
}

func TestListProjects_RoleScoped(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, model.RoleAdmin, "Admin", "")
	hodCSE := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	hodECE := f.user(t, model.RoleHOD, "Hod Ece", "ECE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	a := f.user(t, model.RoleStudent, "Student A", "CSE")
	b := f.user(t, model.RoleStudent, "Student B", "ECE")

	f.approved(t, a, hodCSE, guide)
	f.proposal(t, b)

	count := func(actor *model.User, status string) int {
		projects, err := f.projects.List(f.ctx, actor, ProjectListOptions{Status: status})
		require.NoError(t, err)
		return len(projects)
	}
	assert.Equal(t, 2, count(admin, ""))
	assert.Equal(t, 1, count(hodCSE, ""))
	assert.Equal(t, 1, count(hodECE, ""))
	assert.Equal(t, 1, count(guide, ""))
	assert.Equal(t, 1, count(a, ""))
	assert.Equal(t, 1, count(admin, "pending"))

	_, err := f.projects.List(f.ctx, admin, ProjectListOptions{Status: "bogus"})
	requireKind(t, err, apperrors.KindValidation)

	_, err = f.projects.Get(f.ctx, b, 1)
	requireKind(t, err, apperrors.KindForbidden)
}
