package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/services/events"
	"github.com/disserto/disserto-api/services/lifecycle"
	"github.com/disserto/disserto-api/services/storage"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/disserto/disserto-api/utils/pdfvalidation"
	"github.com/disserto/disserto-api/utils/validation"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// ProjectService runs the project lifecycle: proposals, status transitions,
// guide and panel assignment, progress updates and final submissions.
type ProjectService struct {
	repos     *repository.Repositories
	authz     *authz.Authorizer
	events    *events.Dispatcher
	files     storage.FileStorage
	validator *validation.Validator
	now       Clock
	log       zerolog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(repos *repository.Repositories, authorizer *authz.Authorizer, dispatcher *events.Dispatcher, files storage.FileStorage) *ProjectService {
	return &ProjectService{
		repos:     repos,
		authz:     authorizer,
		events:    dispatcher,
		files:     files,
		validator: validation.NewValidator(),
		now:       time.Now,
		log:       logger.With("projects"),
	}
}

// SetClock overrides the time source.
func (s *ProjectService) SetClock(now Clock) {
	s.now = now
}

// ProposalRequest is the body of a new project proposal
type ProposalRequest struct {
	Title            string     `json:"title" validate:"required,max=255"`
	Description      string     `json:"description" validate:"required"`
	ProblemStatement string     `json:"problemStatement" validate:"required"`
	ExpectedOutcome  string     `json:"expectedOutcome" validate:"required"`
	Technologies     StringList `json:"technologies" validate:"required,min=1"`
	Department       string     `json:"department" validate:"max=100"`
	Branch           string     `json:"branch" validate:"max=100"`
}

// ProjectListOptions narrows a role scoped project listing
type ProjectListOptions struct {
	Status string
	Page
}

// StatusUpdateRequest is the body of a status transition by an HOD or admin
type StatusUpdateRequest struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected completed"`
	Comments string `json:"comments"`
	GuideID  *uint  `json:"guide"`
}

// ProgressRequest is the body of a guide's progress/feedback update
type ProgressRequest struct {
	Progress *int    `json:"progress" validate:"required,gte=0,lte=100"`
	Feedback *string `json:"feedback"`
}

// ProgressUpdateRequest is the body of a student's progress report
type ProgressUpdateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Completion  *int   `json:"completionPercentage" validate:"required,gte=0,lte=100"`
	Challenges  string `json:"challenges"`
	NextSteps   string `json:"nextSteps"`
}

// FileUpload is an uploaded file held in memory
type FileUpload struct {
	Filename string
	Content  []byte
}

// FinalSubmissionRequest is the multipart body of a final dissertation submission.
// ProjectID is optional; the student's active project is used when it is zero.
type FinalSubmissionRequest struct {
	ProjectID uint        `json:"projectId"`
	Title     string      `json:"title" validate:"required,max=255"`
	Abstract  string      `json:"abstract" validate:"required"`
	Keywords  StringList  `json:"keywords"`
	File      *FileUpload `json:"-"`
}

// ReviewRequest is the body of a submission review
type ReviewRequest struct {
	Status   string `json:"status" validate:"required,oneof=reviewed approved rejected"`
	Comments string `json:"comments"`
}

// SubmitProposal creates a pending project for the student.
func (s *ProjectService) SubmitProposal(ctx context.Context, actor *model.User, req ProposalRequest) (*model.Project, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.ProjectCreate, authz.Resource{Kind: authz.KindProject}); err != nil {
		return nil, err
	}

	req.Title = validation.SanitizeString(req.Title)
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	department := strings.TrimSpace(req.Department)
	if department == "" {
		department = strings.TrimSpace(req.Branch)
	}
	if department == "" {
		department = firstNonEmpty(actor.Department, actor.Branch)
	}
	if department == "" {
		return nil, apperrors.Validation("Validation failed", map[string]string{"department": "department is required"})
	}

	active, err := s.repos.Projects.List(ctx, repository.ProjectFilter{
		StudentID: actor.ID,
		Statuses:  []model.ProjectStatus{model.ProjectStatusPending, model.ProjectStatusApproved},
		Limit:     1,
	})
	if err != nil {
		return nil, internal(err)
	}
	if len(active) > 0 {
		return nil, apperrors.Conflict("You already have an active project proposal")
	}

	now := s.now()
	project := &model.Project{
		Title:            req.Title,
		Description:      req.Description,
		ProblemStatement: req.ProblemStatement,
		ExpectedOutcome:  req.ExpectedOutcome,
		Technologies:     pq.StringArray(req.Technologies),
		Department:       department,
		Branch:           strings.TrimSpace(req.Branch),
		StudentID:        actor.ID,
		Status:           model.ProjectStatusPending,
		LastUpdated:      now,
	}

	hod, err := s.findHOD(ctx, project.Department, project.Branch)
	if err != nil {
		return nil, internal(err)
	}
	if hod != nil {
		project.HODAssignedID = uintPtr(hod.ID)
	} else {
		s.log.Info().Str("department", project.Department).Msg("no HOD found for proposal department")
	}

	if err := s.repos.Projects.Create(ctx, project); err != nil {
		return nil, internal(err)
	}

	ev := events.ProposalSubmitted{ProjectID: project.ID, Title: project.Title, StudentName: actor.Name}
	if hod != nil {
		ev.HODID = hod.ID
	}
	s.events.Dispatch(ctx, ev)

	return project, nil
}

// List returns the projects visible to the actor: a student's own, a guide's
// guided, an HOD's department, or everything for an admin.
func (s *ProjectService) List(ctx context.Context, actor *model.User, opts ProjectListOptions) ([]model.Project, error) {
	page := opts.Page.normalize()
	filter := repository.ProjectFilter{Limit: page.Limit, Offset: page.Offset}

	if opts.Status != "" {
		status := model.ProjectStatus(opts.Status)
		if !status.Valid() {
			return nil, apperrors.Validation("Invalid status filter", nil)
		}
		filter.Statuses = []model.ProjectStatus{status}
	}

	switch actor.Role {
	case model.RoleStudent:
		filter.StudentID = actor.ID
	case model.RoleFaculty:
		filter.GuideID = actor.ID
	case model.RoleHOD:
		filter.Departments = actor.DepartmentKeys()
		if len(filter.Departments) == 0 {
			return []model.Project{}, nil
		}
	case model.RoleAdmin:
	default:
		return nil, authz.DecisionError(authz.Authorize(authz.ActorFrom(actor), authz.ProjectRead, authz.Resource{}))
	}

	projects, err := s.repos.Projects.List(ctx, filter)
	if err != nil {
		return nil, internal(err)
	}
	return projects, nil
}

// ListMine returns the student's own projects, newest first.
func (s *ProjectService) ListMine(ctx context.Context, actor *model.User) ([]model.Project, error) {
	projects, err := s.repos.Projects.List(ctx, repository.ProjectFilter{StudentID: actor.ID})
	if err != nil {
		return nil, internal(err)
	}
	return projects, nil
}

// Get loads one project the actor may read.
func (s *ProjectService) Get(ctx context.Context, actor *model.User, id uint) (*model.Project, error) {
	return s.load(ctx, actor, id, authz.ProjectRead)
}

// UpdateStatus applies an HOD/admin status transition. Approving may also
// assign a guide in the same request.
func (s *ProjectService) UpdateStatus(ctx context.Context, actor *model.User, id uint, req StatusUpdateRequest) (*model.Project, error) {
	project, err := s.load(ctx, actor, id, authz.ProjectUpdateStatus)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	to := model.ProjectStatus(req.Status)
	if !lifecycle.CanTransition(project.Status, to) {
		return nil, apperrors.Conflict(fmt.Sprintf("Cannot change project status from %s to %s", project.Status, to))
	}

	var assignment *guideAssignment
	if req.GuideID != nil {
		if to != model.ProjectStatusApproved {
			return nil, apperrors.Validation("A guide can only be assigned when approving a project", nil)
		}
		if assignment, err = s.prepareGuide(ctx, project, *req.GuideID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	if err := lifecycle.Transition(project, to, now); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if req.Comments != "" {
		project.Comments = req.Comments
	}
	if actor.Role == model.RoleHOD && project.HODAssignedID == nil {
		project.HODAssignedID = uintPtr(actor.ID)
	}

	var evs []events.Event
	if assignment != nil {
		assignEvents, err := s.applyGuide(ctx, project, assignment, now, true)
		if err != nil {
			return nil, err
		}
		evs = append(evs, assignEvents...)
	} else if err := s.repos.Projects.Save(ctx, project); err != nil {
		return nil, internal(err)
	}

	switch to {
	case model.ProjectStatusApproved:
		ev := events.ProjectApproved{ProjectID: project.ID, Title: project.Title, StudentID: project.StudentID, Comments: req.Comments}
		if assignment != nil {
			ev.GuideName = assignment.guide.Name
		}
		evs = append([]events.Event{ev}, evs...)
	case model.ProjectStatusRejected:
		evs = append(evs, events.ProjectRejected{ProjectID: project.ID, Title: project.Title, StudentID: project.StudentID, Comments: req.Comments})
	case model.ProjectStatusCompleted:
		evs = append(evs, events.ProjectCompleted{ProjectID: project.ID, Title: project.Title, StudentID: project.StudentID})
	}
	s.events.Dispatch(ctx, evs...)

	s.log.Info().
		Uint("project_id", project.ID).
		Uint("actor_id", actor.ID).
		Str("status", string(to)).
		Msg("project status changed")

	return project, nil
}

// AssignGuide (re)assigns the faculty guide of a project in any status.
func (s *ProjectService) AssignGuide(ctx context.Context, actor *model.User, id, guideID uint) (*model.Project, error) {
	project, err := s.load(ctx, actor, id, authz.ProjectAssignGuide)
	if err != nil {
		return nil, err
	}
	if guideID == 0 {
		return nil, apperrors.Validation("Validation failed", map[string]string{"guide": "guide is required"})
	}

	assignment, err := s.prepareGuide(ctx, project, guideID)
	if err != nil {
		return nil, err
	}
	evs, err := s.applyGuide(ctx, project, assignment, s.now(), false)
	if err != nil {
		return nil, err
	}
	s.events.Dispatch(ctx, evs...)
	return project, nil
}

type guideAssignment struct {
	guide    *model.User
	student  *model.User
	previous *model.User
}

// prepareGuide loads everything a guide assignment touches without writing.
func (s *ProjectService) prepareGuide(ctx context.Context, project *model.Project, guideID uint) (*guideAssignment, error) {
	guide, err := s.repos.Users.FindByID(ctx, guideID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && guide.Role != model.RoleFaculty) {
		return nil, apperrors.Conflict(lifecycle.ErrGuideNotFaculty.Error())
	}
	if err != nil {
		return nil, internal(err)
	}

	a := &guideAssignment{guide: guide}
	if a.student, err = s.optionalUser(ctx, project.StudentID); err != nil {
		return nil, err
	}
	if prev := project.Guide(); prev != 0 && prev != guideID {
		if a.previous, err = s.optionalUser(ctx, prev); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// applyGuide writes the project, the student and both guides.
func (s *ProjectService) applyGuide(ctx context.Context, project *model.Project, a *guideAssignment, now time.Time, studentNotified bool) ([]events.Event, error) {
	change, err := lifecycle.AssignGuide(project, a.student, a.guide, a.previous, now)
	if err != nil {
		return nil, apperrors.Conflict(err.Error())
	}

	if err := s.repos.Projects.Save(ctx, project); err != nil {
		return nil, internal(err)
	}
	if err := s.repos.Users.Save(ctx, change.NewGuide); err != nil {
		return nil, internal(err)
	}
	if change.Student != nil {
		if err := s.repos.Users.Save(ctx, change.Student); err != nil {
			return nil, internal(err)
		}
	}
	if change.OldGuide != nil {
		if err := s.repos.Users.Save(ctx, change.OldGuide); err != nil {
			return nil, internal(err)
		}
		if err := s.handOverMeetings(ctx, project.ID, a.guide.ID); err != nil {
			return nil, err
		}
	}

	ev := events.GuideAssigned{
		ProjectID:       project.ID,
		Title:           project.Title,
		StudentID:       project.StudentID,
		GuideID:         a.guide.ID,
		GuideName:       a.guide.Name,
		StudentNotified: studentNotified,
	}
	if a.student != nil {
		ev.StudentName = a.student.Name
	}
	return []events.Event{ev}, nil
}

// handOverMeetings moves the project's open meetings to guideID.
func (s *ProjectService) handOverMeetings(ctx context.Context, projectID, guideID uint) error {
	meetings, err := s.repos.Meetings.List(ctx, repository.MeetingFilter{ProjectID: projectID})
	if err != nil {
		return internal(err)
	}
	for i := range meetings {
		m := &meetings[i]
		if m.FacultyID == guideID || m.Status == model.MeetingStatusCompleted || m.Status == model.MeetingStatusCancelled {
			continue
		}
		m.FacultyID = guideID
		if err := s.repos.Meetings.Save(ctx, m); err != nil {
			return internal(err)
		}
	}
	return nil
}

// UpdateProgress lets the guide set the progress percentage and feedback.
func (s *ProjectService) UpdateProgress(ctx context.Context, actor *model.User, id uint, req ProgressRequest) (*model.Project, error) {
	project, err := s.load(ctx, actor, id, authz.ProjectUpdateProgress)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	project.Progress = *req.Progress
	if req.Feedback != nil {
		project.Feedback = *req.Feedback
	}
	project.LastUpdated = s.now()

	if err := s.repos.Projects.Save(ctx, project); err != nil {
		return nil, internal(err)
	}
	return project, nil
}

// AddProgressUpdate records a student's progress report on an approved project
// and copies its completion into the project.
func (s *ProjectService) AddProgressUpdate(ctx context.Context, actor *model.User, projectID uint, req ProgressUpdateRequest) (*model.Progress, error) {
	project, err := s.load(ctx, actor, projectID, authz.ProgressCreate)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}
	if project.Status != model.ProjectStatusApproved {
		return nil, apperrors.Conflict("Progress updates can only be added to approved projects")
	}

	progress := &model.Progress{
		ProjectID:   project.ID,
		StudentID:   actor.ID,
		Title:       req.Title,
		Description: req.Description,
		Completion:  *req.Completion,
		Challenges:  req.Challenges,
		NextSteps:   req.NextSteps,
	}
	if err := s.repos.Progress.Create(ctx, progress); err != nil {
		return nil, internal(err)
	}

	project.Progress = progress.Completion
	project.LastUpdated = s.now()
	if err := s.repos.Projects.Save(ctx, project); err != nil {
		return nil, internal(err)
	}

	s.events.Dispatch(ctx, events.ProgressSubmitted{
		ProjectID:   project.ID,
		ProgressID:  progress.ID,
		Title:       progress.Title,
		Completion:  progress.Completion,
		GuideID:     project.Guide(),
		StudentName: actor.Name,
	})
	return progress, nil
}

// ListProgressUpdates returns a project's progress reports, newest first.
func (s *ProjectService) ListProgressUpdates(ctx context.Context, actor *model.User, projectID uint) ([]model.Progress, error) {
	if _, err := s.load(ctx, actor, projectID, authz.ProjectRead); err != nil {
		return nil, err
	}
	updates, err := s.repos.Progress.ListByProject(ctx, projectID)
	if err != nil {
		return nil, internal(err)
	}
	return updates, nil
}

// SubmitFinal stores the dissertation PDF and moves the project to submitted.
func (s *ProjectService) SubmitFinal(ctx context.Context, actor *model.User, req FinalSubmissionRequest) (*model.Submission, error) {
	project, err := s.finalSubmissionProject(ctx, actor, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != model.ProjectStatusApproved {
		return nil, apperrors.Conflict("Final submission is only allowed for approved projects")
	}

	req.Title = validation.SanitizeString(req.Title)
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}
	if req.File == nil || len(req.File.Content) == 0 {
		return nil, apperrors.Validation("Validation failed", map[string]string{"file": "a PDF file is required"})
	}

	result, err := pdfvalidation.ValidateUpload(req.File.Filename, req.File.Content, pdfvalidation.DissertationLimits)
	if err != nil {
		return nil, internal(err)
	}
	if !result.Valid {
		return nil, apperrors.Validation(result.Error, map[string]string{"file": result.Error})
	}

	key := storage.GenerateKey(fmt.Sprintf("dissertations/%d", project.ID), req.File.Filename)
	url, err := s.files.Upload(ctx, key, req.File.Content, storage.GetContentType(req.File.Filename))
	if err != nil {
		return nil, apperrors.Internal("Failed to store dissertation file", err)
	}

	submission := &model.Submission{
		ProjectID: project.ID,
		StudentID: actor.ID,
		Title:     req.Title,
		Abstract:  req.Abstract,
		Keywords:  pq.StringArray(req.Keywords),
		FileURL:   url,
		FileName:  req.File.Filename,
		FileSize:  result.FileSize,
		FileKey:   key,
		PageCount: result.PageCount,
		Status:    model.SubmissionStatusPending,
	}
	if err := s.repos.Submissions.Create(ctx, submission); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned dissertation file")
		}
		return nil, internal(err)
	}

	if err := lifecycle.Transition(project, model.ProjectStatusSubmitted, s.now()); err != nil {
		return nil, apperrors.Conflict(err.Error())
	}
	if err := s.repos.Projects.Save(ctx, project); err != nil {
		return nil, internal(err)
	}

	ev := events.DissertationSubmitted{
		ProjectID:    project.ID,
		SubmissionID: submission.ID,
		Title:        submission.Title,
		StudentName:  actor.Name,
		GuideID:      project.Guide(),
	}
	if project.HODAssignedID != nil {
		ev.HODID = *project.HODAssignedID
	} else if hod, err := s.findHOD(ctx, project.Department, project.Branch); err == nil && hod != nil {
		ev.HODID = hod.ID
	}
	s.events.Dispatch(ctx, ev)

	return submission, nil
}

// finalSubmissionProject resolves the project a final submission targets.
func (s *ProjectService) finalSubmissionProject(ctx context.Context, actor *model.User, projectID uint) (*model.Project, error) {
	if projectID != 0 {
		return s.load(ctx, actor, projectID, authz.SubmissionCreate)
	}

	projects, err := s.repos.Projects.List(ctx, repository.ProjectFilter{StudentID: actor.ID})
	if err != nil {
		return nil, internal(err)
	}
	if len(projects) == 0 {
		return nil, apperrors.NotFound("No project found")
	}
	// Prefer the active project; otherwise the newest one, which then fails the status guard.
	for i := range projects {
		if lifecycle.IsActive(projects[i].Status) {
			return s.check(ctx, actor, &projects[i], authz.SubmissionCreate)
		}
	}
	return s.check(ctx, actor, &projects[0], authz.SubmissionCreate)
}

// ListSubmissions returns the final submissions of a project.
func (s *ProjectService) ListSubmissions(ctx context.Context, actor *model.User, projectID uint) ([]model.Submission, error) {
	if _, err := s.load(ctx, actor, projectID, authz.ProjectRead); err != nil {
		return nil, err
	}
	submissions, err := s.repos.Submissions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, internal(err)
	}
	return submissions, nil
}

// ReviewSubmission sets the review status of a final submission.
func (s *ProjectService) ReviewSubmission(ctx context.Context, actor *model.User, submissionID uint, req ReviewRequest) (*model.Submission, error) {
	submission, err := s.repos.Submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, lookup(err, "Submission not found")
	}
	if _, err := s.load(ctx, actor, submission.ProjectID, authz.SubmissionReview); err != nil {
		return nil, err
	}
	if err := s.validator.Check(req); err != nil {
		return nil, err
	}

	submission.Status = model.SubmissionStatus(req.Status)
	submission.ReviewComments = req.Comments
	submission.ReviewedBy = uintPtr(actor.ID)
	if err := s.repos.Submissions.Save(ctx, submission); err != nil {
		return nil, internal(err)
	}

	s.events.Dispatch(ctx, events.SubmissionReviewed{
		SubmissionID: submission.ID,
		ProjectID:    submission.ProjectID,
		StudentID:    submission.StudentID,
		Status:       submission.Status,
		Comments:     submission.ReviewComments,
	})
	return submission, nil
}

// DeleteProject removes a project. Admin only.
func (s *ProjectService) DeleteProject(ctx context.Context, actor *model.User, id uint) error {
	if _, err := s.load(ctx, actor, id, authz.ProjectDelete); err != nil {
		return err
	}
	if err := s.repos.Projects.Delete(ctx, id); err != nil {
		return lookup(err, "Project not found")
	}
	s.log.Info().Uint("project_id", id).Uint("actor_id", actor.ID).Msg("project deleted")
	return nil
}

// AssignPanel replaces the evaluation panel of a project. Every member must be faculty.
func (s *ProjectService) AssignPanel(ctx context.Context, actor *model.User, id uint, memberIDs []uint) (*model.Project, error) {
	project, err := s.load(ctx, actor, id, authz.ProjectAssignPanel)
	if err != nil {
		return nil, err
	}

	seen := map[uint]bool{}
	panel := pq.Int64Array{}
	var added []uint
	for _, memberID := range memberIDs {
		if seen[memberID] {
			continue
		}
		seen[memberID] = true

		member, err := s.repos.Users.FindByID(ctx, memberID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && member.Role != model.RoleFaculty) {
			return nil, apperrors.Validation("Panel members must be faculty", map[string]string{
				"members": fmt.Sprintf("user %d is not a faculty member", memberID),
			})
		}
		if err != nil {
			return nil, internal(err)
		}
		panel = append(panel, int64(memberID))
		if !project.HasPanelMember(memberID) {
			added = append(added, memberID)
		}
	}

	project.PanelMembers = panel
	project.LastUpdated = s.now()
	if err := s.repos.Projects.Save(ctx, project); err != nil {
		return nil, internal(err)
	}

	if len(added) > 0 {
		s.events.Dispatch(ctx, events.PanelAssigned{ProjectID: project.ID, Title: project.Title, MemberIDs: added})
	}
	return project, nil
}

// load fetches a project and authorizes action on it.
func (s *ProjectService) load(ctx context.Context, actor *model.User, id uint, action authz.Action) (*model.Project, error) {
	project, err := s.repos.Projects.FindByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Project not found")
	}
	return s.check(ctx, actor, project, action)
}

func (s *ProjectService) check(ctx context.Context, actor *model.User, project *model.Project, action authz.Action) (*model.Project, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), action, authz.ProjectResource(project)); err != nil {
		return nil, err
	}
	return project, nil
}

// findHOD returns an HOD whose department or branch matches either value, or nil.
func (s *ProjectService) findHOD(ctx context.Context, department, branch string) (*model.User, error) {
	keys := model.DepartmentKeys(department, branch)
	if len(keys) == 0 {
		return nil, nil
	}
	hods, err := s.repos.Users.List(ctx, repository.UserFilter{Role: model.RoleHOD, Departments: keys, Limit: 1})
	if err != nil || len(hods) == 0 {
		return nil, err
	}
	return &hods[0], nil
}

func (s *ProjectService) optionalUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repos.Users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(err)
	}
	return user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
