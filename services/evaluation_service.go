package services

import (
	"context"
	"errors"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/services/events"
	"github.com/disserto/disserto-api/services/lifecycle"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/validation"
)

// EvaluationService records faculty evaluations of their assigned students
type EvaluationService struct {
	repos     *repository.Repositories
	authz     *authz.Authorizer
	events    *events.Dispatcher
	validator *validation.Validator
}

// NewEvaluationService creates a new evaluation service
func NewEvaluationService(repos *repository.Repositories, authorizer *authz.Authorizer, dispatcher *events.Dispatcher) *EvaluationService {
	return &EvaluationService{
		repos:     repos,
		authz:     authorizer,
		events:    dispatcher,
		validator: validation.NewValidator(),
	}
}

// EvaluationRequest carries the five scores. Omitted scores count as zero.
type EvaluationRequest struct {
	EvaluationType      string   `json:"evaluationType" validate:"required,oneof=mid-term final"`
	PresentationScore   *float64 `json:"presentationScore" validate:"omitempty,gte=0,lte=100"`
	ContentScore        *float64 `json:"contentScore" validate:"omitempty,gte=0,lte=100"`
	ResearchScore       *float64 `json:"researchScore" validate:"omitempty,gte=0,lte=100"`
	InnovationScore     *float64 `json:"innovationScore" validate:"omitempty,gte=0,lte=100"`
	ImplementationScore *float64 `json:"implementationScore" validate:"omitempty,gte=0,lte=100"`
	Comments            string   `json:"comments"`
}

func (r EvaluationRequest) scores() lifecycle.Scores {
	return lifecycle.Scores{
		Presentation:   r.PresentationScore,
		Content:        r.ContentScore,
		Research:       r.ResearchScore,
		Innovation:     r.InnovationScore,
		Implementation: r.ImplementationScore,
	}
}

const studentNotAssigned = "Student not found or not assigned to you"

// Upsert creates or updates the evaluation keyed by (student, evaluator,
// type). The grade is recomputed on every write. created reports which happened.
func (s *EvaluationService) Upsert(ctx context.Context, actor *model.User, studentID uint, req EvaluationRequest) (evaluation *model.Evaluation, created bool, err error) {
	student, err := s.repos.Users.FindByID(ctx, studentID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && student.Role != model.RoleStudent) {
		return nil, false, apperrors.NotFound(studentNotAssigned)
	}
	if err != nil {
		return nil, false, internal(err)
	}

	target := authz.Resource{Kind: authz.KindUser, ID: student.ID, OwnerID: student.ID}
	if student.AssignedGuideID != nil {
		target.AssignedGuideID = *student.AssignedGuideID
	} else if actor.HasAssignedStudent(student.ID) {
		target.AssignedGuideID = actor.ID
	}
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.EvaluationUpsert, target); err != nil {
		return nil, false, err
	}

	if err := s.validator.Check(req); err != nil {
		return nil, false, err
	}

	project, err := s.studentProject(ctx, student.ID, actor.ID)
	if err != nil {
		return nil, false, err
	}

	scores := req.scores()
	evalType := model.EvaluationType(req.EvaluationType)

	evaluation, err = s.repos.Evaluations.FindByKey(ctx, student.ID, actor.ID, evalType)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		evaluation = &model.Evaluation{StudentID: student.ID, EvaluatorID: actor.ID, EvaluationType: evalType}
		created = true
	case err != nil:
		return nil, false, internal(err)
	}

	evaluation.ProjectID = project.ID
	evaluation.PresentationScore = value(scores.Presentation)
	evaluation.ContentScore = value(scores.Content)
	evaluation.ResearchScore = value(scores.Research)
	evaluation.InnovationScore = value(scores.Innovation)
	evaluation.ImplementationScore = value(scores.Implementation)
	evaluation.OverallScore = scores.Mean()
	evaluation.OverallGrade = lifecycle.OverallGrade(scores)
	evaluation.Comments = req.Comments

	if created {
		err = s.repos.Evaluations.Create(ctx, evaluation)
	} else {
		err = s.repos.Evaluations.Save(ctx, evaluation)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, apperrors.Conflict("Evaluation was created concurrently, retry the request")
		}
		return nil, false, internal(err)
	}

	s.events.Dispatch(ctx, events.EvaluationSubmitted{
		EvaluationID: evaluation.ID,
		StudentID:    student.ID,
		Type:         evaluation.EvaluationType,
		Grade:        evaluation.OverallGrade,
	})
	return evaluation, created, nil
}

// ListMine returns the evaluations of the calling student.
func (s *EvaluationService) ListMine(ctx context.Context, actor *model.User) ([]model.Evaluation, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.EvaluationRead, authz.Resource{Kind: authz.KindEvaluation, OwnerID: actor.ID}); err != nil {
		return nil, err
	}
	evaluations, err := s.repos.Evaluations.List(ctx, repository.EvaluationFilter{StudentID: actor.ID})
	if err != nil {
		return nil, internal(err)
	}
	return evaluations, nil
}

// ListByEvaluator returns the evaluations written by the calling faculty member.
func (s *EvaluationService) ListByEvaluator(ctx context.Context, actor *model.User) ([]model.Evaluation, error) {
	if err := s.authz.Check(ctx, authz.ActorFrom(actor), authz.EvaluationRead, authz.Resource{Kind: authz.KindEvaluation, FacultyID: actor.ID}); err != nil {
		return nil, err
	}
	evaluations, err := s.repos.Evaluations.List(ctx, repository.EvaluationFilter{EvaluatorID: actor.ID})
	if err != nil {
		return nil, internal(err)
	}
	return evaluations, nil
}

// studentProject picks the project an evaluation belongs to: the newest one
// guided by the evaluator, else the student's newest project.
func (s *EvaluationService) studentProject(ctx context.Context, studentID, evaluatorID uint) (*model.Project, error) {
	projects, err := s.repos.Projects.List(ctx, repository.ProjectFilter{StudentID: studentID})
	if err != nil {
		return nil, internal(err)
	}
	if len(projects) == 0 {
		return nil, apperrors.NotFound("No project found for this student")
	}
	for i := range projects {
		if projects[i].GuidedBy(evaluatorID) {
			return &projects[i], nil
		}
	}
	return &projects[0], nil
}

func value(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
