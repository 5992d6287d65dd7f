package services

import (
	"testing"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestEvaluationUpsert_GradeAndIdempotentKey(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	project := f.approved(t, student, hod, guide)
	guide = f.reload(t, guide)

	evaluation, created, err := f.evaluations.Upsert(f.ctx, guide, student.ID, EvaluationRequest{
		EvaluationType:      "mid-term",
		PresentationScore:   score(90),
		ContentScore:        score(85),
		ResearchScore:       score(95),
		InnovationScore:     score(80),
		ImplementationScore: score(88),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.InDelta(t, 87.6, evaluation.OverallScore, 1e-9)
	assert.Equal(t, model.GradeB, evaluation.OverallGrade)
	assert.Equal(t, project.ID, evaluation.ProjectID)

	again, created, err := f.evaluations.Upsert(f.ctx, guide, student.ID, EvaluationRequest{
		EvaluationType:      "mid-term",
		PresentationScore:   score(95),
		ContentScore:        score(95),
		ResearchScore:       score(95),
		InnovationScore:     score(95),
		ImplementationScore: score(95),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, evaluation.ID, again.ID)
	assert.Equal(t, model.GradeA, again.OverallGrade)

	final, created, err := f.evaluations.Upsert(f.ctx, guide, student.ID, EvaluationRequest{EvaluationType: "final"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, evaluation.ID, final.ID)

	mine, err := f.evaluations.ListMine(f.ctx, student)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	written, err := f.evaluations.ListByEvaluator(f.ctx, guide)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	inbox := f.inbox(t, student.ID)
	assert.Equal(t, model.NotificationEvaluationSubmitted, inbox[0].Type)
	assert.Contains(t, inbox[0].Message, "grade F")
}

func TestEvaluationUpsert_MissingScoresCountAsZero(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	f.approved(t, student, hod, guide)

	evaluation, _, err := f.evaluations.Upsert(f.ctx, f.reload(t, guide), student.ID, EvaluationRequest{
		EvaluationType:    "final",
		PresentationScore: score(100),
		ContentScore:      score(100),
		ResearchScore:     score(100),
		InnovationScore:   score(100),
	})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, evaluation.OverallScore, 1e-9)
	assert.Equal(t, model.GradeB, evaluation.OverallGrade)
	assert.Zero(t, evaluation.ImplementationScore)
}

func TestEvaluationUpsert_NotAssigned(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	stranger := f.user(t, model.RoleFaculty, "Dr Iyer", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	f.approved(t, student, hod, guide)

	_, _, err := f.evaluations.Upsert(f.ctx, stranger, student.ID, EvaluationRequest{EvaluationType: "final"})
	requireKind(t, err, apperrors.KindNotFound)
	assert.Equal(t, "Student not found or not assigned to you", apperrors.As(err).Message)

	_, _, err = f.evaluations.Upsert(f.ctx, guide, stranger.ID, EvaluationRequest{EvaluationType: "final"})
	requireKind(t, err, apperrors.KindNotFound)

	_, _, err = f.evaluations.Upsert(f.ctx, guide, 999, EvaluationRequest{EvaluationType: "final"})
	requireKind(t, err, apperrors.KindNotFound)

	_, _, err = f.evaluations.Upsert(f.ctx, hod, student.ID, EvaluationRequest{EvaluationType: "final"})
	requireKind(t, err, apperrors.KindForbidden)
}

func TestEvaluationUpsert_Validation(t *testing.T) {
	f := newFixture(t)
	hod := f.user(t, model.RoleHOD, "Hod Cse", "CSE")
	guide := f.user(t, model.RoleFaculty, "Dr Rao", "CSE")
	student := f.user(t, model.RoleStudent, "Student A", "CSE")
	f.approved(t, student, hod, guide)

	_, _, err := f.evaluations.Upsert(f.ctx, guide, student.ID, EvaluationRequest{EvaluationType: "quarterly"})
	requireKind(t, err, apperrors.KindValidation)

	_, _, err = f.evaluations.Upsert(f.ctx, guide, student.ID, EvaluationRequest{EvaluationType: "final", ContentScore: score(101)})
	requireKind(t, err, apperrors.KindValidation)
}
