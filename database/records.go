package database

import (
	"context"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"gorm.io/gorm"
)

type progressRepo struct {
	db *gorm.DB
}

func (r *progressRepo) Create(ctx context.Context, progress *model.Progress) error {
	return translate(r.db.WithContext(ctx).Create(progress).Error)
}

func (r *progressRepo) ListByProject(ctx context.Context, projectID uint) ([]model.Progress, error) {
	var updates []model.Progress
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&updates).Error
	return updates, translate(err)
}

type submissionRepo struct {
	db *gorm.DB
}

func (r *submissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	return translate(r.db.WithContext(ctx).Create(submission).Error)
}

func (r *submissionRepo) Save(ctx context.Context, submission *model.Submission) error {
	return translate(r.db.WithContext(ctx).Save(submission).Error)
}

func (r *submissionRepo) FindByID(ctx context.Context, id uint) (*model.Submission, error) {
	var submission model.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, translate(err)
	}
	return &submission, nil
}

func (r *submissionRepo) ListByProject(ctx context.Context, projectID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, translate(err)
}

type evaluationRepo struct {
	db *gorm.DB
}

func (r *evaluationRepo) Create(ctx context.Context, evaluation *model.Evaluation) error {
	return translate(r.db.WithContext(ctx).Create(evaluation).Error)
}

func (r *evaluationRepo) Save(ctx context.Context, evaluation *model.Evaluation) error {
	return translate(r.db.WithContext(ctx).Save(evaluation).Error)
}

func (r *evaluationRepo) FindByKey(ctx context.Context, studentID, evaluatorID uint, evalType model.EvaluationType) (*model.Evaluation, error) {
	var evaluation model.Evaluation
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND evaluator_id = ? AND evaluation_type = ?", studentID, evaluatorID, evalType).
		First(&evaluation).Error
	if err != nil {
		return nil, translate(err)
	}
	return &evaluation, nil
}

func (r *evaluationRepo) List(ctx context.Context, filter repository.EvaluationFilter) ([]model.Evaluation, error) {
	q := r.db.WithContext(ctx).Model(&model.Evaluation{})
	if filter.StudentID != 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.EvaluatorID != 0 {
		q = q.Where("evaluator_id = ?", filter.EvaluatorID)
	}
	if filter.ProjectID != 0 {
		q = q.Where("project_id = ?", filter.ProjectID)
	}

	var evaluations []model.Evaluation
	err := q.Order("updated_at DESC").Find(&evaluations).Error
	return evaluations, translate(err)
}
