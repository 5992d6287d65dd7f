package database

import (
	"context"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"gorm.io/gorm"
)

type projectRepo struct {
	db *gorm.DB
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return translate(r.db.WithContext(ctx).Create(project).Error)
}

func (r *projectRepo) Save(ctx context.Context, project *model.Project) error {
	return translate(r.db.WithContext(ctx).Save(project).Error)
}

func (r *projectRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Project{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *projectRepo) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *projectRepo) List(ctx context.Context, filter repository.ProjectFilter) ([]model.Project, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{})
	if filter.StudentID != 0 {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.GuideID != 0 {
		q = q.Where("guide_id = ?", filter.GuideID)
	}
	if filter.PanelMemberID != 0 {
		q = q.Where("? = ANY(panel_members)", int64(filter.PanelMemberID))
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	q = whereDepartment(q, filter.Departments)
	q = applyPage(q, filter.Limit, filter.Offset)

	var projects []model.Project
	if err := q.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, translate(err)
	}
	return projects, nil
}
