package database

import (
	"context"
	"time"

	"github.com/disserto/disserto-api/model"
	"gorm.io/gorm"
)

type auditLogRepo struct {
	db *gorm.DB
}

func (r *auditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *auditLogRepo) List(ctx context.Context, limit, offset int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	q := applyPage(r.db.WithContext(ctx).Model(&model.AuditLog{}), limit, offset)
	err := q.Order("created_at DESC").Find(&entries).Error
	return entries, translate(err)
}

type tokenRepo struct {
	db *gorm.DB
}

func (r *tokenRepo) Revoke(ctx context.Context, token *model.RevokedToken) error {
	return translate(r.db.WithContext(ctx).Create(token).Error)
}

func (r *tokenRepo) IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RevokedToken{}).
		Where("jti = ? AND expires_at > ?", jti, now).
		Count(&count).
		Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *tokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&model.RevokedToken{})
	return result.RowsAffected, translate(result.Error)
}

type jobLogRepo struct {
	db *gorm.DB
}

func (r *jobLogRepo) Create(ctx context.Context, entry *model.CronJobLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *jobLogRepo) Save(ctx context.Context, entry *model.CronJobLog) error {
	return translate(r.db.WithContext(ctx).Save(entry).Error)
}

func (r *jobLogRepo) List(ctx context.Context, jobName string, limit int) ([]model.CronJobLog, error) {
	q := r.db.WithContext(ctx).Model(&model.CronJobLog{})
	if jobName != "" {
		q = q.Where("job_name = ?", jobName)
	}
	var entries []model.CronJobLog
	err := applyPage(q, limit, 0).Order("started_at DESC").Find(&entries).Error
	return entries, translate(err)
}
