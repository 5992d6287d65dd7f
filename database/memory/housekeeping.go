package memory

import (
	"context"
	"sort"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
)

type auditLogRepo struct {
	s *Store
}

func (r *auditLogRepo) Create(_ context.Context, entry *model.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = r.s.next("audit_logs")
	entry.CreatedAt = r.s.now()
	r.s.auditLogs[entry.ID] = *entry
	return nil
}

func (r *auditLogRepo) List(_ context.Context, limit, offset int) ([]model.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := make([]model.AuditLog, 0, len(r.s.auditLogs))
	for _, e := range r.s.auditLogs {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return page(entries, limit, offset), nil
}

type tokenRepo struct {
	s *Store
}

func (r *tokenRepo) Revoke(_ context.Context, token *model.RevokedToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, t := range r.s.tokens {
		if t.JTI == token.JTI {
			return repository.ErrDuplicate
		}
	}
	token.ID = r.s.next("revoked_tokens")
	token.CreatedAt = r.s.now()
	r.s.tokens[token.ID] = *token
	return nil
}

func (r *tokenRepo) IsRevoked(_ context.Context, jti string, now time.Time) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tokens {
		if t.JTI == jti && t.ExpiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *tokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for id, t := range r.s.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.s.tokens, id)
			count++
		}
	}
	return count, nil
}

type jobLogRepo struct {
	s *Store
}

func (r *jobLogRepo) Create(_ context.Context, entry *model.CronJobLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = r.s.next("cron_job_logs")
	entry.CreatedAt = r.s.now()
	r.s.jobLogs[entry.ID] = *entry
	return nil
}

func (r *jobLogRepo) Save(_ context.Context, entry *model.CronJobLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.jobLogs[entry.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.jobLogs[entry.ID] = *entry
	return nil
}

func (r *jobLogRepo) List(_ context.Context, jobName string, limit int) ([]model.CronJobLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	entries := []model.CronJobLog{}
	for _, e := range r.s.jobLogs {
		if jobName != "" && e.JobName != jobName {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return page(entries, limit, 0), nil
}
