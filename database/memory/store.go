// Package memory is an in-process implementation of the repositories, used by
// tests and by DB_DRIVER=memory for local development.
package memory

import (
	"sync"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
)

// Store keeps every table in maps guarded by a single lock.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	seq map[string]uint

	users         map[uint]model.User
	projects      map[uint]model.Project
	meetings      map[uint]model.Meeting
	progress      map[uint]model.Progress
	submissions   map[uint]model.Submission
	evaluations   map[uint]model.Evaluation
	notifications map[uint]model.Notification
	auditLogs     map[uint]model.AuditLog
	tokens        map[uint]model.RevokedToken
	jobLogs       map[uint]model.CronJobLog

	repos *repository.Repositories
}

// New returns an empty store.
func New() *Store {
	s := &Store{
		now:           time.Now,
		seq:           make(map[string]uint),
		users:         make(map[uint]model.User),
		projects:      make(map[uint]model.Project),
		meetings:      make(map[uint]model.Meeting),
		progress:      make(map[uint]model.Progress),
		submissions:   make(map[uint]model.Submission),
		evaluations:   make(map[uint]model.Evaluation),
		notifications: make(map[uint]model.Notification),
		auditLogs:     make(map[uint]model.AuditLog),
		tokens:        make(map[uint]model.RevokedToken),
		jobLogs:       make(map[uint]model.CronJobLog),
	}
	s.repos = &repository.Repositories{
		Users:         &userRepo{s},
		Projects:      &projectRepo{s},
		Meetings:      &meetingRepo{s},
		Progress:      &progressRepo{s},
		Submissions:   &submissionRepo{s},
		Evaluations:   &evaluationRepo{s},
		Notifications: &notificationRepo{s},
		AuditLogs:     &auditLogRepo{s},
		Tokens:        &tokenRepo{s},
		JobLogs:       &jobLogRepo{s},
	}
	return s
}

// SetClock overrides the time source used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Init() error        { return nil }
func (s *Store) Close() error       { return nil }
func (s *Store) HealthCheck() error { return nil }

// Repositories returns the in-memory repositories
func (s *Store) Repositories() *repository.Repositories {
	return s.repos
}

// next hands out the next id for table. Callers hold the write lock.
func (s *Store) next(table string) uint {
	s.seq[table]++
	return s.seq[table]
}

func matchesDepartment(filter []string, department, branch string) bool {
	keys := model.DepartmentKeys(filter...)
	if len(keys) == 0 {
		return true
	}
	for _, have := range model.DepartmentKeys(department, branch) {
		for _, want := range keys {
			if have == want {
				return true
			}
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsUint(list []uint, v uint) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
