package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/lib/pq"
)

type userRepo struct {
	s *Store
}

func cloneUser(u model.User) model.User {
	if u.AssignedStudents != nil {
		u.AssignedStudents = append(pq.Int64Array(nil), u.AssignedStudents...)
	}
	if u.AssignedGuideID != nil {
		id := *u.AssignedGuideID
		u.AssignedGuideID = &id
	}
	return u
}

func (r *userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.s.users {
		if existing.Email == user.Email && !existing.DeletedAt.Valid {
			return repository.ErrDuplicate
		}
	}
	now := r.s.now()
	user.ID = r.s.next("users")
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepo) Save(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok || existing.DeletedAt.Valid {
		return repository.ErrNotFound
	}
	for id, other := range r.s.users {
		if id != user.ID && other.Email == user.Email && !other.DeletedAt.Valid {
			return repository.ErrDuplicate
		}
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = cloneUser(*user)
	return nil
}

func (r *userRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok || user.DeletedAt.Valid {
		return repository.ErrNotFound
	}
	user.DeletedAt.Time = r.s.now()
	user.DeletedAt.Valid = true
	r.s.users[id] = user
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok || user.DeletedAt.Valid {
		return nil, repository.ErrNotFound
	}
	out := cloneUser(user)
	return &out, nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.s.users {
		if user.Email == email && !user.DeletedAt.Valid {
			out := cloneUser(user)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []model.User{}
	for _, user := range r.s.users {
		if user.DeletedAt.Valid {
			continue
		}
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if len(filter.IDs) > 0 && !containsUint(filter.IDs, user.ID) {
			continue
		}
		if !matchesDepartment(filter.Departments, user.Department, user.Branch) {
			continue
		}
		users = append(users, cloneUser(user))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return page(users, filter.Limit, filter.Offset), nil
}

func (r *userRepo) IncrementTokenVersion(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok || user.DeletedAt.Valid {
		return repository.ErrNotFound
	}
	user.TokenVersion++
	r.s.users[id] = user
	return nil
}
