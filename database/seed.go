package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/disserto/disserto-api/utils/logger"
)

// Seeder handles database seeding operations
type Seeder struct {
	users repository.UserRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(repos *repository.Repositories) *Seeder {
	return &Seeder{users: repos.Users}
}

// SeedAdminUser creates the admin account. Admins cannot register through
// the API, so this is the only way to bootstrap one. It is a no-op when an
// admin already exists or when email or password is empty.
func (s *Seeder) SeedAdminUser(ctx context.Context, email, password, name string) (bool, error) {
	admins, err := s.users.List(ctx, repository.UserFilter{Role: model.RoleAdmin, Limit: 1})
	if err != nil {
		return false, err
	}
	if len(admins) > 0 {
		logger.Info().Str("email", admins[0].Email).Msg("admin user already exists, skipping")
		return false, nil
	}

	if email == "" || password == "" {
		logger.Warn().Msg("ADMIN_EMAIL and ADMIN_PASSWORD not set, skipping admin user creation")
		return false, nil
	}

	return s.create(ctx, &model.User{
		Email: email,
		Name:  name,
		Role:  model.RoleAdmin,
	}, password)
}

// SeedDemoUsers creates an HOD, a faculty member and a student in one
// department so a fresh development database can be exercised end to end.
// Existing emails are left untouched.
func (s *Seeder) SeedDemoUsers(ctx context.Context, department, password string) (int, error) {
	domain := strings.ToLower(strings.ReplaceAll(department, " ", "")) + ".example.edu"
	demo := []model.User{
		{Name: "Head of Department", Email: "hod@" + domain, Role: model.RoleHOD, Department: department},
		{Name: "Faculty Guide", Email: "faculty@" + domain, Role: model.RoleFaculty, Department: department},
		{Name: "Demo Student", Email: "student@" + domain, Role: model.RoleStudent, Department: department, Course: "M.Tech"},
	}

	created := 0
	for i := range demo {
		ok, err := s.create(ctx, &demo[i], password)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *Seeder) create(ctx context.Context, user *model.User, password string) (bool, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	_, err := s.users.FindByEmail(ctx, user.Email)
	if err == nil {
		logger.Info().Str("email", user.Email).Msg("user already exists, skipping")
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return false, err
	}
	logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("created user")
	return true, nil
}
