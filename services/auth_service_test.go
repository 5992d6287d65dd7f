package services

import (
	"context"
	"testing"
	"time"

	"github.com/disserto/disserto-api/database/memory"
	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *repository.Repositories, *auth.JWTManager, *auth.BlacklistService) {
	t.Helper()
	repos := memory.New().Repositories()
	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "disserto-test"})
	blacklist := auth.NewBlacklistService(repos.Tokens, repos.Users)
	return NewAuthService(repos.Users, jwtManager, blacklist), repos, jwtManager, blacklist
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, jwtManager, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{
		Name:     "Student A",
		Email:    " Student.A@Example.EDU ",
		Password: "password123",
		Role:     "student",
		Branch:   "CSE",
		Course:   "M.Tech",
	})
	require.NoError(t, err)
	assert.Equal(t, "student.a@example.edu", result.User.Email)
	assert.Equal(t, "CSE", result.User.Department)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	claims, err := jwtManager.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, model.RoleStudent, claims.Role)

	login, err := svc.Login(ctx, LoginRequest{Email: "STUDENT.A@example.edu", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "student.a@example.edu", Password: "wrongpass1"})
	requireKind(t, err, apperrors.KindUnauthorized)
	assert.Equal(t, "Invalid email or password", apperrors.As(err).Message)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.edu", Password: "password123"})
	requireKind(t, err, apperrors.KindUnauthorized)
}

func TestRegister_Rejections(t *testing.T) {
	svc, _, _, _ := newAuthService(t)
	ctx := context.Background()

	base := RegisterRequest{Name: "Dr Rao", Email: "rao@example.edu", Password: "password123", Role: "faculty"}
	_, err := svc.Register(ctx, base)
	require.NoError(t, err)

	_, err = svc.Register(ctx, base)
	requireKind(t, err, apperrors.KindDuplicate)

	admin := base
	admin.Email = "root@example.edu"
	admin.Role = "admin"
	_, err = svc.Register(ctx, admin)
	requireKind(t, err, apperrors.KindValidation)

	weak := base
	weak.Email = "weak@example.edu"
	weak.Password = "12345678"
	_, err = svc.Register(ctx, weak)
	requireKind(t, err, apperrors.KindValidation)

	hod := base
	hod.Email = "hod@example.edu"
	hod.Role = "hod"
	_, err = svc.Register(ctx, hod)
	requireKind(t, err, apperrors.KindValidation)

	student := base
	student.Email = "s@example.edu"
	student.Role = "student"
	student.Department = "CSE"
	_, err = svc.Register(ctx, student)
	requireKind(t, err, apperrors.KindValidation)
	assert.Contains(t, apperrors.As(err).Details, "course")
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, _, jwtManager, blacklist := newAuthService(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{Name: "Dr Rao", Email: "rao@example.edu", Password: "password123", Role: "faculty"})
	require.NoError(t, err)
	claims, err := jwtManager.ValidateToken(result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	revoked, err := blacklist.IsTokenRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	// a second logout with the same token is harmless
	require.NoError(t, svc.Logout(ctx, claims))

	requireKind(t, svc.Logout(ctx, nil), apperrors.KindUnauthorized)
}
