package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/disserto/disserto-api/database/memory"
	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/services/events"
	"github.com/disserto/disserto-api/services/storage"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.Cost = bcrypt.MinCost
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	repos *repository.Repositories
	files *storage.LocalStorage

	projects      *ProjectService
	meetings      *MeetingService
	evaluations   *EvaluationService
	notifications *NotificationService
	users         *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	repos := store.Repositories()
	files, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	authorizer := authz.NewAuthorizer(authz.NewAuditHook(repos.AuditLogs))
	notifications := NewNotificationService(repos.Notifications, authorizer)
	dispatcher := events.NewDispatcher(notifications)

	return &fixture{
		ctx:           context.Background(),
		store:         store,
		repos:         repos,
		files:         files,
		projects:      NewProjectService(repos, authorizer, dispatcher, files),
		meetings:      NewMeetingService(repos, authorizer, dispatcher),
		evaluations:   NewEvaluationService(repos, authorizer, dispatcher),
		notifications: notifications,
		users:         NewUserService(repos, authorizer),
	}
}

// user creates a user with the given role and department.
func (f *fixture) user(t *testing.T, role model.Role, name, department string) *model.User {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	u := &model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.edu", strings.ToLower(strings.ReplaceAll(name, " ", "."))),
		PasswordHash: hash,
		Role:         role,
		Department:   department,
	}
	if role == model.RoleStudent {
		u.Course = "M.Tech"
	}
	require.NoError(t, f.repos.Users.Create(f.ctx, u))
	return u
}

// reload returns the stored version of u.
func (f *fixture) reload(t *testing.T, u *model.User) *model.User {
	t.Helper()
	fresh, err := f.repos.Users.FindByID(f.ctx, u.ID)
	require.NoError(t, err)
	return fresh
}

func (f *fixture) inbox(t *testing.T, userID uint) []model.Notification {
	t.Helper()
	items, _, err := f.repos.Notifications.List(f.ctx, repository.NotificationFilter{RecipientID: userID})
	require.NoError(t, err)
	return items
}

func (f *fixture) proposal(t *testing.T, student *model.User) *model.Project {
	t.Helper()
	p, err := f.projects.SubmitProposal(f.ctx, student, ProposalRequest{
		Title:            "Adaptive caching for edge networks",
		Description:      "d",
		ProblemStatement: "p",
		ExpectedOutcome:  "o",
		Technologies:     StringList{"Go"},
		Department:       student.Department,
	})
	require.NoError(t, err)
	return p
}

// approved returns a project approved by hod with guide assigned.
func (f *fixture) approved(t *testing.T, student, hod, guide *model.User) *model.Project {
	t.Helper()
	p := f.proposal(t, student)
	p, err := f.projects.UpdateStatus(f.ctx, hod, p.ID, StatusUpdateRequest{Status: "approved", GuideID: &guide.ID})
	require.NoError(t, err)
	return p
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, apperrors.IsKind(err, kind), "expected %s, got %v", kind.Code(), err)
}
