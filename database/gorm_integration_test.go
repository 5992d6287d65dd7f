package database

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/disserto/disserto-api/config"
	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openIntegrationStore(t *testing.T) *GORMStore {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	require.NoError(t, config.LoadENV())
	env, err := config.Get()
	require.NoError(t, err)

	store, err := StartGORM(env)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGORMStore_UsersAndProjects(t *testing.T) {
	store := openIntegrationStore(t)
	repos := store.Repositories()
	ctx := context.Background()
	suffix := time.Now().UnixNano()
	department := fmt.Sprintf("Integration %d", suffix)

	student := &model.User{
		Name:         "Integration Student",
		Email:        fmt.Sprintf("student-%d@example.edu", suffix),
		PasswordHash: "x",
		Role:         model.RoleStudent,
		Department:   department,
		Course:       "M.Tech",
	}
	require.NoError(t, repos.Users.Create(ctx, student))

	dup := *student
	dup.ID = 0
	assert.ErrorIs(t, repos.Users.Create(ctx, &dup), repository.ErrDuplicate)

	found, err := repos.Users.FindByEmail(ctx, student.Email)
	require.NoError(t, err)
	assert.Equal(t, student.ID, found.ID)

	project := &model.Project{
		Title:            "Integration project",
		Description:      "d",
		ProblemStatement: "p",
		ExpectedOutcome:  "o",
		Technologies:     []string{"Go"},
		Department:       department,
		StudentID:        student.ID,
		Status:           model.ProjectStatusPending,
		LastUpdated:      time.Now(),
	}
	require.NoError(t, repos.Projects.Create(ctx, project))

	projects, err := repos.Projects.List(ctx, repository.ProjectFilter{Departments: []string{department}})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, []string{"Go"}, []string(projects[0].Technologies))

	require.NoError(t, repos.Users.Delete(ctx, student.ID))
	_, err = repos.Users.FindByID(ctx, student.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, repos.Projects.Delete(ctx, project.ID))

	// the partial unique index lets the address register again
	returning := *student
	returning.ID = 0
	returning.DeletedAt = gorm.DeletedAt{}
	require.NoError(t, repos.Users.Create(ctx, &returning))
	assert.NotEqual(t, student.ID, returning.ID)
	require.NoError(t, repos.Users.Delete(ctx, returning.ID))
}

func TestGORMStore_Notifications(t *testing.T) {
	store := openIntegrationStore(t)
	repos := store.Repositories()
	ctx := context.Background()
	recipient := uint(time.Now().UnixNano() % 1_000_000_000)

	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Notifications.Create(ctx, &model.Notification{
			RecipientID: recipient,
			Title:       fmt.Sprintf("n%d", i),
			Type:        model.NotificationProposalSubmitted,
		}))
	}

	count, err := repos.Notifications.CountUnread(ctx, recipient)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	items, total, err := repos.Notifications.List(ctx, repository.NotificationFilter{RecipientID: recipient, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)

	n, err := repos.Notifications.MarkAllRead(ctx, recipient)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	n, err = repos.Notifications.DeleteAll(ctx, recipient)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
