package database

import (
	"context"
	"testing"

	"github.com/disserto/disserto-api/database/memory"
	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminUser(t *testing.T) {
	auth.Cost = bcrypt.MinCost
	ctx := context.Background()
	repos := memory.New().Repositories()
	seeder := NewSeeder(repos)

	created, err := seeder.SeedAdminUser(ctx, "", "", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = seeder.SeedAdminUser(ctx, " Admin@Example.edu ", "supersecret", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	admin, err := repos.Users.FindByEmail(ctx, "admin@example.edu")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NoError(t, auth.VerifyPassword(admin.PasswordHash, "supersecret"))

	created, err = seeder.SeedAdminUser(ctx, "other@example.edu", "supersecret", "Other")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedDemoUsers(t *testing.T) {
	auth.Cost = bcrypt.MinCost
	ctx := context.Background()
	repos := memory.New().Repositories()
	seeder := NewSeeder(repos)

	n, err := seeder.SeedDemoUsers(ctx, "Computer Science", "password123")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = seeder.SeedDemoUsers(ctx, "Computer Science", "password123")
	require.NoError(t, err)
	assert.Zero(t, n)

	hods, err := repos.Users.List(ctx, repository.UserFilter{Role: model.RoleHOD})
	require.NoError(t, err)
	require.Len(t, hods, 1)
	assert.Equal(t, "hod@computerscience.example.edu", hods[0].Email)
}
