package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disserto/disserto-api/database/memory"
	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttempts struct {
	mu     sync.Mutex
	values map[string]int64
	down   error
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{values: map[string]int64{}}
}

func (f *fakeAttempts) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.values[key]
	return ok, nil
}

func (f *fakeAttempts) TTL(context.Context, string) (time.Duration, error) {
	return 90 * time.Second, nil
}

func (f *fakeAttempts) Increment(_ context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key]++
	return f.values[key], nil
}

func (f *fakeAttempts) Expire(context.Context, string, time.Duration) error { return nil }

func (f *fakeAttempts) Set(_ context.Context, key string, _ interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = 1
	return nil
}

func (f *fakeAttempts) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeAttempts) Ping(context.Context) error { return f.down }

func TestBruteForce_Ping(t *testing.T) {
	var disabled *BruteForceProtection
	enabled, err := disabled.Ping(context.Background())
	assert.False(t, enabled)
	assert.NoError(t, err)

	store := newFakeAttempts()
	bf := NewBruteForceProtection(store)
	enabled, err = bf.Ping(context.Background())
	assert.True(t, enabled)
	assert.NoError(t, err)

	store.down = assert.AnError
	enabled, err = bf.Ping(context.Background())
	assert.True(t, enabled)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBruteForce_LocksAfterFiveFailures(t *testing.T) {
	store := newFakeAttempts()
	bf := NewBruteForceProtection(store)

	var ip string
	app := fiber.New()
	app.Post("/login", bf.CheckAndRecordAttempt(), func(c *fiber.Ctx) error {
		ip = c.IP()
		bf.RecordFailedAttempt(c.UserContext(), ip)
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "90", resp.Header.Get("Retry-After"))

	bf.RecordSuccessfulAttempt(context.Background(), ip)
	resp, err = app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBruteForce_NilStoreDisabled(t *testing.T) {
	bf := NewBruteForceProtection(nil)
	app := fiber.New()
	app.Get("/", bf.CheckAndRecordAttempt(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

type authFixture struct {
	app   *fiber.App
	repos *repository.Repositories
	jwt   *auth.JWTManager
	user  *model.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repos := memory.New().Repositories()
	jwtManager := auth.NewJWTManager(auth.JWTConfig{Secret: "secret", Expiry: time.Hour})
	blacklist := auth.NewBlacklistService(repos.Tokens, repos.Users)
	mw := NewAuthMiddleware(jwtManager, blacklist, repos.Users)

	user := &model.User{Name: "Dr. Rao", Email: "rao@uni.edu", Role: model.RoleFaculty}
	require.NoError(t, repos.Users.Create(context.Background(), user))

	app := fiber.New()
	app.Get("/faculty-only", mw.Required(), RequireRole(model.RoleFaculty, model.RoleHOD), func(c *fiber.Ctx) error {
		u, _ := GetUser(c)
		return c.JSON(fiber.Map{"id": u.ID})
	})
	app.Get("/admin-only", mw.Required(), RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	return &authFixture{app: app, repos: repos, jwt: jwtManager, user: user}
}

func (f *authFixture) get(t *testing.T, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthRequired(t *testing.T) {
	f := newAuthFixture(t)
	issued, err := f.jwt.GenerateToken(f.user)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, f.get(t, "/faculty-only", ""))
	assert.Equal(t, fiber.StatusUnauthorized, f.get(t, "/faculty-only", "garbage"))
	assert.Equal(t, fiber.StatusOK, f.get(t, "/faculty-only", issued.Token))
	assert.Equal(t, fiber.StatusForbidden, f.get(t, "/admin-only", issued.Token))
}

func TestAuthRequired_RevokedAndInvalidated(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	revoked, err := f.jwt.GenerateToken(f.user)
	require.NoError(t, err)
	require.NoError(t, f.repos.Tokens.Revoke(ctx, &model.RevokedToken{JTI: revoked.JTI, ExpiresAt: revoked.ExpiresAt}))
	assert.Equal(t, fiber.StatusUnauthorized, f.get(t, "/faculty-only", revoked.Token))

	stale, err := f.jwt.GenerateToken(f.user)
	require.NoError(t, err)
	require.NoError(t, f.repos.Users.IncrementTokenVersion(ctx, f.user.ID))
	assert.Equal(t, fiber.StatusUnauthorized, f.get(t, "/faculty-only", stale.Token))
}

func TestRequireRole_ForbiddenBody(t *testing.T) {
	f := newAuthFixture(t)
	issued, err := f.jwt.GenerateToken(f.user)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+issued.Token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Role         string   `json:"role"`
				AllowedRoles []string `json:"allowedRoles"`
			} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Equal(t, "faculty", body.Error.Details.Role)
	assert.Equal(t, []string{"admin"}, body.Error.Details.AllowedRoles)
}

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	app := fiber.New()
	app.Use(RequestTimeout(time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := c.UserContext().Deadline()
		return c.JSON(fiber.Map{"deadline": ok})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["deadline"])
}

func TestAdminAuditLog_RecordsSuccessOnly(t *testing.T) {
	repos := memory.New().Repositories()
	admin := &model.User{ID: 1, Role: model.RoleAdmin}

	app := fiber.New()
	withAdmin := func(c *fiber.Ctx) error {
		c.Locals(localUser, admin)
		return c.Next()
	}
	app.Put("/users/:id", withAdmin, AdminAuditLog(repos.AuditLogs, "user:update", "user"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Delete("/users/:id", withAdmin, AdminAuditLog(repos.AuditLogs, "user:delete", "user"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	req := httptest.NewRequest("PUT", "/users/42", strings.NewReader(`{"role":"hod","password":"secret123"}`))
	req.Header.Set("Content-Type", "application/json")
	_, err := app.Test(req)
	require.NoError(t, err)

	_, err = app.Test(httptest.NewRequest("DELETE", "/users/43", nil))
	require.NoError(t, err)

	entries, err := repos.AuditLogs.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "user:update", entries[0].Action)
	assert.Equal(t, uint(42), entries[0].ResourceID)
	assert.NotContains(t, string(entries[0].Details), "password")
	assert.Contains(t, string(entries[0].Details), "hod")
}
