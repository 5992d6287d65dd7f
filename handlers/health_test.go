package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/disserto/disserto-api/database"
	"github.com/disserto/disserto-api/database/memory"
	"github.com/disserto/disserto-api/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCache struct {
	enabled bool
	err     error
}

func (s stubCache) Ping(context.Context) (bool, error) { return s.enabled, s.err }

type downStore struct{ *memory.Store }

func (downStore) HealthCheck() error { return errors.New("connection refused") }

func checkHealth(t *testing.T, store database.Storage, cache CacheChecker) (int, map[string]string) {
	t.Helper()
	app := fiber.New()
	app.Get("/ping", utils.MakeHTTPHandleFunc(HandleCheckHealth(cache), store))

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleCheckHealth(t *testing.T) {
	tests := []struct {
		name     string
		store    database.Storage
		cache    CacheChecker
		status   int
		database string
		cacheVal string
	}{
		{"no cache", memory.New(), nil, fiber.StatusOK, "ok", "disabled"},
		{"cache up", memory.New(), stubCache{enabled: true}, fiber.StatusOK, "ok", "ok"},
		{"cache down stays healthy", memory.New(), stubCache{enabled: true, err: errors.New("dial tcp")}, fiber.StatusOK, "ok", "error"},
		{"database down", downStore{memory.New()}, stubCache{}, fiber.StatusServiceUnavailable, "error", "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := checkHealth(t, tt.store, tt.cache)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.database, body["database"])
			assert.Equal(t, tt.cacheVal, body["cache"])
		})
	}
}
