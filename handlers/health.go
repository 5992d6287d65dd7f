package handlers

import (
	"context"

	"github.com/disserto/disserto-api/database"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/gofiber/fiber/v2"
)

// CacheChecker reports on the optional redis cache
type CacheChecker interface {
	Ping(ctx context.Context) (enabled bool, err error)
}

// HandleCheckHealth reports liveness, whether the database answers and the
// state of the cache. Only a database failure makes the service unhealthy.
func HandleCheckHealth(cache CacheChecker) func(c *fiber.Ctx, store database.Storage) error {
	return func(c *fiber.Ctx, store database.Storage) error {
		status := fiber.Map{"status": "ok", "database": "ok", "cache": "disabled"}

		if cache != nil {
			enabled, err := cache.Ping(c.UserContext())
			switch {
			case err != nil:
				logger.Warn().Err(err).Msg("health check: cache unavailable")
				status["cache"] = "error"
			case enabled:
				status["cache"] = "ok"
			}
		}

		if err := store.HealthCheck(); err != nil {
			logger.Warn().Err(err).Msg("health check: database unavailable")
			status["database"] = "error"
			return c.Status(fiber.StatusServiceUnavailable).JSON(status)
		}
		return c.JSON(status)
	}
}
