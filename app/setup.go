package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disserto/disserto-api/api"
	"github.com/disserto/disserto-api/config"
	"github.com/disserto/disserto-api/database"
	"github.com/disserto/disserto-api/database/memory"
	"github.com/disserto/disserto-api/router"
	"github.com/disserto/disserto-api/services/cron"
	"github.com/disserto/disserto-api/services/storage"
	"github.com/disserto/disserto-api/utils/auth"
	"github.com/disserto/disserto-api/utils/cache"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/disserto/disserto-api/utils/middleware"
	"github.com/disserto/disserto-api/utils/response"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}
	if err := env.Validate(); err != nil {
		return err
	}

	logger.Configure(logger.Config{
		Level:  env.LOG_LEVEL,
		Pretty: env.LOG_FORMAT == "console",
	})
	response.Configure(env.EXPOSE_ERROR_DETAILS)

	store, err := OpenStore(env)
	if err != nil {
		return err
	}

	files, err := OpenFileStorage(env)
	if err != nil {
		store.Close()
		return err
	}

	// Redis is optional; without it login attempts are not throttled
	var bruteForce *middleware.BruteForceProtection
	var redisCache *cache.RedisCache
	if env.REDIS_URL != "" {
		redisCache, err = cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, brute force protection disabled")
		} else {
			bruteForce = middleware.NewBruteForceProtection(redisCache)
		}
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Expiry: env.JWT_EXPIRY,
		Issuer: env.JWT_ISSUER,
	})
	svc := router.NewServices(store, files, jwtManager)

	var cronManager *cron.CronManager
	if env.CRON_ENABLED {
		cronManager = cron.NewCronManager(cron.Deps{
			JobLogs:       svc.Repos.JobLogs,
			Meetings:      svc.Repos.Meetings,
			Notifications: svc.Notifications,
			Tokens:        svc.Blacklist,
			Events:        svc.Events,
		}, cron.Config{
			NotificationRetention: env.NOTIFICATION_RETENTION,
			ReminderWindow:        env.MEETING_REMINDER_WINDOW,
		})
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			logger.Warn().Err(err).Msg("failed to start cron jobs")
			cronManager = nil
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	bodyLimit := (env.MAX_UPLOAD_SIZE_MB + 5) * 1024 * 1024
	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), bodyLimit)
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT,
		RateLimitWindow:   env.RATE_LIMIT_WINDOW,
		RequestTimeout:    env.REQUEST_TIMEOUT,
		AccessLog:         !env.IsProduction(),
	})
	router.SetupRoutes(app, store, svc, bruteForce)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	return server.Run()
}

// OpenStore connects the configured database driver and runs migrations.
func OpenStore(env *config.EnvironmentVariable) (database.Storage, error) {
	if env.DB_DRIVER == config.DriverMemory {
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	store, err := database.StartGORM(env)
	if err != nil {
		logger.Error().Str("host", env.DB_HOST).Msg("check whether PostgreSQL is running")
		return nil, err
	}
	if err := store.Init(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// OpenFileStorage returns the configured backend for uploaded files.
func OpenFileStorage(env *config.EnvironmentVariable) (storage.FileStorage, error) {
	if env.STORAGE_DRIVER == config.StorageSpaces {
		return storage.NewSpacesStorage(storage.SpacesConfig{
			AccessKey: env.DO_SPACES_KEY,
			SecretKey: env.DO_SPACES_SECRET,
			Bucket:    env.DO_SPACES_BUCKET,
			Region:    env.DO_SPACES_REGION,
			Endpoint:  env.DO_SPACES_ENDPOINT,
			CDNURL:    env.DO_SPACES_CDN_URL,
		})
	}
	return storage.NewLocalStorage(env.STORAGE_PATH, env.STORAGE_PUBLIC_URL)
}
