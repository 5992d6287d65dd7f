package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads the ENVIRONMENT VARIABLES from .env when GO_ENV is unset or development.
// A missing .env file is not an error; the process environment is used as is.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

// Supported DB_DRIVER values
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Supported STORAGE_DRIVER values
const (
	StorageLocal  = "local"
	StorageSpaces = "spaces"
)

type EnvironmentVariable struct {
	GO_ENV string
	PORT   int
	// Database Configuration
	DB_DRIVER    string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	JWT_EXPIRY time.Duration
	// Redis Configuration
	REDIS_URL string
	// Logging
	LOG_LEVEL  string
	LOG_FORMAT string
	// File storage
	STORAGE_DRIVER     string
	STORAGE_PATH       string
	STORAGE_PUBLIC_URL string
	DO_SPACES_KEY      string
	DO_SPACES_SECRET   string
	DO_SPACES_BUCKET   string
	DO_SPACES_REGION   string
	DO_SPACES_ENDPOINT string
	DO_SPACES_CDN_URL  string
	MAX_UPLOAD_SIZE_MB int
	// HTTP
	ALLOWED_ORIGINS      string
	RATE_LIMIT           int
	RATE_LIMIT_WINDOW    time.Duration
	REQUEST_TIMEOUT      time.Duration
	EXPOSE_ERROR_DETAILS bool
	// Housekeeping
	CRON_ENABLED            bool
	NOTIFICATION_RETENTION  time.Duration
	MEETING_REMINDER_WINDOW time.Duration
	// Seeding
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
	ADMIN_NAME     string
}

// Get reads the environment and applies defaults for anything unset.
func Get() (*EnvironmentVariable, error) {
	goEnv := os.Getenv("GO_ENV")

	envVariables := &EnvironmentVariable{
		GO_ENV: goEnv,
		PORT:   getInt("PORT", 8080),
		// Database
		DB_DRIVER:    strings.ToLower(getString("DB_DRIVER", DriverPostgres)),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getString("DB_HOST", "localhost"),
		DB_PORT:      getString("DB_PORT", "5432"),
		DB_SSL_MODE:  getString("DB_SSL_MODE", "disable"),
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: getString("JWT_ISSUER", "disserto-api"),
		JWT_EXPIRY: getDuration("JWT_EXPIRY", 30*24*time.Hour),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Logging
		LOG_LEVEL:  getString("LOG_LEVEL", "info"),
		LOG_FORMAT: getString("LOG_FORMAT", "json"),
		// Storage
		STORAGE_DRIVER:     strings.ToLower(getString("STORAGE_DRIVER", StorageLocal)),
		STORAGE_PATH:       getString("STORAGE_PATH", "./uploads"),
		STORAGE_PUBLIC_URL: getString("STORAGE_PUBLIC_URL", "/uploads"),
		DO_SPACES_KEY:      os.Getenv("DO_SPACES_KEY"),
		DO_SPACES_SECRET:   os.Getenv("DO_SPACES_SECRET"),
		DO_SPACES_BUCKET:   os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:   os.Getenv("DO_SPACES_REGION"),
		DO_SPACES_ENDPOINT: os.Getenv("DO_SPACES_ENDPOINT"),
		DO_SPACES_CDN_URL:  os.Getenv("DO_SPACES_CDN_URL"),
		MAX_UPLOAD_SIZE_MB: getInt("MAX_UPLOAD_SIZE_MB", 20),
		// HTTP
		ALLOWED_ORIGINS:      getString("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RATE_LIMIT:           getInt("RATE_LIMIT", 100),
		RATE_LIMIT_WINDOW:    getDuration("RATE_LIMIT_WINDOW", time.Minute),
		REQUEST_TIMEOUT:      getDuration("REQUEST_TIMEOUT", 15*time.Second),
		EXPOSE_ERROR_DETAILS: getBool("EXPOSE_ERROR_DETAILS", goEnv != "production"),
		// Housekeeping
		CRON_ENABLED:            getBool("CRON_ENABLED", true),
		NOTIFICATION_RETENTION:  getDuration("NOTIFICATION_RETENTION", 30*24*time.Hour),
		MEETING_REMINDER_WINDOW: getDuration("MEETING_REMINDER_WINDOW", 24*time.Hour),
		// Seeding
		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
		ADMIN_NAME:     getString("ADMIN_NAME", "Administrator"),
	}

	return envVariables, nil
}

// Validate reports configuration that would prevent the server from starting.
func (e *EnvironmentVariable) Validate() error {
	if e.JWT_SECRET == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	switch e.DB_DRIVER {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", e.DB_DRIVER)
	}
	switch e.STORAGE_DRIVER {
	case StorageLocal, StorageSpaces:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", e.STORAGE_DRIVER)
	}
	return nil
}

// IsProduction reports whether GO_ENV is production.
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
