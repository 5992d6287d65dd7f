package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/disserto/disserto-api/config"
	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/utils/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type GORMStore struct {
	db    *gorm.DB
	repos *repository.Repositories
}

// StartGORM initializes a GORM connection to PostgreSQL
func StartGORM(env *config.EnvironmentVariable) (*GORMStore, error) {
	// Build DSN (Data Source Name)
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		env.DB_HOST,
		env.DB_USER_NAME,
		env.DB_PASSWORD,
		env.DB_NAME,
		env.DB_PORT,
		env.DB_SSL_MODE,
	)

	gormLogger := gormlogger.Default.LogMode(gormlogger.Warn)
	if env.IsProduction() {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		logger.Error().Err(err).Str("host", env.DB_HOST).Msg("unable to connect to PostgreSQL")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info().Str("host", env.DB_HOST).Str("database", env.DB_NAME).Msg("connected to PostgreSQL")

	return NewGORMStore(db), nil
}

// NewGORMStore wraps an already opened connection.
func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{
		db: db,
		repos: &repository.Repositories{
			Users:         &userRepo{db: db},
			Projects:      &projectRepo{db: db},
			Meetings:      &meetingRepo{db: db},
			Progress:      &progressRepo{db: db},
			Submissions:   &submissionRepo{db: db},
			Evaluations:   &evaluationRepo{db: db},
			Notifications: &notificationRepo{db: db},
			AuditLogs:     &auditLogRepo{db: db},
			Tokens:        &tokenRepo{db: db},
			JobLogs:       &jobLogRepo{db: db},
		},
	}
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	logger.Info().Msg("running GORM AutoMigrate")

	err := s.db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Meeting{},
		&model.Progress{},
		&model.Submission{},
		&model.Evaluation{},
		&model.Notification{},
		&model.AuditLog{},
		&model.RevokedToken{},
		&model.CronJobLog{},
	)
	if err != nil {
		logger.Error().Err(err).Msg("AutoMigrate failed")
		return err
	}

	// older schemas reserved the address of soft-deleted users
	if s.db.Migrator().HasIndex(&model.User{}, "idx_users_email") {
		if err := s.db.Migrator().DropIndex(&model.User{}, "idx_users_email"); err != nil {
			logger.Error().Err(err).Msg("failed to drop legacy email index")
			return err
		}
	}

	logger.Info().Msg("GORM AutoMigrate completed")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	logger.Info().Msg("closing PostgreSQL connection")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Repositories returns the gorm-backed repositories
func (s *GORMStore) Repositories() *repository.Repositories {
	return s.repos
}

// translate maps gorm errors onto repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	}
	return err
}

func applyPage(q *gorm.DB, limit, offset int) *gorm.DB {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

// whereDepartment matches either the canonical or the legacy column.
func whereDepartment(q *gorm.DB, keys []string) *gorm.DB {
	normalized := model.DepartmentKeys(keys...)
	if len(normalized) == 0 {
		return q
	}
	return q.Where("(LOWER(TRIM(department)) IN ? OR LOWER(TRIM(branch)) IN ?)", normalized, normalized)
}
