package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/repository"
	"github.com/disserto/disserto-api/services/events"
	"github.com/disserto/disserto-api/utils/logger"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = 10 * time.Minute

// NotificationCleaner purges old read notifications
type NotificationCleaner interface {
	CleanupRead(ctx context.Context, retention time.Duration) (int64, error)
}

// TokenCleaner purges expired entries from the token blacklist
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

// Config holds the tunables of the housekeeping jobs
type Config struct {
	NotificationRetention time.Duration
	ReminderWindow        time.Duration
}

// Deps are the collaborators the jobs work on
type Deps struct {
	JobLogs       repository.JobLogRepository
	Meetings      repository.MeetingRepository
	Notifications NotificationCleaner
	Tokens        TokenCleaner
	Events        *events.Dispatcher
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	deps Deps
	cfg  Config
	now  func() time.Time
	log  zerolog.Logger
}

type job struct {
	name     string
	schedule string
	run      func(ctx context.Context) (string, error)
}

// NewCronManager creates a new cron manager
func NewCronManager(deps Deps, cfg Config) *CronManager {
	if cfg.NotificationRetention <= 0 {
		cfg.NotificationRetention = 30 * 24 * time.Hour
	}
	if cfg.ReminderWindow <= 0 {
		cfg.ReminderWindow = 24 * time.Hour
	}

	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		deps: deps,
		cfg:  cfg,
		now:  time.Now,
		log:  logger.With("cron"),
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	m.log.Info().Msg("starting cron jobs")

	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()

	m.log.Info().Int("jobs", len(m.cron.Entries())).Msg("cron jobs started")
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (m *CronManager) Stop() {
	m.log.Info().Msg("stopping cron jobs")
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info().Msg("cron jobs stopped")
}

func (m *CronManager) jobs() []job {
	return []job{
		// Every 15 minutes: remind both parties of meetings inside the window
		{"meeting_reminders", "0 */15 * * * *", m.SendMeetingReminders},
		// Every hour: drop blacklist entries whose tokens expired anyway
		{"cleanup_expired_tokens", "0 0 * * * *", m.CleanupExpiredTokens},
		// Daily at 2 AM: purge old read notifications
		{"cleanup_read_notifications", "0 0 2 * * *", m.CleanupReadNotifications},
	}
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	for _, j := range m.jobs() {
		j := j
		if _, err := m.cron.AddFunc(j.schedule, func() { m.execute(j) }); err != nil {
			return fmt.Errorf("failed to register job %s: %w", j.name, err)
		}
	}
	return nil
}

// Run executes the named job once, synchronously, recording it in the job log.
func (m *CronManager) Run(name string) error {
	for _, j := range m.jobs() {
		if j.name == name {
			return m.execute(j)
		}
	}
	return fmt.Errorf("unknown job %q", name)
}

func (m *CronManager) execute(j job) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	entry := m.logJobStart(ctx, j.name)
	message, err := j.run(ctx)
	if err != nil {
		m.logJobError(ctx, entry, err)
		return err
	}
	m.logJobComplete(ctx, entry, message)
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(ctx context.Context, jobName string) *model.CronJobLog {
	m.log.Info().Str("job", jobName).Msg("job started")

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.JobStatusRunning,
		StartedAt: m.now(),
	}
	if err := m.deps.JobLogs.Create(ctx, entry); err != nil {
		m.log.Warn().Err(err).Str("job", jobName).Msg("failed to record job start")
	}
	return entry
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(ctx context.Context, entry *model.CronJobLog, message string) {
	m.finish(ctx, entry, model.JobStatusCompleted)
	entry.Message = message
	m.log.Info().Str("job", entry.JobName).Int64("duration_ms", entry.Duration).Msg(message)
	m.save(ctx, entry)
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(ctx context.Context, entry *model.CronJobLog, err error) {
	m.finish(ctx, entry, model.JobStatusFailed)
	entry.ErrorMsg = err.Error()
	m.log.Error().Err(err).Str("job", entry.JobName).Msg("job failed")
	m.save(ctx, entry)
}

func (m *CronManager) finish(_ context.Context, entry *model.CronJobLog, status string) {
	completed := m.now()
	entry.Status = status
	entry.CompletedAt = &completed
	entry.Duration = completed.Sub(entry.StartedAt).Milliseconds()
}

func (m *CronManager) save(ctx context.Context, entry *model.CronJobLog) {
	if entry.ID == 0 {
		return
	}
	if err := m.deps.JobLogs.Save(ctx, entry); err != nil {
		m.log.Warn().Err(err).Str("job", entry.JobName).Msg("failed to record job result")
	}
}
