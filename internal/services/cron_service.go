package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages the scheduled background jobs.
type CronService struct {
	cron     *cron.Cron
	cleanup  *CleanupService
	reminder *ReminderService
	logger   *logrus.Logger
}

// NewCronService creates a new cron service
func NewCronService(cleanup *CleanupService, reminder *ReminderService, logger *logrus.Logger, loc *time.Location) *CronService {
	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))

	return &CronService{
		cron:     c,
		cleanup:  cleanup,
		reminder: reminder,
		logger:   logger,
	}
}

// Start registers and starts all scheduled jobs.
func (s *CronService) Start() error {
	// Cron format: second minute hour day month weekday

	// Cleanup hourly, on the hour
	if _, err := s.cron.AddFunc("0 0 * * * *", s.cleanupJob); err != nil {
		return fmt.Errorf("failed to schedule cleanup job: %w", err)
	}
	s.logger.Info("Scheduled: cleanup (hourly)")

	// Trip reminders daily at 6 PM, for next-day departures
	if _, err := s.cron.AddFunc("0 0 18 * * *", s.reminderJob); err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.logger.Info("Scheduled: trip reminders (daily at 18:00)")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// RunCleanupNow triggers a cleanup pass outside the schedule.
func (s *CronService) RunCleanupNow() {
	s.logger.Info("Manual cleanup triggered")
	s.cleanup.RunOnce()
}

// RunRemindersNow triggers the reminder job outside the schedule.
func (s *CronService) RunRemindersNow() {
	s.logger.Info("Manual reminder run triggered")
	s.reminder.RunOnce()
}

func (s *CronService) cleanupJob() {
	start := time.Now()
	s.cleanup.RunOnce()
	s.logger.WithField("duration", time.Since(start).String()).Debug("Cleanup job finished")
}

func (s *CronService) reminderJob() {
	start := time.Now()
	s.reminder.RunOnce()
	s.logger.WithField("duration", time.Since(start).String()).Debug("Reminder job finished")
}
