package reminder

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/pillmate/pill-helper/internal/logger"
)

// Notifier delivers a fired reminder to the user. The bot layer implements
// it with a Telegram message.
type Notifier interface {
	Notify(title, body string) error
}

// CronScheduler is the production NotificationScheduler, backed by a cron
// runner in local time. Reminder times are wall-clock times on the user's
// device, so local time is intentional here.
type CronScheduler struct {
	cron     *cron.Cron
	notifier Notifier
}

// NewCronScheduler creates a scheduler delivering through the notifier.
func NewCronScheduler(notifier Notifier) *CronScheduler {
	return &CronScheduler{
		cron:     cron.New(),
		notifier: notifier,
	}
}

// Start begins firing scheduled jobs.
func (s *CronScheduler) Start() {
	s.cron.Start()
	logger.Info("reminder scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *CronScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("reminder scheduler stopped")
}

// ScheduleDaily registers a job firing every day at hour:minute and returns
// its handle.
func (s *CronScheduler) ScheduleDaily(hour, minute int, title, body string) (int, error) {
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.notifier.Notify(title, body); err != nil {
			logger.Errorf("failed to deliver reminder: %v", err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("failed to schedule daily job: %w", err)
	}
	return int(id), nil
}

// Cancel removes a scheduled job. Unknown handles are ignored.
func (s *CronScheduler) Cancel(id int) {
	s.cron.Remove(cron.EntryID(id))
}
