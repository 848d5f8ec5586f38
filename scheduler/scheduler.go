package scheduler

import (
	"fmt"
	"time"

	"pokelookup/scheduler/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Start creates the scheduler with the log shipping job and starts it.
// The caller must Shutdown the returned scheduler.
func Start(uploader jobs.LogUploader, interval time.Duration, log *zap.Logger) (gocron.Scheduler, error) {
	// Create a new scheduler with options.
	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	// Register the log shipping job.
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(
			func() error {
				return jobs.ShipLogs(uploader, time.Now(), log)
			},
		),
		gocron.WithName("log-shipping"),
		gocron.WithTags("logs"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		s.Shutdown()
		return nil, fmt.Errorf("failed to create the log shipping job: %w", err)
	}

	s.Start()
	log.Info("scheduler started", zap.Duration("log_upload_interval", interval))

	return s, nil
}
