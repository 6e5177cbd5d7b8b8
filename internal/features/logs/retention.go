package logs

import (
	"context"
	"fmt"
	"time"

	"go-docflow/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RetentionJob runs LogService.Cleanup on a cron schedule
type RetentionJob struct {
	Service   LogService
	Schedule  string
	Logger    *zap.Logger
	scheduler *cron.Cron
}

func NewRetentionJob(service LogService, cfg *config.Config, logger *zap.Logger) *RetentionJob {
	return &RetentionJob{
		Service:  service,
		Schedule: cfg.LogCleanupSchedule,
		Logger:   logger,
	}
}

func (j *RetentionJob) Start() error {
	if _, err := cron.ParseStandard(j.Schedule); err != nil {
		return fmt.Errorf("invalid log cleanup schedule %q: %w", j.Schedule, err)
	}

	j.scheduler = cron.New()
	if _, err := j.scheduler.AddFunc(j.Schedule, j.run); err != nil {
		return fmt.Errorf("failed to schedule log cleanup: %w", err)
	}
	j.scheduler.Start()
	j.Logger.Info("Log retention scheduled", zap.String("schedule", j.Schedule))
	return nil
}

func (j *RetentionJob) Stop() {
	if j.scheduler != nil {
		ctx := j.scheduler.Stop()
		<-ctx.Done()
	}
}

func (j *RetentionJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := j.Service.Cleanup(ctx); err != nil {
		j.Logger.Error("Log retention cleanup failed", zap.Error(err))
	}
}

func RegisterRetentionJob(lc fx.Lifecycle, job *RetentionJob) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return job.Start()
		},
		OnStop: func(ctx context.Context) error {
			job.Stop()
			return nil
		},
	})
}
