// Package worker runs the periodic background jobs of the server.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"harbor-control/internal/dto"
)

// Sweeper is the part of the lifecycle service the archiver drives.
type Sweeper interface {
	ArchiveExpired(ctx context.Context) (*dto.ArchiveSummary, error)
}

// Archiver archives expired pending deletions on a fixed interval. The job
// runs in singleton mode, so sweeps never overlap.
type Archiver struct {
	sweeper   Sweeper
	interval  time.Duration
	scheduler gocron.Scheduler
	logger    *zap.Logger
}

// NewArchiver creates an Archiver. Nothing runs until Run.
func NewArchiver(sweeper Sweeper, interval time.Duration, logger *zap.Logger) (*Archiver, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("archive interval must be positive, got %s", interval)
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Archiver{sweeper: sweeper, interval: interval, scheduler: scheduler, logger: logger}, nil
}

// Run schedules the sweep, runs one immediately, and blocks until ctx is done.
func (a *Archiver) Run(ctx context.Context) error {
	_, err := a.scheduler.NewJob(
		gocron.DurationJob(a.interval),
		gocron.NewTask(func() { a.Sweep(ctx) }),
		gocron.WithName("auto-archive"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule auto-archive: %w", err)
	}

	a.logger.Info("auto-archive scheduled", zap.Duration("interval", a.interval))
	a.scheduler.Start()

	<-ctx.Done()

	return a.scheduler.Shutdown()
}

// Sweep runs one pass. The sweeper logs the outcome; only a failed pass is
// logged here.
func (a *Archiver) Sweep(ctx context.Context) *dto.ArchiveSummary {
	summary, err := a.sweeper.ArchiveExpired(ctx)
	if err != nil {
		a.logger.Error("auto-archive sweep failed", zap.Error(err))
		return nil
	}
	return summary
}
