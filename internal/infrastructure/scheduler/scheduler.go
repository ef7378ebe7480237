// Package scheduler runs a periodic job on a fixed interval.
//
// Unlike a cron runner, cycles never overlap: a run completes before the
// interval sleep begins, so a slow cycle simply pushes the next one
// back. A failed run is logged and the loop keeps going; the only way
// out is context cancellation.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job defines the unit of work executed on each tick.
type Job interface {
	// Name returns the unique name of the job.
	Name() string

	// Run executes the job. The context is cancelled when the runner
	// is stopping.
	Run(ctx context.Context) error

	// Description returns a human-readable description of the job.
	Description() string
}

// Runner executes a single job at a fixed interval, sequentially.
type Runner struct {
	job      Job
	interval time.Duration
	logger   *slog.Logger
}

// RunnerConfig contains configuration for the Runner.
type RunnerConfig struct {
	// Interval between the end of one run and the start of the next.
	Interval time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// NewRunner creates a runner for the given job.
func NewRunner(job Job, config RunnerConfig) *Runner {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Runner{
		job:      job,
		interval: config.Interval,
		logger:   config.Logger,
	}
}

// Run executes the job immediately, then on every interval, until the
// context is cancelled. It returns the context's error.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("runner started",
		"job", r.job.Name(),
		"description", r.job.Description(),
		"interval", r.interval.String(),
	)

	timer := time.NewTimer(0) // first run is immediate
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped", "job", r.job.Name())
			return ctx.Err()
		case <-timer.C:
		}

		r.runOnce(ctx)

		// Re-arm only after the run completed: cycles never overlap.
		timer.Reset(r.interval)
	}
}

// runOnce executes a single run and logs the outcome.
func (r *Runner) runOnce(ctx context.Context) {
	startedAt := time.Now()
	r.logger.Info("job started", "job", r.job.Name())

	err := r.job.Run(ctx)
	duration := time.Since(startedAt)

	if err != nil {
		r.logger.Error("job failed",
			"job", r.job.Name(),
			"duration", duration.String(),
			"error", err,
		)
		return
	}

	r.logger.Info("job completed",
		"job", r.job.Name(),
		"duration", duration.String(),
	)
}
