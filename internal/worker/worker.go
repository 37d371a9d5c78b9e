// Package worker runs the arena's background jobs on a gocron scheduler:
// settling completed rooms and pruning the checkpoint archive.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/KirkDiggler/undead-arena/internal/checkpoint"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/settlement"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
)

// Config holds the worker dependencies and schedule
type Config struct {
	Settlement settlement.Service
	// Archive is optional; without it no prune job is scheduled
	Archive checkpoint.Archive
	Clock   clock.Clock

	SweepInterval time.Duration
	// SweepLimit caps rooms settled per sweep; zero settles all pending
	SweepLimit int

	PruneInterval    time.Duration
	ArchiveRetention time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Settlement == nil {
		vb.RequiredField("Settlement")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	errors.ValidatePositive("SweepInterval", c.SweepInterval, vb)
	errors.ValidateNonNegative("SweepLimit", c.SweepLimit, vb)
	if c.Archive != nil {
		errors.ValidatePositive("PruneInterval", c.PruneInterval, vb)
		errors.ValidatePositive("ArchiveRetention", c.ArchiveRetention, vb)
	}
	return vb.Build()
}

// Worker owns the scheduler
type Worker struct {
	cfg       Config
	scheduler gocron.Scheduler
}

// New creates a Worker. Jobs do not run until Start.
func New(cfg *Config) (*Worker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Worker{cfg: *cfg}, nil
}

// Start schedules the jobs and starts the scheduler. Jobs run once right
// away and then on their interval; a job never overlaps itself.
func (w *Worker) Start(ctx context.Context) error {
	if w.scheduler != nil {
		return errors.FailedPrecondition("worker already started")
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return errors.Wrap(err, "failed to create scheduler")
	}

	_, err = sched.NewJob(
		gocron.DurationJob(w.cfg.SweepInterval),
		gocron.NewTask(func() {
			if _, err := w.Sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "settlement sweep failed", "error", err.Error())
			}
		}),
		gocron.WithName("settlement-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return errors.Wrap(err, "failed to schedule settlement sweep")
	}

	if w.cfg.Archive != nil {
		_, err = sched.NewJob(
			gocron.DurationJob(w.cfg.PruneInterval),
			gocron.NewTask(func() {
				if _, err := w.Prune(ctx); err != nil {
					slog.ErrorContext(ctx, "archive prune failed", "error", err.Error())
				}
			}),
			gocron.WithName("archive-prune"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			_ = sched.Shutdown()
			return errors.Wrap(err, "failed to schedule archive prune")
		}
	}

	sched.Start()
	w.scheduler = sched

	slog.InfoContext(ctx, "worker started",
		"sweep_interval", w.cfg.SweepInterval.String(),
		"sweep_limit", w.cfg.SweepLimit,
		"archive", w.cfg.Archive != nil)

	return nil
}

// Stop shuts the scheduler down, waiting for running jobs
func (w *Worker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	err := w.scheduler.Shutdown()
	w.scheduler = nil
	if err != nil {
		return errors.Wrap(err, "failed to stop scheduler")
	}
	return nil
}

// Sweep settles pending rooms once
func (w *Worker) Sweep(ctx context.Context) (*settlement.SettlePendingOutput, error) {
	out, err := w.cfg.Settlement.SettlePending(ctx, &settlement.SettlePendingInput{Limit: w.cfg.SweepLimit})
	if err != nil {
		return nil, err
	}

	if len(out.Settled) > 0 || len(out.Failed) > 0 {
		slog.InfoContext(ctx, "settlement sweep",
			"settled", len(out.Settled),
			"failed", len(out.Failed))
	}
	return out, nil
}

// Prune deletes archived checkpoints older than the retention window. It is
// a no-op without an archive.
func (w *Worker) Prune(ctx context.Context) (*checkpoint.PruneOutput, error) {
	if w.cfg.Archive == nil {
		return &checkpoint.PruneOutput{}, nil
	}

	cutoff := w.cfg.Clock.Now().Add(-w.cfg.ArchiveRetention).Unix()
	out, err := w.cfg.Archive.Prune(ctx, checkpoint.PruneInput{Before: cutoff})
	if err != nil {
		return nil, err
	}

	if out.Deleted > 0 {
		slog.InfoContext(ctx, "archive pruned",
			"deleted", out.Deleted,
			"cutoff", cutoff)
	}
	return out, nil
}
