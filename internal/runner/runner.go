// Package runner drains the capture queue against the single optical drive.
// It enforces one pipeline instance per staging root, converts queue rows
// into pipeline jobs, and records each job's outcome back into the store.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"discmapper/internal/config"
	"discmapper/internal/logging"
	"discmapper/internal/naming"
	"discmapper/internal/pipeline"
	"discmapper/internal/queue"
	"discmapper/internal/receipt"
)

// lockFileName sits under the staging root; holding it is what "one
// instance per staging root" means.
const lockFileName = ".discmapper.lock"

// ErrAlreadyRunning means another process holds the staging-root lock.
var ErrAlreadyRunning = errors.New("another discmapper instance is processing this staging root")

// JobRunner executes one capture job. Satisfied by *pipeline.Pipeline.
type JobRunner interface {
	Run(ctx context.Context, job pipeline.Job, jobDir string) (*pipeline.Report, error)
}

// Stats summarizes one run.
type Stats struct {
	Processed int
	Completed int
	Review    int
	Unable    int
	Failed    int
}

// Runner drains pending queue jobs sequentially.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *queue.Store
	jobs   JobRunner

	newRunID func() string
	now      func() time.Time
}

// New builds a runner over an open queue store and a job executor.
func New(cfg *config.Config, logger *slog.Logger, store *queue.Store, jobs JobRunner) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner: config required")
	}
	if store == nil || jobs == nil {
		return nil, errors.New("runner: queue store and job runner required")
	}
	return &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "runner"),
		store:    store,
		jobs:     jobs,
		newRunID: shortRunID,
		now:      time.Now,
	}, nil
}

func shortRunID() string {
	return uuid.NewString()[:8]
}

// Run processes pending jobs in insertion order until the queue is empty or
// a run-fatal error occurs. Per-job failures are recorded and the next job
// proceeds; a disc-wait timeout or context cancellation stops the run with
// the in-flight job rolled back to pending.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return Stats{}, err
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.StagingDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return Stats{}, fmt.Errorf("acquire staging lock: %w", err)
	}
	if !locked {
		return Stats{}, ErrAlreadyRunning
	}
	defer func() {
		_ = lock.Unlock()
	}()

	runID := r.newRunID()
	logger := r.logger.With(logging.String(logging.FieldRunID, runID))

	if reset, err := r.store.ResetStuck(ctx); err != nil {
		return Stats{}, err
	} else if reset > 0 {
		logger.Warn("rolled stuck jobs back to pending", logging.Int64("count", reset))
	}

	pending, err := r.store.List(ctx, queue.StatusPending)
	if err != nil {
		return Stats{}, err
	}
	total := len(pending)
	logger.Info("run started", logging.Int("pending", total))

	var stats Stats
	for {
		job, err := r.store.NextPending(ctx)
		if err != nil {
			return stats, err
		}
		if job == nil {
			break
		}

		stats.Processed++
		if err := r.runJob(ctx, logger, job, stats.Processed, total, &stats); err != nil {
			logger.Error("run aborted", logging.Error(err))
			return stats, err
		}
	}

	logger.Info("run finished",
		logging.Int("processed", stats.Processed),
		logging.Int("completed", stats.Completed),
		logging.Int("review", stats.Review),
		logging.Int("unable", stats.Unable),
		logging.Int("failed", stats.Failed))
	return stats, nil
}

func (r *Runner) runJob(ctx context.Context, logger *slog.Logger, job *queue.Job, position, total int, stats *Stats) error {
	jobLogger := logger.With(logging.Int64(logging.FieldJobID, job.ID), logging.String("job", job.Label()))

	pipelineJob, err := toPipelineJob(job)
	if err != nil {
		jobLogger.Error("unusable queue payload", logging.Error(err))
		return r.finishJob(ctx, job, queue.StatusFailed, "", err.Error(), stats)
	}

	job.Status = queue.StatusProcessing
	if err := r.store.Update(ctx, job); err != nil {
		return err
	}

	jobDir := r.jobDir(pipelineJob)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return r.finishJob(ctx, job, queue.StatusFailed, "", err.Error(), stats)
	}
	job.JobDir = jobDir
	if err := receipt.WriteJobCard(jobDir, r.jobCard(job, position, total)); err != nil {
		jobLogger.Warn("job card write failed", logging.Error(err))
	}

	jobLogger.Info("job started",
		logging.Int("position", position),
		logging.Int("of", total),
		logging.String("job_dir", jobDir))

	report, runErr := r.jobs.Run(ctx, pipelineJob, jobDir)
	if runErr != nil {
		// Run-fatal: roll the job back so the next run retries it.
		job.Status = queue.StatusPending
		job.ErrorMessage = runErr.Error()
		if updateErr := r.store.Update(ctx, job); updateErr != nil {
			jobLogger.Error("rollback update failed", logging.Error(updateErr))
		}
		return runErr
	}

	job.JobDir = report.JobDir
	switch report.Outcome {
	case receipt.StatusSuccess:
		return r.finishJob(ctx, job, queue.StatusCompleted, report.Reason, "", stats)
	case receipt.StatusReview:
		return r.finishJob(ctx, job, queue.StatusReview, report.Reason, "", stats)
	default:
		return r.finishJob(ctx, job, queue.StatusUnable, report.Reason, "", stats)
	}
}

func (r *Runner) finishJob(ctx context.Context, job *queue.Job, status queue.Status, reason, errorMessage string, stats *Stats) error {
	job.Status = status
	job.Reason = reason
	job.ErrorMessage = errorMessage
	switch status {
	case queue.StatusCompleted:
		stats.Completed++
	case queue.StatusReview:
		stats.Review++
	case queue.StatusUnable:
		stats.Unable++
	case queue.StatusFailed:
		stats.Failed++
	}
	return r.store.Update(ctx, job)
}

// jobDir builds a fresh raw working directory path for one capture attempt.
func (r *Runner) jobDir(job pipeline.Job) string {
	staging := r.cfg.Staging("Movies")
	if _, ok := job.(pipeline.TVJob); ok {
		staging = r.cfg.Staging("TV")
	}
	stem := strings.ReplaceAll(naming.SafeFileName(job.Label()), " ", "_")
	name := fmt.Sprintf("%s__%s_%s", stem, r.now().Format("20060102_150405"), r.newRunID())
	return filepath.Join(staging.Raw, name)
}

func (r *Runner) jobCard(job *queue.Job, position, total int) receipt.JobCard {
	card := receipt.JobCard{
		Type:         string(job.Kind),
		Year:         job.Year,
		IMDBID:       job.IMDBID,
		PackageIndex: job.PackageIndex,
		Barcode:      job.Barcode,
		QueuePos:     position,
		QueueTotal:   total,
		CreatedAt:    r.now(),
	}
	if job.Kind == queue.KindTV {
		card.Series = job.Title
		card.Season = job.Season
		card.Disc = job.Disc
	} else {
		card.Title = job.Title
	}
	return card
}

// toPipelineJob converts a queue row into the pipeline's tagged job shape.
func toPipelineJob(job *queue.Job) (pipeline.Job, error) {
	switch job.Kind {
	case queue.KindTV:
		episodes, err := job.Episodes()
		if err != nil {
			return nil, fmt.Errorf("decode episode payload: %w", err)
		}
		if len(episodes) == 0 {
			return nil, errors.New("tv job carries no expected episodes")
		}
		return pipeline.TVJob{
			Series:       job.Title,
			Season:       job.Season,
			Disc:         job.Disc,
			ShowYear:     job.Year,
			IMDBID:       job.IMDBID,
			PackageIndex: job.PackageIndex,
			Episodes:     episodes,
		}, nil
	case queue.KindMovie:
		return pipeline.MovieJob{
			Title:        job.Title,
			Year:         job.Year,
			IMDBID:       job.IMDBID,
			PackageIndex: job.PackageIndex,
			Barcode:      job.Barcode,
			Format:       job.Format,
		}, nil
	default:
		return nil, fmt.Errorf("unknown job kind %q", job.Kind)
	}
}
