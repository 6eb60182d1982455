// Package pipeline drives one disc capture from "waiting for media" to a
// committed, auditable result. It is a synchronous sequential state machine:
// one drive, one active job, every transition recorded. Jobs that cannot be
// safely auto-committed are quarantined with a receipt instead of reaching
// the library half-classified.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"discmapper/internal/classify"
	"discmapper/internal/config"
	"discmapper/internal/fileutil"
	"discmapper/internal/logging"
	"discmapper/internal/makemkv"
	"discmapper/internal/receipt"
)

const (
	moveRetries   = 25
	moveBaseDelay = 400 * time.Millisecond
)

// Deps are the external capabilities the pipeline consumes. Ripper, Probe
// and Presence are required; the rest degrade gracefully when absent.
type Deps struct {
	Ripper        Ripper
	Probe         MediaProbe
	Presence      MediaPresence
	Ejector       Ejector
	Structure     StructureChecker
	Disambiguator Disambiguator
	Mover         *fileutil.Mover
	// Wake lets an insertion-event monitor cut the disc poll short. Polling
	// remains the source of truth; events only end a sleep early.
	Wake <-chan struct{}
}

// Pipeline executes capture jobs against a single optical drive.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	deps   Deps

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// New validates the dependency set and builds a pipeline.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: config required")
	}
	if deps.Ripper == nil || deps.Probe == nil || deps.Presence == nil {
		return nil, errors.New("pipeline: ripper, probe and presence capabilities required")
	}
	if deps.Mover == nil {
		deps.Mover = fileutil.NewMover(moveRetries, moveBaseDelay)
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		deps:   deps,
		now:    time.Now,
	}
	p.sleep = p.sleepCtx
	return p, nil
}

// Report is what a finished job leaves behind, success or not.
type Report struct {
	Outcome     string
	Reason      string
	Transitions []Transition
	MovedFiles  []string
	// JobDir is the raw directory's final location after archive or
	// quarantine relocation.
	JobDir      string
	ReceiptPath string
}

// Run executes one job whose raw working directory is jobDir. Per-job
// failures are absorbed into the report after quarantining; the returned
// error is non-nil only for run-fatal conditions (disc-wait timeout,
// context cancellation).
func (p *Pipeline) Run(ctx context.Context, job Job, jobDir string) (*Report, error) {
	logger := p.logger.With(logging.String("job", job.Label()))
	t := &trail{now: p.now}

	idx := t.enter(StateWaitForDisc)
	if err := p.waitForDisc(ctx, logger); err != nil {
		t.exit(idx, err.Error())
		return &Report{Outcome: receipt.StatusUnable, Reason: reasonFor(err), Transitions: t.transitions, JobDir: jobDir}, err
	}
	t.exit(idx, "media present")

	idx = t.enter(StateDiscDetected)
	if err := p.discDetected(ctx, logger); err != nil {
		t.exit(idx, err.Error())
		return p.fail(ctx, logger, t, job, jobDir, nil, err)
	}
	t.exit(idx, "settled")

	idx = t.enter(StateRip)
	minLength := p.ripMinLengthSeconds(job)
	logPath, ripErr := p.deps.Ripper.RipAll(ctx, p.cfg.MakeMKV.DriveIndex, jobDir, minLength)
	outputs, listErr := listOutputs(jobDir)
	if ripErr != nil {
		if listErr != nil || len(outputs) == 0 {
			t.exit(idx, ripErr.Error())
			return p.fail(ctx, logger, t, job, jobDir, nil, Wrap("rip", errors.Join(ErrNoOutputProduced, ripErr)))
		}
		// Tool exited non-zero but left usable files. Continue cautiously;
		// verification and classification still guard the library.
		logger.Warn("ripper exited non-zero with outputs present",
			logging.Error(ripErr),
			logging.Int("outputs", len(outputs)))
	}
	t.exit(idx, fmt.Sprintf("minlength=%ds outputs=%d log=%s", minLength, len(outputs), filepath.Base(logPath)))

	if seconds := p.cfg.Timing.PostRipSettleSeconds; seconds > 0 {
		if err := p.sleep(ctx, time.Duration(seconds)*time.Second); err != nil {
			return &Report{Outcome: receipt.StatusUnable, Reason: "job_failed", Transitions: t.transitions, JobDir: jobDir}, err
		}
	}

	idx = t.enter(StateVerifyOutputs)
	candidates, err := p.verifyOutputs(ctx, logger, jobDir)
	if err != nil {
		t.exit(idx, err.Error())
		return p.fail(ctx, logger, t, job, jobDir, candidates, err)
	}
	t.exit(idx, fmt.Sprintf("%d candidate files", len(candidates)))

	idx = t.enter(StatePlanAssignment)
	plan, err := p.plan(logger, job, candidates)
	if err != nil {
		t.exit(idx, err.Error())
		return p.fail(ctx, logger, t, job, jobDir, candidates, err)
	}
	t.exit(idx, plan.note)

	idx = t.enter(StateCommitMoves)
	moved, err := p.commit(logger, job, jobDir, plan, candidates)
	if err != nil {
		t.exit(idx, err.Error())
		return p.fail(ctx, logger, t, job, jobDir, candidates, err)
	}
	t.exit(idx, fmt.Sprintf("%d file(s) placed", len(moved)))

	finalDir := jobDir
	if p.cfg.Policy.ArchiveRawOnSuccess {
		doneRoot := p.stagingFor(job).Done
		archived, archiveErr := p.deps.Mover.MoveIntoDir(jobDir, doneRoot, p.now().Format("20060102_150405"))
		if archiveErr != nil {
			logger.Warn("raw directory archive failed", logging.Error(archiveErr))
		} else {
			finalDir = archived
		}
	}

	if p.cfg.Policy.EjectOnSuccess {
		idx = t.enter(StateEject)
		p.eject(ctx, logger)
		t.exit(idx, "ejected")
	}

	idx = t.enter(StateDone)
	t.exit(idx, plan.reason)
	logger.Info("job committed",
		logging.String(logging.FieldReason, plan.reason),
		logging.Int("moved", len(moved)))

	return &Report{
		Outcome:     receipt.StatusSuccess,
		Reason:      plan.reason,
		Transitions: t.transitions,
		MovedFiles:  moved,
		JobDir:      finalDir,
		ReceiptPath: filepath.Join(finalDir, receipt.ReceiptFileName),
	}, nil
}

// waitForDisc polls media presence until loaded or the configured maximum
// wait elapses. The timeout is fatal to the run: an unattended drive means
// nobody is feeding discs.
func (p *Pipeline) waitForDisc(ctx context.Context, logger *slog.Logger) error {
	deadline := p.now().Add(time.Duration(p.cfg.Timing.MaxWaitMinutes) * time.Minute)
	interval := time.Duration(p.cfg.Timing.PollIntervalSeconds) * time.Second

	logger.Info("waiting for disc",
		logging.Int("poll_interval_s", p.cfg.Timing.PollIntervalSeconds),
		logging.Int("max_wait_min", p.cfg.Timing.MaxWaitMinutes))

	for {
		loaded, err := p.deps.Presence.MediaLoaded(ctx)
		if err != nil {
			logger.Debug("presence check failed", logging.Error(err))
		} else if loaded {
			return nil
		}
		if !p.now().Before(deadline) {
			return ErrDiscWaitTimeout
		}
		if err := p.waitPoll(ctx, interval); err != nil {
			return err
		}
	}
}

// waitPoll sleeps one poll interval, ending early on a wake event.
func (p *Pipeline) waitPoll(ctx context.Context, interval time.Duration) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	case <-p.deps.Wake:
		return nil
	}
}

// discDetected lets the hardware settle, then optionally checks the mounted
// disc for a video structure. A missing mount point is skipped with a
// warning, not failed: not every drive auto-mounts.
func (p *Pipeline) discDetected(ctx context.Context, logger *slog.Logger) error {
	if seconds := p.cfg.Timing.DiscSettleSeconds; seconds > 0 {
		if err := p.sleep(ctx, time.Duration(seconds)*time.Second); err != nil {
			return err
		}
	}
	if !p.cfg.Policy.VerifyDiscStructure || p.deps.Structure == nil {
		return nil
	}
	mount := strings.TrimSpace(p.cfg.MakeMKV.MountPoint)
	if mount == "" {
		return nil
	}
	ok, err := p.deps.Structure.HasVideoStructure(mount)
	if err != nil {
		logger.Warn("disc structure check unavailable", logging.Error(err))
		return nil
	}
	if !ok {
		return Wrap("disc structure", ErrDiscStructure)
	}
	return nil
}

// ripMinLengthSeconds derives the rip floor. TV jobs with declared episode
// minima use the smallest minimum less the buffer so short episodes are not
// discarded as junk; everything else uses the fixed floor.
func (p *Pipeline) ripMinLengthSeconds(job Job) int {
	minutes := p.cfg.MakeMKV.MinLengthMinutes
	if tv, ok := job.(TVJob); ok && p.cfg.MakeMKV.ManifestMinLength {
		if declared := tv.MinDeclaredMinutes(); declared > 0 {
			derived := declared - p.cfg.MakeMKV.MinLengthBufferMinutes
			if derived < 1 {
				derived = 1
			}
			minutes = derived
		}
	}
	return minutes * 60
}

// verifyOutputs checks the rip left usable files, then measures each one.
// A single unprobeable file is tolerated here; classification decides
// whether the job can survive without its duration.
func (p *Pipeline) verifyOutputs(ctx context.Context, logger *slog.Logger, jobDir string) ([]classify.Candidate, error) {
	outputs, err := listOutputs(jobDir)
	if err != nil {
		return nil, Wrap("verify", err)
	}
	if len(outputs) == 0 {
		return nil, Wrap("verify", ErrNoOutputProduced)
	}

	candidates := make([]classify.Candidate, 0, len(outputs))
	for order, path := range outputs {
		info, err := os.Stat(path)
		if err != nil {
			return nil, Wrap("verify", err)
		}
		if info.Size() == 0 {
			return candidates, Wrap("verify", fmt.Errorf("%w: %s", ErrZeroByteOutput, filepath.Base(path)))
		}

		candidate := classify.Candidate{
			Path:           path,
			Name:           filepath.Base(path),
			SizeBytes:      info.Size(),
			TitleIndex:     -1,
			DiscoveryOrder: order,
		}
		if index, ok := makemkv.TitleIndex(candidate.Name); ok {
			candidate.TitleIndex = index
		}
		if result, err := p.deps.Probe.Inspect(ctx, path); err != nil {
			logger.Warn("media probe failed",
				logging.String("file", candidate.Name),
				logging.Error(err))
		} else {
			candidate.VideoStreams = result.VideoStreamCount()
			candidate.AudioStreams = result.AudioStreamCount()
			candidate.SubtitleStreams = result.SubtitleStreamCount()
			if seconds, err := result.DurationSeconds(); err != nil {
				logger.Warn("duration missing from probe",
					logging.String("file", candidate.Name),
					logging.Error(err))
			} else {
				candidate.DurationSeconds = seconds
				candidate.DurationKnown = true
			}
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// listOutputs returns the .mkv files directly under jobDir sorted by name.
// MakeMKV's title numbering makes name order the discovery order.
func listOutputs(jobDir string) ([]string, error) {
	entries, err := os.ReadDir(jobDir)
	if err != nil {
		return nil, fmt.Errorf("read job directory: %w", err)
	}
	var outputs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".mkv") {
			outputs = append(outputs, filepath.Join(jobDir, entry.Name()))
		}
	}
	sort.Strings(outputs)
	return outputs, nil
}

func (p *Pipeline) eject(ctx context.Context, logger *slog.Logger) {
	if p.deps.Ejector == nil {
		return
	}
	if seconds := p.cfg.Timing.EjectDelaySeconds; seconds > 0 {
		if err := p.sleep(ctx, time.Duration(seconds)*time.Second); err != nil {
			return
		}
	}
	if err := p.deps.Ejector.Eject(ctx); err != nil {
		logger.Warn("eject failed", logging.Error(err))
	}
}

// stagingFor returns the staging layout for the job's content kind.
func (p *Pipeline) stagingFor(job Job) config.StagingPaths {
	if _, ok := job.(TVJob); ok {
		return p.cfg.Staging("TV")
	}
	return p.cfg.Staging("Movies")
}

func (p *Pipeline) sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
