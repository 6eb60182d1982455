package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"discmapper/internal/classify"
	"discmapper/internal/fileutil"
	"discmapper/internal/logging"
	"discmapper/internal/naming"
	"discmapper/internal/receipt"
)

func (p *Pipeline) namingOptions() naming.Options {
	return naming.Options{
		IncludeYear:        p.cfg.Naming.IncludeYear,
		IncludeIMDBID:      p.cfg.Naming.IncludeIMDBID,
		AppendPackageIndex: p.cfg.Naming.AppendPackageIndex,
	}
}

// commit places the planned file(s) into the ready area and writes the
// success receipt into the raw job directory.
func (p *Pipeline) commit(logger *slog.Logger, job Job, jobDir string, plan planResult, candidates []classify.Candidate) ([]string, error) {
	var moved []string
	var keeperDest string
	var err error

	switch j := job.(type) {
	case TVJob:
		moved, err = p.commitTV(logger, j, jobDir, plan, candidates)
	case MovieJob:
		moved, err = p.commitMovie(logger, j, jobDir, plan, candidates)
		if err == nil && len(moved) == 1 {
			keeperDest = moved[0]
		}
	default:
		err = fmt.Errorf("unsupported job type %T", job)
	}
	if err != nil {
		return moved, err
	}

	rec := receipt.Receipt{
		Status:      receipt.StatusSuccess,
		Reason:      plan.reason,
		KeeperDest:  keeperDest,
		MovedFiles:  moved,
		Candidates:  receiptCandidates(candidates),
		CompletedAt: p.now(),
	}
	if err := receipt.WriteReceipt(jobDir, rec); err != nil {
		logger.Warn("receipt write failed", logging.Error(err))
	}
	return moved, nil
}

func (p *Pipeline) commitTV(logger *slog.Logger, job TVJob, jobDir string, plan planResult, candidates []classify.Candidate) ([]string, error) {
	opts := p.namingOptions()
	seasonDir := filepath.Join(
		p.cfg.Staging("TV").Ready,
		naming.ShowFolder(job.Series, job.ShowYear, job.IMDBID, opts),
		naming.SeasonFolder(job.Season))

	moved := make([]string, 0, len(plan.assignment.Pairs))
	for _, pair := range plan.assignment.Pairs {
		episode := job.Episodes[pair.Unit]
		candidate := candidates[pair.Candidate]

		code := episode.EpisodeCode
		if code == "" {
			code = naming.EpisodeCode(job.Season, episode.EpisodeNumber)
		}
		dest := filepath.Join(seasonDir, naming.EpisodeFileName(job.Series, code, episode.EpisodeTitle, job.PackageIndex, opts))
		if _, err := os.Lstat(dest); err == nil {
			// Same episode captured twice; both copies survive for review.
			dest = naming.DupStampPath(dest, p.now())
		}
		if err := p.place(candidate.Path, dest); err != nil {
			return moved, err
		}
		moved = append(moved, dest)
		logger.Info("episode placed",
			logging.String("sxxeyy", code),
			logging.String("source", candidate.Name),
			logging.String("dest", filepath.Base(dest)))

		if p.cfg.Policy.WriteSidecars {
			side := receipt.EpisodeSidecar{
				Type:             "episode",
				Series:           job.Series,
				Season:           job.Season,
				Disc:             job.Disc,
				ShowYear:         job.ShowYear,
				IMDBID:           job.IMDBID,
				EpisodeCode:      code,
				EpisodeTitle:     episode.EpisodeTitle,
				PackageIndex:     job.PackageIndex,
				UPC:              episode.UPC,
				SourceTitleIndex: candidate.TitleIndex,
				SourceFilename:   candidate.Name,
				DurationSeconds:  candidate.DurationSeconds,
				SizeBytes:        candidate.SizeBytes,
				JobDir:           jobDir,
				FinalPath:        dest,
				MappedAt:         p.now(),
			}
			if err := receipt.WriteEpisodeSidecar(dest, side); err != nil {
				logger.Warn("sidecar write failed", logging.Error(err))
			}
		}
	}
	return moved, nil
}

func (p *Pipeline) commitMovie(logger *slog.Logger, job MovieJob, jobDir string, plan planResult, candidates []classify.Candidate) ([]string, error) {
	if !plan.keeperSet {
		return nil, Wrap("commit", fmt.Errorf("movie plan carries no keeper"))
	}
	opts := p.namingOptions()
	base := naming.MovieBase(job.Title, job.Year, job.IMDBID, job.PackageIndex, opts)
	dest := filepath.Join(p.cfg.Staging("Movies").Ready, base,
		naming.MovieFileName(job.Title, job.Year, job.IMDBID, job.PackageIndex, opts))
	dest = naming.UniquePath(dest)

	if err := p.place(plan.keeper.Path, dest); err != nil {
		return nil, err
	}
	logger.Info("keeper placed",
		logging.String("source", plan.keeper.Name),
		logging.String("dest", dest))

	if p.cfg.Policy.WriteSidecars {
		side := receipt.MovieSidecar{
			Type:            "movie",
			Title:           job.Title,
			Year:            job.Year,
			IMDBID:          job.IMDBID,
			PackageIndex:    job.PackageIndex,
			Barcode:         job.Barcode,
			Reason:          plan.reason,
			Candidates:      receiptCandidates(candidates),
			JobDir:          jobDir,
			KeeperSource:    plan.keeper.Name,
			KeeperDest:      dest,
			DurationSeconds: plan.keeper.DurationSeconds,
			SizeBytes:       plan.keeper.SizeBytes,
			CompletedAt:     p.now(),
		}
		if err := receipt.WriteMovieSidecar(dest, side); err != nil {
			logger.Warn("sidecar write failed", logging.Error(err))
		}
	}
	return []string{dest}, nil
}

// place relocates src to dst per the configured move mode, then verifies
// the destination exists and is non-empty before the source is considered
// committed.
func (p *Pipeline) place(src, dst string) error {
	if p.cfg.Policy.MoveMode == "copy" {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return Wrap("commit", err)
		}
		if err := fileutil.CopyFile(src, dst); err != nil {
			return Wrap("commit", err)
		}
	} else {
		if err := p.deps.Mover.Move(src, dst); err != nil {
			return Wrap("commit", err)
		}
	}
	if p.cfg.Policy.SafeCommit {
		info, err := os.Stat(dst)
		if err != nil || info.Size() == 0 {
			return Wrap("commit", fmt.Errorf("%w: %s", ErrCommitVerification, dst))
		}
	}
	return nil
}

// fail converts a per-job error into a failure receipt plus a quarantine
// relocation, exactly once: a job directory already moved away is left
// where it is.
func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, t *trail, job Job, jobDir string, candidates []classify.Candidate, cause error) (*Report, error) {
	idx := t.enter(StateError)
	reason := reasonFor(cause)
	status := receipt.StatusUnable
	root := p.cfg.UnableDir()
	if QuarantineFor(cause) == QuarantineReview {
		status = receipt.StatusReview
		root = p.stagingFor(job).Review
	}

	finalDir := jobDir
	if _, err := os.Stat(jobDir); err == nil {
		rec := receipt.Receipt{
			Status:      status,
			Reason:      reason,
			Candidates:  receiptCandidates(candidates),
			CompletedAt: p.now(),
		}
		if err := receipt.WriteReceipt(jobDir, rec); err != nil {
			logger.Warn("failure receipt write failed", logging.Error(err))
		}
		relocated, moveErr := p.deps.Mover.MoveIntoDir(jobDir, root, p.now().Format("20060102_150405"))
		if moveErr != nil {
			logger.Error("quarantine relocation failed", logging.Error(moveErr))
		} else {
			finalDir = relocated
		}
	}

	if p.cfg.Policy.EjectOnError {
		p.eject(ctx, logger)
	}

	t.exit(idx, reason)
	logger.Error("job failed",
		logging.String(logging.FieldReason, reason),
		logging.String("quarantine", filepath.Base(root)),
		logging.Error(cause))

	return &Report{
		Outcome:     status,
		Reason:      reason,
		Transitions: t.transitions,
		JobDir:      finalDir,
		ReceiptPath: filepath.Join(finalDir, receipt.ReceiptFileName),
	}, nil
}

func receiptCandidates(candidates []classify.Candidate) []receipt.Candidate {
	if len(candidates) == 0 {
		return nil
	}
	out := make([]receipt.Candidate, len(candidates))
	for i, candidate := range candidates {
		out[i] = receipt.Candidate{
			Path:            candidate.Path,
			Name:            candidate.Name,
			SizeBytes:       candidate.SizeBytes,
			DurationSeconds: candidate.DurationSeconds,
			DurationMinutes: float64(candidate.DurationSeconds) / 60.0,
			TitleIndex:      candidate.TitleIndex,
			VideoStreams:    candidate.VideoStreams,
			AudioStreams:    candidate.AudioStreams,
			SubtitleStreams: candidate.SubtitleStreams,
		}
	}
	return out
}
