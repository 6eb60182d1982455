package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"discmapper/internal/classify"
	"discmapper/internal/logging"
)

// Selection reason codes recorded in receipts and sidecars.
const (
	reasonEpisodesMapped   = "episodes_mapped"
	reasonAutoKeeper       = "auto_selected_best_candidate"
	reasonUserSelectedCut  = "user_selected_cut"
	reasonUserKeepAll      = "user_chose_keep_all_to_review"
	reasonUserSentToReview = "user_sent_to_review"
)

// planResult is the classification decision awaiting committal.
type planResult struct {
	reason string
	note   string

	// assignment is set for TV jobs.
	assignment classify.Assignment
	// keeper is set for movie jobs.
	keeper    classify.Candidate
	keeperSet bool
}

// reasonError pairs a failure kind with a more specific receipt reason than
// the kind's default.
type reasonError struct {
	kind   error
	reason string
}

func (e *reasonError) Error() string { return fmt.Sprintf("%v (%s)", e.kind, e.reason) }
func (e *reasonError) Unwrap() error { return e.kind }

func withReason(kind error, reason string) error {
	return &reasonError{kind: kind, reason: reason}
}

func (p *Pipeline) plan(logger *slog.Logger, job Job, candidates []classify.Candidate) (planResult, error) {
	switch j := job.(type) {
	case TVJob:
		return p.planTV(logger, j, candidates)
	case MovieJob:
		return p.planMovie(logger, j, candidates)
	default:
		return planResult{}, fmt.Errorf("unsupported job type %T", job)
	}
}

// planTV matches ripped files onto the disc's expected episodes.
func (p *Pipeline) planTV(logger *slog.Logger, job TVJob, candidates []classify.Candidate) (planResult, error) {
	units := job.Units()
	if len(units) == 0 {
		return planResult{}, Wrap("plan", withReason(ErrInsufficientCandidates, "no_expected_episodes"))
	}
	if len(candidates) < len(units) {
		return planResult{}, Wrap("plan", ErrInsufficientCandidates)
	}

	var durations []int
	for _, candidate := range candidates {
		if candidate.DurationKnown {
			durations = append(durations, candidate.DurationSeconds)
		}
	}
	typical, err := classify.TypicalDuration(durations)
	if err != nil {
		return planResult{}, Wrap("plan", errors.Join(ErrMeasurementFailure, err))
	}

	windows := classify.BuildWindows(units, typical, classify.Buffers{
		ManifestMinutes:     p.cfg.Matching.ManifestBufferMinutes,
		TypicalMinutes:      p.cfg.Matching.TypicalBufferMinutes,
		SpecialDeltaMinutes: p.cfg.Matching.SpecialDeltaMinutes,
	})

	assignment, err := classify.MatchSequence(windows, candidates, p.cfg.Matching.SkipPenaltyMinutes)
	if err != nil {
		return planResult{}, Wrap("plan", errors.Join(ErrInfeasibleAssignment, err))
	}
	if assignment.MeanErrorMinutes > p.cfg.Matching.MaxMeanErrorMinutes {
		return planResult{}, Wrap("plan", fmt.Errorf("%w: mean error %.2f min over ceiling %.2f",
			ErrLowConfidenceAssignment, assignment.MeanErrorMinutes, p.cfg.Matching.MaxMeanErrorMinutes))
	}

	logger.Info("episode assignment accepted",
		logging.Int("typical_s", typical),
		logging.Int("episodes", len(units)),
		logging.Float64("mean_error_min", assignment.MeanErrorMinutes))

	return planResult{
		reason:     reasonEpisodesMapped,
		note:       fmt.Sprintf("typical=%ds matched=%d mean_error=%.2fmin", typical, len(assignment.Pairs), assignment.MeanErrorMinutes),
		assignment: assignment,
	}, nil
}

// planMovie selects the authoritative main cut, escalating genuinely
// ambiguous discs to the disambiguation port.
func (p *Pipeline) planMovie(logger *slog.Logger, job MovieJob, candidates []classify.Candidate) (planResult, error) {
	result, err := classify.SelectKeeper(candidates,
		p.cfg.Keeper.MinMainMinutes*60,
		p.cfg.Keeper.DurationToleranceSeconds,
		p.cfg.Keeper.MultiCutThresholdSeconds)
	if err != nil {
		reason := fmt.Sprintf("no_candidate_over_%dm", p.cfg.Keeper.MinMainMinutes)
		return planResult{}, Wrap("plan", withReason(errors.Join(ErrInsufficientCandidates, err), reason))
	}

	if !result.Ambiguous {
		logger.Info("keeper auto-selected",
			logging.String("keeper", result.Keeper.Name),
			logging.Int("clusters", len(result.Clusters)))
		return planResult{
			reason:    reasonAutoKeeper,
			note:      fmt.Sprintf("keeper=%s clusters=%d", result.Keeper.Name, len(result.Clusters)),
			keeper:    result.Keeper,
			keeperSet: true,
		}, nil
	}

	logger.Warn("multiple cuts detected",
		logging.Int("clusters", len(result.Clusters)),
		logging.Int("candidates", len(result.Candidates)))

	if p.deps.Disambiguator == nil {
		return planResult{}, Wrap("plan", ErrAmbiguousCut)
	}
	resolution, err := p.deps.Disambiguator.ChooseCut(result.Candidates)
	if err != nil {
		return planResult{}, Wrap("plan", errors.Join(ErrAmbiguousCut, err))
	}
	switch resolution.Action {
	case CutKeepOne:
		return planResult{
			reason:    reasonUserSelectedCut,
			note:      fmt.Sprintf("keeper=%s (user choice)", resolution.Keep.Name),
			keeper:    resolution.Keep,
			keeperSet: true,
		}, nil
	case CutReviewAll:
		return planResult{}, Wrap("plan", withReason(ErrAmbiguousCut, reasonUserKeepAll))
	default:
		return planResult{}, Wrap("plan", withReason(ErrAmbiguousCut, reasonUserSentToReview))
	}
}
