package pipeline

import (
	"errors"
	"fmt"
)

// Failure kinds. Each one maps to a quarantine destination and a receipt
// reason code; the driver inspects the kind rather than the message.
var (
	// ErrMeasurementFailure means the duration probe could not read any file.
	ErrMeasurementFailure = errors.New("duration measurement failed")
	// ErrInsufficientCandidates means fewer usable files than expected units.
	ErrInsufficientCandidates = errors.New("fewer usable files than expected units")
	// ErrInfeasibleAssignment means no order-preserving assignment exists.
	ErrInfeasibleAssignment = errors.New("no feasible episode assignment")
	// ErrLowConfidenceAssignment means the assignment's mean duration error
	// exceeds the configured ceiling.
	ErrLowConfidenceAssignment = errors.New("assignment mean error over ceiling")
	// ErrAmbiguousCut means multiple duration clusters with no resolution.
	ErrAmbiguousCut = errors.New("ambiguous main-feature cut")
	// ErrNoOutputProduced means the ripper produced zero files.
	ErrNoOutputProduced = errors.New("no output files produced")
	// ErrZeroByteOutput means a produced file is empty.
	ErrZeroByteOutput = errors.New("zero-byte output file detected")
	// ErrCommitVerification means a destination is missing or empty after a
	// move.
	ErrCommitVerification = errors.New("commit verification failed")
	// ErrDiscStructure means the mounted disc lacks a video structure.
	ErrDiscStructure = errors.New("disc structure missing")
	// ErrDiscWaitTimeout aborts the whole run, not just the job: nobody is
	// feeding the drive.
	ErrDiscWaitTimeout = errors.New("timed out waiting for disc")
)

// Wrap annotates err with a stage prefix, preserving the failure kind for
// errors.Is checks.
func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", stage, err)
}

// Quarantine is where a failed job's raw directory ends up.
type Quarantine int

const (
	// QuarantineReview holds jobs a human can likely rescue: the files are
	// fine, the classification was not confident enough to auto-commit.
	QuarantineReview Quarantine = iota
	// QuarantineUnable holds jobs whose rip itself was unusable.
	QuarantineUnable
)

// QuarantineFor maps a failure kind to its quarantine destination.
// Unknown kinds land in Unable so nothing uncertain reaches the library.
func QuarantineFor(err error) Quarantine {
	switch {
	case errors.Is(err, ErrMeasurementFailure),
		errors.Is(err, ErrInsufficientCandidates),
		errors.Is(err, ErrInfeasibleAssignment),
		errors.Is(err, ErrLowConfidenceAssignment),
		errors.Is(err, ErrAmbiguousCut):
		return QuarantineReview
	default:
		return QuarantineUnable
	}
}

// reasonFor is the receipt reason code for a failure kind. A wrapped
// reasonError overrides the kind's default code.
func reasonFor(err error) string {
	var re *reasonError
	if errors.As(err, &re) {
		return re.reason
	}
	switch {
	case errors.Is(err, ErrMeasurementFailure):
		return "duration_measurement_failed"
	case errors.Is(err, ErrInsufficientCandidates):
		return "insufficient_candidates"
	case errors.Is(err, ErrInfeasibleAssignment):
		return "infeasible_assignment"
	case errors.Is(err, ErrLowConfidenceAssignment):
		return "assignment_error_over_ceiling"
	case errors.Is(err, ErrAmbiguousCut):
		return "ambiguous_cut"
	case errors.Is(err, ErrNoOutputProduced):
		return "no_mkvs_produced"
	case errors.Is(err, ErrZeroByteOutput):
		return "mkv_zero_byte_file_detected"
	case errors.Is(err, ErrCommitVerification):
		return "commit_verification_failed"
	case errors.Is(err, ErrDiscStructure):
		return "disc_structure_missing"
	default:
		return "job_failed"
	}
}
