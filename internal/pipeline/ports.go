package pipeline

import (
	"context"

	"discmapper/internal/classify"
	"discmapper/internal/probe"
)

// Ripper extracts every title above a duration floor into destDir and
// returns the path of its own log file. A non-zero tool exit comes back as
// an error alongside whatever outputs were still produced.
type Ripper interface {
	RipAll(ctx context.Context, driveIndex int, destDir string, minLengthSeconds int) (logPath string, err error)
}

// MediaProbe inspects one file for its container duration and stream
// layout. Satisfied by *probe.Prober.
type MediaProbe interface {
	Inspect(ctx context.Context, path string) (probe.Result, error)
}

// MediaPresence reports whether readable media sits in the drive.
type MediaPresence interface {
	MediaLoaded(ctx context.Context) (bool, error)
}

// Ejector opens the drive tray. Best effort.
type Ejector interface {
	Eject(ctx context.Context) error
}

// StructureChecker verifies a mounted disc carries a video filesystem
// layout (VIDEO_TS or BDMV).
type StructureChecker interface {
	HasVideoStructure(mountPoint string) (bool, error)
}

// CutAction is a disambiguation verdict for an ambiguous movie disc.
type CutAction int

const (
	// CutKeepOne commits the chosen candidate as the keeper.
	CutKeepOne CutAction = iota
	// CutReviewAll quarantines the whole job for human review.
	CutReviewAll
	// CutReviewSingle quarantines the job without preferring any candidate.
	CutReviewSingle
)

// Resolution is the outcome of a disambiguation prompt.
type Resolution struct {
	Action CutAction
	// Keep is the chosen candidate when Action is CutKeepOne.
	Keep classify.Candidate
}

// Disambiguator resolves an ambiguous main-feature selection. The engine
// never breaks a multi-cut tie on its own.
type Disambiguator interface {
	ChooseCut(candidates []classify.Candidate) (Resolution, error)
}
