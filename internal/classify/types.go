package classify

// Unit is one anticipated deliverable within a job: a TV episode, or the
// single feature of a movie disc. Units are created when a job is loaded and
// never mutated afterwards.
type Unit struct {
	// Ordinal is the stable position of the unit within its job.
	Ordinal int
	// Declared reports whether the manifest carries a runtime range.
	Declared   bool
	MinMinutes int
	MaxMinutes int
}

// Candidate is one file produced by a rip attempt.
type Candidate struct {
	Path string
	Name string
	// DurationSeconds is the probed runtime. DurationKnown is false when the
	// probe failed; such files can never satisfy a unit.
	DurationSeconds int
	DurationKnown   bool
	SizeBytes       int64
	// Stream counts reported by the probe, zero when the probe failed. They
	// never influence matching; receipts and the cut prompt surface them so a
	// human can tell a bare cut from the full-featured one.
	VideoStreams    int
	AudioStreams    int
	SubtitleStreams int
	// TitleIndex is the on-disc title number parsed from the file name, or -1.
	TitleIndex int
	// DiscoveryOrder is the stable order titles were extracted in. Matching
	// never reorders files across units.
	DiscoveryOrder int
}

// Window is the closed acceptance interval attached to one unit. A file is
// eligible for the unit only when its duration lies inside the window.
type Window struct {
	MinSeconds int
	MaxSeconds int
}

// Contains reports whether the duration falls inside the window.
func (w Window) Contains(seconds int) bool {
	return seconds >= w.MinSeconds && seconds <= w.MaxSeconds
}

// MidSeconds returns the window midpoint used for match-cost scoring.
func (w Window) MidSeconds() float64 {
	return (float64(w.MinSeconds) + float64(w.MaxSeconds)) / 2.0
}
