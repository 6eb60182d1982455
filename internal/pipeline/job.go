package pipeline

import (
	"fmt"

	"discmapper/internal/classify"
	"discmapper/internal/manifest"
)

// Job is one physical-disc capture unit. The two variants carry their own
// expected-unit shapes; the pipeline dispatches on the concrete type.
type Job interface {
	// Label is the human-readable identity used in logs and directory names.
	Label() string
	// Units returns the expected deliverables in output order.
	Units() []classify.Unit

	isJob()
}

// TVJob expects one or more episodes from a multi-episode disc.
type TVJob struct {
	Series       string
	Season       int
	Disc         int
	ShowYear     int
	IMDBID       string
	PackageIndex int
	Episodes     []manifest.Episode
}

func (j TVJob) isJob() {}

func (j TVJob) Label() string {
	return fmt.Sprintf("%s S%02dD%02d", j.Series, j.Season, j.Disc)
}

// Units maps manifest episodes onto expected units.
func (j TVJob) Units() []classify.Unit {
	units := make([]classify.Unit, len(j.Episodes))
	for i, episode := range j.Episodes {
		units[i] = classify.Unit{
			Ordinal:    i,
			Declared:   episode.DeclaredRuntime,
			MinMinutes: episode.MinMinutes,
			MaxMinutes: episode.MaxMinutes,
		}
	}
	return units
}

// MinDeclaredMinutes is the smallest declared episode minimum, or 0 when no
// episode declares one. Drives the manifest-derived rip minlength.
func (j TVJob) MinDeclaredMinutes() int {
	smallest := 0
	for _, episode := range j.Episodes {
		if episode.MinMinutes <= 0 {
			continue
		}
		if smallest == 0 || episode.MinMinutes < smallest {
			smallest = episode.MinMinutes
		}
	}
	return smallest
}

// MovieJob expects exactly one feature, possibly mixed with alternate cuts
// and extras.
type MovieJob struct {
	Title        string
	Year         int
	IMDBID       string
	PackageIndex int
	Barcode      string
	Format       string
}

func (j MovieJob) isJob() {}

func (j MovieJob) Label() string {
	if j.Year > 0 {
		return fmt.Sprintf("%s (%d)", j.Title, j.Year)
	}
	return j.Title
}

func (j MovieJob) Units() []classify.Unit {
	return []classify.Unit{{Ordinal: 0}}
}
