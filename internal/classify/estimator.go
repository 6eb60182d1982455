package classify

import (
	"errors"
	"math"
	"sort"
)

// ErrNoDurations is returned when a typical duration cannot be derived
// because no file carried a measurable duration.
var ErrNoDurations = errors.New("no measured durations available")

// TypicalDuration derives a robust "typical" runtime in seconds from the
// measured durations of a disc's files. With five or more samples the lowest
// and highest ~20% (rounded, at least one per side) are trimmed first so
// short junk titles and double-length outliers cannot bias the estimate; the
// median of the remainder is returned. If trimming would discard everything
// the full median is used instead.
func TypicalDuration(durations []int) (int, error) {
	if len(durations) == 0 {
		return 0, ErrNoDurations
	}

	sorted := make([]int, len(durations))
	copy(sorted, durations)
	sort.Ints(sorted)

	if len(sorted) >= 5 {
		trim := int(math.Round(float64(len(sorted)) * 0.20))
		if trim < 1 {
			trim = 1
		}
		if core := sorted[trim : len(sorted)-trim]; len(core) > 0 {
			sorted = core
		}
	}

	return median(sorted), nil
}

// median of a sorted slice; even-length inputs truncate the midpoint average
// toward zero, matching integer seconds semantics.
func median(sorted []int) int {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
