package classify

import (
	"errors"
	"sort"
)

// ErrNoCandidate is returned when no file reaches the main-feature floor.
var ErrNoCandidate = errors.New("no candidate meets the main-feature duration floor")

// KeeperResult is the outcome of main-feature selection on a movie disc.
type KeeperResult struct {
	// Keeper is the auto-selected main cut. Only meaningful when Ambiguous
	// is false.
	Keeper Candidate
	// Candidates are the floor-passing files sorted by duration then size,
	// both descending. Retained for receipts and disambiguation prompts.
	Candidates []Candidate
	// Clusters groups candidates whose durations agree within the tolerance.
	// Clusters are ordered longest-first.
	Clusters [][]Candidate
	// Ambiguous is set when two genuinely different cuts are present and the
	// engine refuses to choose; the caller must escalate to disambiguation.
	Ambiguous bool
}

// SelectKeeper picks the authoritative main-feature cut among ripped titles.
//
// Candidates shorter than floorSeconds are discarded. The remainder are
// clustered greedily: a candidate joins the first cluster whose head differs
// from it by at most toleranceSeconds, treating re-rips that differ by a few
// seconds of encoding variance as the same logical cut. One cluster means one
// cut: the largest file wins. When any two neighbouring clusters (ordered
// longest-first) differ by more than multiCutSeconds, genuinely different
// cuts are present (theatrical vs extended); that decision is never
// automated. Smaller gaps are duration noise around one cut and
// auto-selection proceeds from the top cluster.
func SelectKeeper(files []Candidate, floorSeconds, toleranceSeconds, multiCutSeconds int) (KeeperResult, error) {
	var candidates []Candidate
	for _, file := range files {
		if !file.DurationKnown || file.DurationSeconds < floorSeconds {
			continue
		}
		candidates = append(candidates, file)
	}
	if len(candidates) == 0 {
		return KeeperResult{}, ErrNoCandidate
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].DurationSeconds != candidates[b].DurationSeconds {
			return candidates[a].DurationSeconds > candidates[b].DurationSeconds
		}
		return candidates[a].SizeBytes > candidates[b].SizeBytes
	})

	var clusters [][]Candidate
	for _, candidate := range candidates {
		placed := false
		for i := range clusters {
			if absInt(clusters[i][0].DurationSeconds-candidate.DurationSeconds) <= toleranceSeconds {
				clusters[i] = append(clusters[i], candidate)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []Candidate{candidate})
		}
	}

	result := KeeperResult{Candidates: candidates, Clusters: clusters}

	for i := 1; i < len(clusters); i++ {
		gap := absInt(clusters[i-1][0].DurationSeconds - clusters[i][0].DurationSeconds)
		if gap > multiCutSeconds {
			result.Ambiguous = true
			return result, nil
		}
	}

	result.Keeper = largestBySize(clusters[0])
	return result, nil
}

func largestBySize(cluster []Candidate) Candidate {
	best := cluster[0]
	for _, candidate := range cluster[1:] {
		if candidate.SizeBytes > best.SizeBytes {
			best = candidate
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
