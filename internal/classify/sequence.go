package classify

import (
	"errors"
	"math"
)

// ErrInfeasible is returned when no order-preserving assignment can cover
// every unit under the given windows.
var ErrInfeasible = errors.New("no feasible assignment covers every unit")

// Pair records one matched (unit index, candidate index) pair.
type Pair struct {
	Unit      int
	Candidate int
}

// Assignment is an injective, order-preserving mapping of candidates onto
// units, covering every unit.
type Assignment struct {
	Pairs []Pair
	// MeanErrorMinutes is the mean absolute deviation of matched durations
	// from their window midpoints. Callers reject assignments whose mean
	// error exceeds their configured ceiling even though the assignment is
	// technically feasible.
	MeanErrorMinutes float64
}

// MatchSequence assigns candidates to units by a shortest-path dynamic
// program over an (m+1) x (n+1) grid, where state (i, j) means "the first i
// units are satisfied using some subset of the first j candidates". Any
// candidate may be skipped for skipPenaltyMinutes; units cannot be skipped.
// Candidates must already be sorted by discovery order — the assignment
// never reorders files across units.
//
// Cost ties between skipping candidate j and matching it to unit i resolve
// toward skipping, so a dubious short or duplicate title is never forced
// into a slot it fits only as well as the penalty.
func MatchSequence(windows []Window, candidates []Candidate, skipPenaltyMinutes float64) (Assignment, error) {
	m, n := len(windows), len(candidates)
	if m == 0 {
		return Assignment{}, ErrInfeasible
	}

	inf := math.Inf(1)
	cost := make([][]float64, m+1)
	take := make([][]bool, m+1)
	for i := range cost {
		cost[i] = make([]float64, n+1)
		take[i] = make([]bool, n+1)
		for j := range cost[i] {
			cost[i][j] = inf
		}
	}

	cost[0][0] = 0
	for j := 1; j <= n; j++ {
		cost[0][j] = cost[0][j-1] + skipPenaltyMinutes
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			best := cost[i][j-1] + skipPenaltyMinutes
			matched := false
			if c := matchCost(windows[i-1], candidates[j-1]); !math.IsInf(c, 1) {
				if candidate := cost[i-1][j-1] + c; candidate < best {
					best = candidate
					matched = true
				}
			}
			cost[i][j] = best
			take[i][j] = matched
		}
	}

	if math.IsInf(cost[m][n], 1) {
		return Assignment{}, ErrInfeasible
	}

	pairs := make([]Pair, 0, m)
	i, j := m, n
	for i > 0 && j > 0 {
		if take[i][j] {
			pairs = append(pairs, Pair{Unit: i - 1, Candidate: j - 1})
			i--
			j--
		} else {
			j--
		}
	}
	if i != 0 {
		return Assignment{}, ErrInfeasible
	}

	// Reverse into unit order.
	for a, b := 0, len(pairs)-1; a < b; a, b = a+1, b-1 {
		pairs[a], pairs[b] = pairs[b], pairs[a]
	}

	var total float64
	for _, pair := range pairs {
		window := windows[pair.Unit]
		total += math.Abs(float64(candidates[pair.Candidate].DurationSeconds)-window.MidSeconds()) / 60.0
	}
	mean := math.Inf(1)
	if len(pairs) > 0 {
		mean = total / float64(len(pairs))
	}

	return Assignment{Pairs: pairs, MeanErrorMinutes: mean}, nil
}

// matchCost is the absolute deviation of the candidate's duration from the
// window midpoint in minutes, or +Inf when the candidate is ineligible.
func matchCost(window Window, candidate Candidate) float64 {
	if !candidate.DurationKnown {
		return math.Inf(1)
	}
	if !window.Contains(candidate.DurationSeconds) {
		return math.Inf(1)
	}
	return math.Abs(float64(candidate.DurationSeconds)-window.MidSeconds()) / 60.0
}
