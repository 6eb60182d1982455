package classify

import (
	"errors"
	"math"
	"testing"
)

func seqCandidate(index, durationSeconds int) Candidate {
	return Candidate{
		Name:            "title",
		DurationSeconds: durationSeconds,
		DurationKnown:   true,
		TitleIndex:      index,
		DiscoveryOrder:  index,
	}
}

func TestMatchSequenceSkipsJunkAndAssignsInOrder(t *testing.T) {
	t.Parallel()

	// Three 20-26 minute episode windows and a 2-minute menu loop ahead of
	// the real episodes. The junk title costs less to skip than to force.
	windows := []Window{
		{MinSeconds: 20 * 60, MaxSeconds: 26 * 60},
		{MinSeconds: 20 * 60, MaxSeconds: 26 * 60},
		{MinSeconds: 20 * 60, MaxSeconds: 26 * 60},
	}
	candidates := []Candidate{
		seqCandidate(0, 2*60),
		seqCandidate(1, 23*60),
		seqCandidate(2, 24*60),
		seqCandidate(3, 25*60),
	}

	got, err := MatchSequence(windows, candidates, 2.0)
	if err != nil {
		t.Fatalf("MatchSequence: %v", err)
	}
	want := []Pair{{Unit: 0, Candidate: 1}, {Unit: 1, Candidate: 2}, {Unit: 2, Candidate: 3}}
	if len(got.Pairs) != len(want) {
		t.Fatalf("got %d pairs, want %d: %+v", len(got.Pairs), len(want), got.Pairs)
	}
	for i, pair := range got.Pairs {
		if pair != want[i] {
			t.Fatalf("pair %d: got %+v, want %+v", i, pair, want[i])
		}
	}
	// Deviations from the 23-minute midpoint: 0, 1 and 2 minutes.
	if math.Abs(got.MeanErrorMinutes-1.0) > 1e-9 {
		t.Fatalf("mean error %f, want 1.0", got.MeanErrorMinutes)
	}
}

func TestMatchSequenceInfeasibleWhenTooFewFitWindows(t *testing.T) {
	t.Parallel()

	windows := []Window{
		{MinSeconds: 20 * 60, MaxSeconds: 26 * 60},
		{MinSeconds: 20 * 60, MaxSeconds: 26 * 60},
	}
	candidates := []Candidate{
		seqCandidate(0, 2*60),
		seqCandidate(1, 23*60),
		seqCandidate(2, 90*60),
	}

	if _, err := MatchSequence(windows, candidates, 2.0); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestMatchSequenceNoUnits(t *testing.T) {
	t.Parallel()

	if _, err := MatchSequence(nil, []Candidate{seqCandidate(0, 1380)}, 2.0); !errors.Is(err, ErrInfeasible) {
		t.Fatalf("expected ErrInfeasible, got %v", err)
	}
}

func TestMatchSequencePreservesDiscoveryOrder(t *testing.T) {
	t.Parallel()

	// Wide overlapping windows with plenty of slack: whatever the optimal
	// choice, candidate indices must be strictly increasing in unit order.
	windows := []Window{
		{MinSeconds: 10 * 60, MaxSeconds: 40 * 60},
		{MinSeconds: 10 * 60, MaxSeconds: 40 * 60},
		{MinSeconds: 10 * 60, MaxSeconds: 40 * 60},
	}
	candidates := []Candidate{
		seqCandidate(0, 25*60),
		seqCandidate(1, 12*60),
		seqCandidate(2, 25*60),
		seqCandidate(3, 38*60),
		seqCandidate(4, 25*60),
	}

	got, err := MatchSequence(windows, candidates, 2.0)
	if err != nil {
		t.Fatalf("MatchSequence: %v", err)
	}
	for i := 1; i < len(got.Pairs); i++ {
		if got.Pairs[i].Candidate <= got.Pairs[i-1].Candidate {
			t.Fatalf("candidate order not preserved: %+v", got.Pairs)
		}
		if got.Pairs[i].Unit != got.Pairs[i-1].Unit+1 {
			t.Fatalf("units not covered in order: %+v", got.Pairs)
		}
	}
}

func TestMatchSequenceTieResolvesTowardSkipping(t *testing.T) {
	t.Parallel()

	// Both candidates deviate from the 23-minute midpoint by exactly one
	// minute, so matching the first and skipping the second costs the same
	// as the reverse. The tie must resolve toward skipping the later file.
	windows := []Window{{MinSeconds: 20 * 60, MaxSeconds: 26 * 60}}
	candidates := []Candidate{
		seqCandidate(0, 22*60),
		seqCandidate(1, 24*60),
	}

	got, err := MatchSequence(windows, candidates, 2.0)
	if err != nil {
		t.Fatalf("MatchSequence: %v", err)
	}
	if len(got.Pairs) != 1 || got.Pairs[0].Candidate != 0 {
		t.Fatalf("tie not resolved toward skipping the later candidate: %+v", got.Pairs)
	}
}

func TestMatchSequenceIgnoresUnknownDurations(t *testing.T) {
	t.Parallel()

	windows := []Window{{MinSeconds: 20 * 60, MaxSeconds: 26 * 60}}
	unreadable := seqCandidate(0, 23*60)
	unreadable.DurationKnown = false
	candidates := []Candidate{unreadable, seqCandidate(1, 24*60)}

	got, err := MatchSequence(windows, candidates, 2.0)
	if err != nil {
		t.Fatalf("MatchSequence: %v", err)
	}
	if len(got.Pairs) != 1 || got.Pairs[0].Candidate != 1 {
		t.Fatalf("unreadable candidate was assigned: %+v", got.Pairs)
	}
}

func TestMatchSequenceUniqueAssignmentMeanError(t *testing.T) {
	t.Parallel()

	// Non-overlapping windows force a unique assignment; the mean error is
	// then just the average midpoint deviation.
	windows := []Window{
		{MinSeconds: 10 * 60, MaxSeconds: 14 * 60},
		{MinSeconds: 40 * 60, MaxSeconds: 44 * 60},
	}
	candidates := []Candidate{
		seqCandidate(0, 13*60), // 1 minute over the 12-minute midpoint
		seqCandidate(1, 60*60), // fits neither window, skipped
		seqCandidate(2, 40*60), // 2 minutes under the 42-minute midpoint
	}

	got, err := MatchSequence(windows, candidates, 2.0)
	if err != nil {
		t.Fatalf("MatchSequence: %v", err)
	}
	if math.Abs(got.MeanErrorMinutes-1.5) > 1e-9 {
		t.Fatalf("mean error %f, want 1.5", got.MeanErrorMinutes)
	}
}
