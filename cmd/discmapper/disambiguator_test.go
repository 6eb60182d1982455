package main

import (
	"strings"
	"testing"

	"discmapper/internal/classify"
	"discmapper/internal/pipeline"
)

func cutCandidates() []classify.Candidate {
	return []classify.Candidate{
		{Name: "title_t00.mkv", DurationSeconds: 148 * 60, SizeBytes: 30 << 30, VideoStreams: 1, AudioStreams: 3, SubtitleStreams: 5},
		{Name: "title_t01.mkv", DurationSeconds: 141 * 60, SizeBytes: 28 << 30, VideoStreams: 1, AudioStreams: 1, SubtitleStreams: 0},
	}
}

func TestParseCutChoice(t *testing.T) {
	t.Parallel()

	candidates := cutCandidates()
	cases := []struct {
		input string
		want  pipeline.CutAction
	}{
		{"1", pipeline.CutKeepOne},
		{"2", pipeline.CutKeepOne},
		{"a", pipeline.CutReviewAll},
		{"ALL", pipeline.CutReviewAll},
		{"r", pipeline.CutReviewSingle},
		{"", pipeline.CutReviewSingle},
		{"0", pipeline.CutReviewSingle},
		{"3", pipeline.CutReviewSingle},
		{"banana", pipeline.CutReviewSingle},
	}
	for _, tc := range cases {
		got := parseCutChoice(tc.input, candidates)
		if got.Action != tc.want {
			t.Errorf("parseCutChoice(%q) action = %v, want %v", tc.input, got.Action, tc.want)
		}
	}

	got := parseCutChoice("2", candidates)
	if got.Keep.Name != "title_t01.mkv" {
		t.Fatalf("parseCutChoice(2) kept %q", got.Keep.Name)
	}
}

func TestPromptDisambiguatorReadsSelection(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	d := newPromptDisambiguator(strings.NewReader("1\n"), &out)

	resolution, err := d.ChooseCut(cutCandidates())
	if err != nil {
		t.Fatalf("ChooseCut: %v", err)
	}
	if resolution.Action != pipeline.CutKeepOne {
		t.Fatalf("action = %v", resolution.Action)
	}
	if resolution.Keep.Name != "title_t00.mkv" {
		t.Fatalf("kept %q", resolution.Keep.Name)
	}
	if !strings.Contains(out.String(), "title_t01.mkv") {
		t.Fatalf("prompt missing candidate listing:\n%s", out.String())
	}
	// Stream layout helps the operator tell a bare cut from the full one.
	if !strings.Contains(out.String(), "3 audio / 5 subs") {
		t.Fatalf("prompt missing stream counts:\n%s", out.String())
	}
}

func TestPromptDisambiguatorEOFFallsBackToReview(t *testing.T) {
	t.Parallel()

	d := newPromptDisambiguator(strings.NewReader(""), &strings.Builder{})
	resolution, err := d.ChooseCut(cutCandidates())
	if err != nil {
		t.Fatalf("ChooseCut: %v", err)
	}
	if resolution.Action != pipeline.CutReviewSingle {
		t.Fatalf("action = %v", resolution.Action)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	t.Parallel()

	rendered := renderTable(
		[]string{"ID", "Title"},
		[][]string{{"1", "Heat"}, {"2"}},
		[]columnAlignment{alignRight, alignLeft},
	)
	if !strings.Contains(rendered, "Heat") {
		t.Fatalf("row missing:\n%s", rendered)
	}
	if !strings.Contains(rendered, "ID") {
		t.Fatalf("header missing:\n%s", rendered)
	}
}
