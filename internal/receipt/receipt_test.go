package receipt

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSidecarPathSwapsExtension(t *testing.T) {
	t.Parallel()

	got := SidecarPath("/ready/Heat (1995)/Heat (1995).mkv")
	if got != "/ready/Heat (1995)/Heat (1995).discmapper.json" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteReceiptRoundTrip(t *testing.T) {
	t.Parallel()

	jobDir := t.TempDir()
	rec := Receipt{
		Status:     StatusSuccess,
		Reason:     "auto_selected_best_candidate",
		KeeperDest: "/ready/Heat (1995)/Heat (1995).mkv",
		Candidates: []Candidate{
			{Path: "/raw/job/title_t00.mkv", Name: "title_t00.mkv", SizeBytes: 30 << 30, DurationSeconds: 10204, DurationMinutes: 170.07, TitleIndex: 0},
		},
		CompletedAt: time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC),
	}
	if err := WriteReceipt(jobDir, rec); err != nil {
		t.Fatalf("WriteReceipt: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(jobDir, ReceiptFileName))
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	var got Receipt
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal receipt: %v", err)
	}
	if got.Status != StatusSuccess || got.KeeperDest != rec.KeeperDest || len(got.Candidates) != 1 {
		t.Fatalf("receipt mismatch: %+v", got)
	}
	if !got.CompletedAt.Equal(rec.CompletedAt) {
		t.Fatalf("completed_at %v, want %v", got.CompletedAt, rec.CompletedAt)
	}
}

func TestWriteReceiptLeavesNoTempFile(t *testing.T) {
	t.Parallel()

	jobDir := t.TempDir()
	if err := WriteReceipt(jobDir, Receipt{Status: StatusUnable, Reason: "no_mkvs_produced"}); err != nil {
		t.Fatalf("WriteReceipt: %v", err)
	}
	entries, err := os.ReadDir(jobDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != ReceiptFileName {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestWriteEpisodeSidecar(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	final := filepath.Join(dir, "The Wire - S02E05 - Undertow.mkv")
	side := EpisodeSidecar{
		Type:             "tv",
		Series:           "The Wire",
		Season:           2,
		Disc:             2,
		EpisodeCode:      "S02E05",
		EpisodeTitle:     "Undertow",
		SourceTitleIndex: 3,
		SourceFilename:   "title_t03.mkv",
		DurationSeconds:  3542,
		SizeBytes:        4 << 30,
		JobDir:           "/raw/The Wire - S02D02",
		FinalPath:        final,
		MappedAt:         time.Now().UTC(),
	}
	if err := WriteEpisodeSidecar(final, side); err != nil {
		t.Fatalf("WriteEpisodeSidecar: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "The Wire - S02E05 - Undertow.discmapper.json"))
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	var got EpisodeSidecar
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal sidecar: %v", err)
	}
	if got.EpisodeCode != "S02E05" || got.SourceFilename != "title_t03.mkv" {
		t.Fatalf("sidecar mismatch: %+v", got)
	}
}

func TestJobCardOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	jobDir := t.TempDir()
	card := JobCard{Type: "movie", Title: "Heat", Year: 1995, IMDBID: "tt0113277", QueuePos: 1, QueueTotal: 4, CreatedAt: time.Now().UTC()}
	if err := WriteJobCard(jobDir, card); err != nil {
		t.Fatalf("WriteJobCard: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(jobDir, JobFileName))
	if err != nil {
		t.Fatal(err)
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		t.Fatal(err)
	}
	if _, present := asMap["series"]; present {
		t.Fatalf("empty series field serialized: %s", raw)
	}
	if asMap["title"] != "Heat" {
		t.Fatalf("title missing: %s", raw)
	}
}
