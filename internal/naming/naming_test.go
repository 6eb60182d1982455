package naming

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSafeFileNameReplacesUnsafeCharacters(t *testing.T) {
	t.Parallel()

	got := SafeFileName(` Mission: Impossible * "Fallout" <Disc/1> `)
	want := "Mission_ Impossible _ _Fallout_ _Disc_1_"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSafeFileNameCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	if got := SafeFileName("The   Wire \t Season  2"); got != "The Wire Season 2" {
		t.Fatalf("got %q", got)
	}
}

func TestFallbackTitleFromDiscLabel(t *testing.T) {
	t.Parallel()

	if got := FallbackTitle("THE_WIRE_S2_D1"); got != "The Wire S2 D1" {
		t.Fatalf("got %q", got)
	}
	if got := FallbackTitle("###"); got != "Unknown Disc" {
		t.Fatalf("got %q", got)
	}
}

func TestShowFolderComponents(t *testing.T) {
	t.Parallel()

	opts := Options{IncludeYear: true, IncludeIMDBID: true}
	got := ShowFolder("The Wire", 2002, "tt0306414", opts)
	if got != "The Wire (2002) {imdb-tt0306414}" {
		t.Fatalf("got %q", got)
	}

	// Unknown year drops the parenthetical rather than writing (0).
	if got := ShowFolder("The Wire", 0, "tt0306414", opts); got != "The Wire {imdb-tt0306414}" {
		t.Fatalf("got %q", got)
	}
	if got := ShowFolder("The Wire", 2002, "", opts); got != "The Wire (2002)" {
		t.Fatalf("got %q", got)
	}
}

func TestSeasonFolderZeroPads(t *testing.T) {
	t.Parallel()

	if got := SeasonFolder(2); got != "Season 02" {
		t.Fatalf("got %q", got)
	}
}

func TestEpisodeCode(t *testing.T) {
	t.Parallel()

	if got := EpisodeCode(2, 5); got != "S02E05" {
		t.Fatalf("got %q", got)
	}
	if got := EpisodeCode(2, 0); got != "S02E??" {
		t.Fatalf("got %q", got)
	}
}

func TestEpisodeFileName(t *testing.T) {
	t.Parallel()

	opts := Options{AppendPackageIndex: true}
	got := EpisodeFileName("The Wire", "S02E05", "Undertow", 3, opts)
	if got != "The Wire - S02E05 - Undertow [IDX3].mkv" {
		t.Fatalf("got %q", got)
	}

	got = EpisodeFileName("The Wire", "S02E05", "", 0, opts)
	if got != "The Wire - S02E05.mkv" {
		t.Fatalf("got %q", got)
	}

	got = EpisodeFileName("The Wire", "S02E05", "Undertow", 3, Options{})
	if got != "The Wire - S02E05 - Undertow.mkv" {
		t.Fatalf("got %q", got)
	}
}

func TestMovieFileName(t *testing.T) {
	t.Parallel()

	opts := Options{IncludeYear: true, IncludeIMDBID: true, AppendPackageIndex: true}
	got := MovieFileName("Heat", 1995, "tt0113277", 2, opts)
	if got != "Heat (1995) {imdb-tt0113277} [IDX2].mkv" {
		t.Fatalf("got %q", got)
	}

	if got := MovieFileName("Heat", 0, "tt0113277", 0, opts); got != "Heat {imdb-tt0113277}.mkv" {
		t.Fatalf("got %q", got)
	}
}

func TestUniquePathNumbersCollisions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Heat (1995).mkv")

	if got := UniquePath(path); got != path {
		t.Fatalf("free path renamed to %q", got)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := UniquePath(path); got != filepath.Join(dir, "Heat (1995) (1).mkv") {
		t.Fatalf("got %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "Heat (1995) (1).mkv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := UniquePath(path); got != filepath.Join(dir, "Heat (1995) (2).mkv") {
		t.Fatalf("got %q", got)
	}
}

func TestDupStampPath(t *testing.T) {
	t.Parallel()

	stamp := time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC)
	got := DupStampPath("/out/The Wire - S02E05.mkv", stamp)
	if got != "/out/The Wire - S02E05__dup_20240309_143005.mkv" {
		t.Fatalf("got %q", got)
	}
}
