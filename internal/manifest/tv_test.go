package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

const tvManifestCSV = "\ufeff" + `Series,Season,Disc,SxxEyy,Episode Number,Episode Title,Min run length,Max run length,index,Upc,IMDb Url,TVMaze Show ID
The Wire,2,Disc 1,S02E02,2,Collateral Damage,55,60,4,796019802345,https://www.imdb.com/title/tt0306414/,179
The Wire,2,Disc 1,S02E01,1,Ebb Tide,55,60,4,796019802345,https://www.imdb.com/title/tt0306414/,179
The Wire,2,Disc 2,S02E04,4,Hard Cases,,,4,796019802345,https://www.imdb.com/title/tt0306414/,179
Archer,1,1,S01E01,1,Mole Hunt,20,24,,,https://www.imdb.com/title/tt1486217/,315
,2,Disc 1,S02E03,3,orphan row,,,,,,
The Wire,,Disc 1,S02E03,3,no season,,,,,,
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tv_manifest.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadTVManifestGroupsAndSorts(t *testing.T) {
	t.Parallel()

	index, err := ReadTVManifest(writeManifest(t, tvManifestCSV), nil)
	if err != nil {
		t.Fatalf("ReadTVManifest: %v", err)
	}

	if index.IgnoredRows != 2 {
		t.Fatalf("ignored %d rows, want 2", index.IgnoredRows)
	}
	if len(index.Discs) != 3 {
		t.Fatalf("got %d discs, want 3: %+v", len(index.Discs), index.Discs)
	}

	// Discs sort by series (case-insensitive), season, disc.
	if index.Discs[0].Series != "Archer" {
		t.Fatalf("first disc %q", index.Discs[0].Series)
	}
	wire1 := index.Discs[1]
	if wire1.Series != "The Wire" || wire1.Season != 2 || wire1.Disc != 1 {
		t.Fatalf("second disc %+v", wire1)
	}

	// Episodes within a disc sort by episode number.
	if len(wire1.Episodes) != 2 || wire1.Episodes[0].EpisodeCode != "S02E01" {
		t.Fatalf("episode order wrong: %+v", wire1.Episodes)
	}

	ep := wire1.Episodes[0]
	if ep.IMDBID != "tt0306414" {
		t.Fatalf("imdb id %q", ep.IMDBID)
	}
	if !ep.DeclaredRuntime || ep.MinMinutes != 55 || ep.MaxMinutes != 60 {
		t.Fatalf("declared runtime wrong: %+v", ep)
	}
	if ep.PackageIndex != 4 {
		t.Fatalf("package index %d", ep.PackageIndex)
	}

	// Disc 2's episode has no runtime bounds.
	if wire2 := index.Discs[2]; wire2.Episodes[0].DeclaredRuntime {
		t.Fatalf("runtime declared without bounds: %+v", wire2.Episodes[0])
	}
}

func TestReadTVManifestYearLookupCachedPerShow(t *testing.T) {
	t.Parallel()

	calls := map[int]int{}
	lookup := func(showID int) (int, bool) {
		calls[showID]++
		if showID == 179 {
			return 2002, true
		}
		return 0, false
	}

	index, err := ReadTVManifest(writeManifest(t, tvManifestCSV), lookup)
	if err != nil {
		t.Fatalf("ReadTVManifest: %v", err)
	}

	if calls[179] != 1 {
		t.Fatalf("show 179 looked up %d times, want 1", calls[179])
	}
	if calls[315] != 1 {
		t.Fatalf("show 315 looked up %d times, want 1", calls[315])
	}
	for _, disc := range index.Discs {
		if disc.Series == "The Wire" && disc.ShowYear != 2002 {
			t.Fatalf("show year not propagated: %+v", disc)
		}
		if disc.Series == "Archer" && disc.ShowYear != 0 {
			t.Fatalf("failed lookup should leave year empty: %+v", disc)
		}
	}
}

func TestDiscJobMinDeclaredMinutes(t *testing.T) {
	t.Parallel()

	job := DiscJob{Episodes: []Episode{
		{DeclaredRuntime: true, MinMinutes: 55, MaxMinutes: 60},
		{DeclaredRuntime: true, MinMinutes: 22, MaxMinutes: 24},
		{DeclaredRuntime: false},
	}}
	if got := job.MinDeclaredMinutes(); got != 22 {
		t.Fatalf("got %d, want 22", got)
	}

	none := DiscJob{Episodes: []Episode{{}}}
	if got := none.MinDeclaredMinutes(); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}
