package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// Episode is one expected deliverable declared by the TV manifest.
type Episode struct {
	Series        string
	Season        int
	Disc          int
	ShowYear      int
	IMDBID        string
	IMDBURL       string
	EpisodeCode   string // SxxEyy as written in the manifest
	EpisodeNumber int    // 0 when the manifest leaves it blank
	EpisodeTitle  string
	// DeclaredRuntime is set when both runtime bounds are present; the
	// bounds are meaningless otherwise.
	DeclaredRuntime bool
	MinMinutes      int
	MaxMinutes      int
	PackageIndex    int
	UPC             string
	PhysicalTitle   string
	TVMazeShowID    int
}

// DiscJob groups the manifest rows for one physical disc, in episode order.
type DiscJob struct {
	Key      string
	Series   string
	Season   int
	Disc     int
	ShowYear int
	IMDBID   string
	Episodes []Episode
}

// TVIndex is the parsed manifest: per-disc jobs in capture order.
type TVIndex struct {
	Discs []DiscJob
	// IgnoredRows counts rows missing series, season or disc. Surfaced so
	// a half-filled manifest is noticed at import time, not at the drive.
	IgnoredRows int
}

// YearLookup resolves a TVMaze show id to a premiere year. Lookups are
// cached per import, so a flaky resolver is consulted once per show.
type YearLookup func(showID int) (int, bool)

// ReadTVManifest parses the episode manifest CSV. Rows missing the
// series/season/disc triple are counted and skipped; everything else is
// grouped per disc, episodes ordered by episode number with unnumbered rows
// last, discs ordered by series, season, disc.
func ReadTVManifest(path string, lookup YearLookup) (*TVIndex, error) {
	index := &TVIndex{}
	groups := make(map[string][]Episode)
	yearCache := make(map[int]int)

	err := readRows(path, func(r row) {
		series := r.get("Series")
		season, seasonOK := parseInt(r.get("Season"))
		disc, discOK := parseOrdinal(r.get("Disc"))
		if series == "" || !seasonOK || !discOK {
			index.IgnoredRows++
			return
		}

		ep := Episode{
			Series:        series,
			Season:        season,
			Disc:          disc,
			EpisodeCode:   r.get("SxxEyy"),
			EpisodeTitle:  r.get("Episode Title"),
			IMDBURL:       r.get("IMDb Url"),
			UPC:           r.get("Upc"),
			PhysicalTitle: r.get("Physical title", "Phyisical title"),
		}
		ep.IMDBID = ParseIMDBID(ep.IMDBURL)
		ep.EpisodeNumber, _ = parseInt(r.get("Episode Number"))
		ep.PackageIndex, _ = parseInt(r.get("index"))

		minRT, minOK := parseInt(r.get("Min run length"))
		maxRT, maxOK := parseInt(r.get("Max run length"))
		if minOK && maxOK {
			ep.DeclaredRuntime = true
			ep.MinMinutes = minRT
			ep.MaxMinutes = maxRT
		}

		if showID, ok := parseInt(r.get("TVMaze Show ID")); ok && showID > 0 {
			ep.TVMazeShowID = showID
			if lookup != nil {
				year, cached := yearCache[showID]
				if !cached {
					year, _ = lookup(showID)
					yearCache[showID] = year
				}
				ep.ShowYear = year
			}
		}

		key := discKey(series, season, disc)
		groups[key] = append(groups[key], ep)
	})
	if err != nil {
		return nil, err
	}

	for key, eps := range groups {
		sort.SliceStable(eps, func(a, b int) bool {
			an, bn := eps[a].EpisodeNumber, eps[b].EpisodeNumber
			if (an > 0) != (bn > 0) {
				return an > 0
			}
			return an < bn
		})
		index.Discs = append(index.Discs, DiscJob{
			Key:      key,
			Series:   eps[0].Series,
			Season:   eps[0].Season,
			Disc:     eps[0].Disc,
			ShowYear: eps[0].ShowYear,
			IMDBID:   eps[0].IMDBID,
			Episodes: eps,
		})
	}
	sort.Slice(index.Discs, func(a, b int) bool {
		da, db := index.Discs[a], index.Discs[b]
		sa, sb := strings.ToLower(da.Series), strings.ToLower(db.Series)
		if sa != sb {
			return sa < sb
		}
		if da.Season != db.Season {
			return da.Season < db.Season
		}
		return da.Disc < db.Disc
	})

	return index, nil
}

// MinDeclaredMinutes is the smallest declared episode minimum on the disc,
// or 0 when no episode declares one. Drives the manifest-aware capture
// floor so short episodes are not discarded at rip time.
func (d DiscJob) MinDeclaredMinutes() int {
	min := 0
	for _, ep := range d.Episodes {
		if !ep.DeclaredRuntime {
			continue
		}
		if min == 0 || ep.MinMinutes < min {
			min = ep.MinMinutes
		}
	}
	return min
}

func discKey(series string, season, disc int) string {
	return fmt.Sprintf("%s||S%02d||D%02d", series, season, disc)
}
