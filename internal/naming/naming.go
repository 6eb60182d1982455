package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// unsafeReplacer maps the characters Windows filesystems reject onto
// underscores, matching how existing libraries on disc were named.
var unsafeReplacer = strings.NewReplacer(
	"<", "_",
	">", "_",
	":", "_",
	"\"", "_",
	"/", "_",
	"\\", "_",
	"|", "_",
	"?", "_",
	"*", "_",
)

// SafeFileName replaces filesystem-unsafe characters with underscores and
// collapses runs of whitespace to a single space.
func SafeFileName(name string) string {
	name = unsafeReplacer.Replace(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

// FallbackTitle derives a display title from a raw disc label such as
// "THE_WIRE_S2_D1" when no manifest entry names the content.
func FallbackTitle(label string) string {
	var cleaned strings.Builder
	prevSpace := false
	for _, r := range label {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Disc"
	}
	return cases.Title(language.Und).String(strings.ToLower(title))
}

// Options selects the optional naming components. A zero PackageIndex on the
// episode and movie builders means the disc belongs to no boxed package and
// AppendPackageIndex has no effect.
type Options struct {
	IncludeYear        bool
	IncludeIMDBID      bool
	AppendPackageIndex bool
}

// ShowFolder is "Series (Year) {imdb-ttID}", dropping the year when unknown
// or excluded and the id tag when unknown or excluded.
func ShowFolder(series string, year int, imdbID string, opts Options) string {
	name := SafeFileName(series)
	if opts.IncludeYear && year > 0 {
		name = fmt.Sprintf("%s (%d)", name, year)
	}
	if opts.IncludeIMDBID && imdbID != "" {
		name = fmt.Sprintf("%s {imdb-%s}", name, imdbID)
	}
	return name
}

// SeasonFolder is "Season SS" with a two-digit season number.
func SeasonFolder(season int) string {
	return fmt.Sprintf("Season %02d", season)
}

// EpisodeCode formats the SxxEyy marker. An unknown episode number renders
// as "E??" so a misfiled deliverable is visible rather than silently wrong.
func EpisodeCode(season, episode int) string {
	if episode <= 0 {
		return fmt.Sprintf("S%02dE??", season)
	}
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// EpisodeFileName is "Series - SxxEyy - Title [IDXn].mkv". The episode title
// and the package-index tag are omitted when absent.
func EpisodeFileName(series, episodeCode, episodeTitle string, packageIndex int, opts Options) string {
	name := SafeFileName(series) + " - " + strings.TrimSpace(episodeCode)
	if title := SafeFileName(episodeTitle); title != "" {
		name += " - " + title
	}
	if opts.AppendPackageIndex && packageIndex > 0 {
		name += fmt.Sprintf(" [IDX%d]", packageIndex)
	}
	return name + ".mkv"
}

// MovieBase is the shared folder and file stem for a movie deliverable:
// "Title (Year) {imdb-ttID} [IDXn]".
func MovieBase(title string, year int, imdbID string, packageIndex int, opts Options) string {
	name := SafeFileName(title)
	if opts.IncludeYear && year > 0 {
		name = fmt.Sprintf("%s (%d)", name, year)
	}
	if opts.IncludeIMDBID && imdbID != "" {
		name = fmt.Sprintf("%s {imdb-%s}", name, imdbID)
	}
	if opts.AppendPackageIndex && packageIndex > 0 {
		name += fmt.Sprintf(" [IDX%d]", packageIndex)
	}
	return name
}

// MovieFileName is MovieBase plus the container extension.
func MovieFileName(title string, year int, imdbID string, packageIndex int, opts Options) string {
	return MovieBase(title, year, imdbID, packageIndex, opts) + ".mkv"
}

// UniquePath returns path unchanged when nothing occupies it, otherwise the
// first "stem (n).ext" variant that is free.
func UniquePath(path string) string {
	if _, err := os.Lstat(path); err != nil {
		return path
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}

// DupStampPath appends a "__dup_<timestamp>" marker before the extension.
// Used for episode deliverables, where a collision means the same episode
// was captured twice and both copies must survive for review.
func DupStampPath(path string, now time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + "__dup_" + now.Format("20060102_150405") + ext
}
