package queue

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"discmapper/internal/manifest"
)

// Kind distinguishes the two job shapes.
type Kind string

const (
	KindTV    Kind = "tv"
	KindMovie Kind = "movie"
)

// Status represents the lifecycle of a queue job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	// StatusReview means outputs exist but classification could not commit;
	// the job directory was relocated for a human decision.
	StatusReview Status = "review"
	// StatusUnable means the disc produced nothing usable.
	StatusUnable Status = "unable"
	StatusFailed Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusReview,
	StatusUnable,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a job in this status will never run again.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusReview, StatusUnable, StatusFailed:
		return true
	}
	return false
}

// Job is one disc waiting for (or finished with) capture.
type Job struct {
	ID     int64
	Kind   Kind
	Status Status

	// Title is the series name for TV jobs and the movie title otherwise.
	Title        string
	Season       int
	Disc         int
	Year         int
	IMDBID       string
	PackageIndex int
	Barcode      string
	Format       string

	// EpisodesJSON is the manifest payload for TV jobs: the expected
	// episodes in manifest order.
	EpisodesJSON string

	JobDir       string
	ErrorMessage string
	Reason       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetEpisodes stores the expected-episode payload.
func (j *Job) SetEpisodes(episodes []manifest.Episode) error {
	data, err := json.Marshal(episodes)
	if err != nil {
		return err
	}
	j.EpisodesJSON = string(data)
	return nil
}

// Episodes decodes the expected-episode payload. Nil for movie jobs.
func (j *Job) Episodes() ([]manifest.Episode, error) {
	if strings.TrimSpace(j.EpisodesJSON) == "" {
		return nil, nil
	}
	var episodes []manifest.Episode
	if err := json.Unmarshal([]byte(j.EpisodesJSON), &episodes); err != nil {
		return nil, err
	}
	return episodes, nil
}

// Label is the single-line description used in logs and the queue table.
func (j *Job) Label() string {
	if j.Kind == KindTV {
		return fmt.Sprintf("%s S%02dD%02d", j.Title, j.Season, j.Disc)
	}
	if j.Year > 0 {
		return fmt.Sprintf("%s (%d)", j.Title, j.Year)
	}
	return j.Title
}
