// Package receipt persists the audit trail a capture job leaves behind: a
// per-job receipt in the raw job directory and an optional per-deliverable
// sidecar next to the final file. Both are JSON written atomically so a
// crash mid-write never leaves a truncated document.
package receipt

import (
	"path/filepath"
	"strings"
	"time"

	"discmapper/internal/fileutil"
)

const (
	// JobFileName marks a raw job directory with the queue entry that
	// created it.
	JobFileName = ".discmapper.job.json"
	// ReceiptFileName is the job outcome document.
	ReceiptFileName = ".discmapper.receipt.json"
	// sidecarSuffix replaces the deliverable's extension.
	sidecarSuffix = ".discmapper.json"
)

// Outcome statuses recorded in receipts.
const (
	StatusSuccess = "success"
	StatusReview  = "review"
	StatusUnable  = "unable"
)

// Candidate is the measured metadata of one ripped title, kept in full in
// receipts so a human reviewing a quarantined job sees what the engine saw.
type Candidate struct {
	Path            string  `json:"path"`
	Name            string  `json:"name"`
	SizeBytes       int64   `json:"size_bytes"`
	DurationSeconds int     `json:"duration_s"`
	DurationMinutes float64 `json:"duration_min"`
	TitleIndex      int     `json:"title_index"`
	VideoStreams    int     `json:"video_streams"`
	AudioStreams    int     `json:"audio_streams"`
	SubtitleStreams int     `json:"subtitle_streams"`
}

// JobCard identifies the queue entry a raw job directory belongs to.
type JobCard struct {
	Type         string    `json:"type"`
	Title        string    `json:"title,omitempty"`
	Series       string    `json:"series,omitempty"`
	Season       int       `json:"season,omitempty"`
	Disc         int       `json:"disc,omitempty"`
	Year         int       `json:"year,omitempty"`
	IMDBID       string    `json:"imdb_id,omitempty"`
	PackageIndex int       `json:"pkg_index,omitempty"`
	Barcode      string    `json:"barcode,omitempty"`
	QueuePos     int       `json:"queue_pos"`
	QueueTotal   int       `json:"queue_total"`
	CreatedAt    time.Time `json:"created_at"`
}

// Receipt is the final word on a job: how it ended, why, and what was seen.
type Receipt struct {
	Status      string      `json:"status"`
	Reason      string      `json:"reason"`
	KeeperDest  string      `json:"keeper_dest,omitempty"`
	MovedFiles  []string    `json:"moved_files,omitempty"`
	Candidates  []Candidate `json:"candidates,omitempty"`
	CompletedAt time.Time   `json:"completed_at"`
}

// EpisodeSidecar travels with one placed episode file.
type EpisodeSidecar struct {
	Type             string    `json:"type"`
	Series           string    `json:"series"`
	Season           int       `json:"season"`
	Disc             int       `json:"disc"`
	ShowYear         int       `json:"show_year,omitempty"`
	IMDBID           string    `json:"imdb_id,omitempty"`
	EpisodeCode      string    `json:"sxxeyy"`
	EpisodeTitle     string    `json:"episode_title,omitempty"`
	PackageIndex     int       `json:"index,omitempty"`
	UPC              string    `json:"upc,omitempty"`
	SourceTitleIndex int       `json:"source_title_index"`
	SourceFilename   string    `json:"source_filename"`
	DurationSeconds  int       `json:"duration_s"`
	SizeBytes        int64     `json:"bytes"`
	JobDir           string    `json:"ripped_job_dir"`
	FinalPath        string    `json:"final_path"`
	MappedAt         time.Time `json:"mapped_at"`
}

// MovieSidecar travels with one placed movie file.
type MovieSidecar struct {
	Type            string      `json:"type"`
	Title           string      `json:"title"`
	Year            int         `json:"year,omitempty"`
	IMDBID          string      `json:"imdb_id"`
	PackageIndex    int         `json:"pkg_index,omitempty"`
	Barcode         string      `json:"barcode,omitempty"`
	Reason          string      `json:"reason"`
	Candidates      []Candidate `json:"candidates,omitempty"`
	JobDir          string      `json:"job_dir"`
	KeeperSource    string      `json:"keeper_source"`
	KeeperDest      string      `json:"keeper_dest"`
	DurationSeconds int         `json:"duration_s,omitempty"`
	SizeBytes       int64       `json:"bytes,omitempty"`
	CompletedAt     time.Time   `json:"completed_at"`
}

// SidecarPath places the sidecar next to the deliverable, swapping the
// container extension for the sidecar suffix.
func SidecarPath(finalPath string) string {
	ext := filepath.Ext(finalPath)
	return strings.TrimSuffix(finalPath, ext) + sidecarSuffix
}

// WriteJobCard records the queue entry inside its raw job directory.
func WriteJobCard(jobDir string, card JobCard) error {
	return fileutil.WriteJSONAtomic(filepath.Join(jobDir, JobFileName), card)
}

// WriteReceipt records the job outcome inside its raw job directory.
func WriteReceipt(jobDir string, rec Receipt) error {
	return fileutil.WriteJSONAtomic(filepath.Join(jobDir, ReceiptFileName), rec)
}

// WriteEpisodeSidecar writes the sidecar for a placed episode.
func WriteEpisodeSidecar(finalPath string, side EpisodeSidecar) error {
	return fileutil.WriteJSONAtomic(SidecarPath(finalPath), side)
}

// WriteMovieSidecar writes the sidecar for a placed movie.
func WriteMovieSidecar(finalPath string, side MovieSidecar) error {
	return fileutil.WriteJSONAtomic(SidecarPath(finalPath), side)
}
