package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"discmapper/internal/config"
	"discmapper/internal/logging"
	"discmapper/internal/manifest"
	"discmapper/internal/pipeline"
	"discmapper/internal/queue"
	"discmapper/internal/receipt"
)

type fakeJobRunner struct {
	labels   []string
	outcomes []string
	err      error
	failOn   int
}

func (f *fakeJobRunner) Run(_ context.Context, job pipeline.Job, jobDir string) (*pipeline.Report, error) {
	f.labels = append(f.labels, job.Label())
	if f.err != nil && len(f.labels) == f.failOn {
		return nil, f.err
	}
	outcome := receipt.StatusSuccess
	if len(f.outcomes) >= len(f.labels) {
		outcome = f.outcomes[len(f.labels)-1]
	}
	return &pipeline.Report{Outcome: outcome, Reason: "test", JobDir: jobDir}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	return &cfg
}

func testStore(t *testing.T) *queue.Store {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func addMovie(t *testing.T, store *queue.Store, title string) *queue.Job {
	t.Helper()
	job, err := store.Add(context.Background(), &queue.Job{Kind: queue.KindMovie, Title: title})
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	return job
}

func addTV(t *testing.T, store *queue.Store, series string) *queue.Job {
	t.Helper()
	job := &queue.Job{Kind: queue.KindTV, Title: series, Season: 1, Disc: 1}
	if err := job.SetEpisodes([]manifest.Episode{
		{Series: series, Season: 1, Disc: 1, EpisodeNumber: 1, EpisodeCode: "S01E01", MinMinutes: 20, MaxMinutes: 26},
	}); err != nil {
		t.Fatal(err)
	}
	added, err := store.Add(context.Background(), job)
	if err != nil {
		t.Fatalf("add job: %v", err)
	}
	return added
}

func TestRunDrainsQueueInOrder(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	store := testStore(t)
	addMovie(t, store, "First")
	addTV(t, store, "Second Show")
	addMovie(t, store, "Third")

	jobs := &fakeJobRunner{}
	r, err := New(cfg, logging.NewNop(), store, jobs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stats, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Processed != 3 || stats.Completed != 3 {
		t.Fatalf("stats %+v", stats)
	}

	want := []string{"First", "Second Show S01D01", "Third"}
	if len(jobs.labels) != len(want) {
		t.Fatalf("ran %v", jobs.labels)
	}
	for i, label := range want {
		if jobs.labels[i] != label {
			t.Errorf("job %d ran as %q, want %q", i, jobs.labels[i], label)
		}
	}

	remaining, err := store.List(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 0 {
		t.Fatalf("%d jobs still pending", len(remaining))
	}
}

func TestRunRecordsQuarantineOutcomes(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	store := testStore(t)
	addMovie(t, store, "Good")
	addMovie(t, store, "Uncertain")
	addMovie(t, store, "Unreadable")

	jobs := &fakeJobRunner{outcomes: []string{receipt.StatusSuccess, receipt.StatusReview, receipt.StatusUnable}}
	r, err := New(cfg, logging.NewNop(), store, jobs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stats, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Completed != 1 || stats.Review != 1 || stats.Unable != 1 {
		t.Fatalf("stats %+v", stats)
	}

	all, err := store.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	wantStatuses := []queue.Status{queue.StatusCompleted, queue.StatusReview, queue.StatusUnable}
	for i, job := range all {
		if job.Status != wantStatuses[i] {
			t.Errorf("job %d status %s, want %s", i, job.Status, wantStatuses[i])
		}
	}
}

func TestRunFatalErrorRollsJobBack(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	store := testStore(t)
	addMovie(t, store, "Stalls")
	addMovie(t, store, "Never Reached")

	jobs := &fakeJobRunner{err: pipeline.ErrDiscWaitTimeout, failOn: 1}
	r, err := New(cfg, logging.NewNop(), store, jobs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = r.Run(context.Background())
	if !errors.Is(err, pipeline.ErrDiscWaitTimeout) {
		t.Fatalf("err = %v, want disc-wait timeout", err)
	}
	if len(jobs.labels) != 1 {
		t.Fatalf("ran %d jobs after fatal error", len(jobs.labels))
	}

	pending, listErr := store.List(context.Background(), queue.StatusPending)
	if listErr != nil {
		t.Fatal(listErr)
	}
	if len(pending) != 2 {
		t.Fatalf("%d pending jobs, want both (in-flight rolled back)", len(pending))
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	other := flock.New(filepath.Join(cfg.Paths.StagingDir, lockFileName))
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("pre-lock failed: %v", err)
	}
	defer func() { _ = other.Unlock() }()

	store := testStore(t)
	r, err := New(cfg, logging.NewNop(), store, &fakeJobRunner{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v, want ErrAlreadyRunning", err)
	}
}

func TestRunCreatesJobDirWithCard(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	store := testStore(t)
	addTV(t, store, "The Wire")

	jobs := &fakeJobRunner{}
	r, err := New(cfg, logging.NewNop(), store, jobs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	job, err := store.GetByID(context.Background(), 1)
	if err != nil || job == nil {
		t.Fatalf("get job: %v", err)
	}
	if job.JobDir == "" {
		t.Fatal("job dir not recorded")
	}
	if filepath.Dir(job.JobDir) != cfg.Staging("TV").Raw {
		t.Fatalf("job dir %s outside TV raw area", job.JobDir)
	}
	if _, err := os.Stat(filepath.Join(job.JobDir, receipt.JobFileName)); err != nil {
		t.Fatalf("job card missing: %v", err)
	}
}

func TestToPipelineJobRejectsEmptyTVPayload(t *testing.T) {
	t.Parallel()

	if _, err := toPipelineJob(&queue.Job{Kind: queue.KindTV, Title: "Empty"}); err == nil {
		t.Fatal("expected error for tv job without episodes")
	}
	if _, err := toPipelineJob(&queue.Job{Kind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
