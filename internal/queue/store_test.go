package queue

import (
	"context"
	"path/filepath"
	"testing"

	"discmapper/internal/manifest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAssignsIDAndDefaults(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	job, err := store.Add(ctx, &Job{Kind: KindMovie, Title: "Heat", Year: 1995, IMDBID: "tt0113277"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if job.ID == 0 {
		t.Fatal("job id not assigned")
	}
	if job.Status != StatusPending {
		t.Fatalf("status %q, want pending", job.Status)
	}
	if job.CreatedAt.IsZero() || job.UpdatedAt.IsZero() {
		t.Fatalf("timestamps not set: %+v", job)
	}
}

func TestNextPendingPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := store.Add(ctx, &Job{Kind: KindMovie, Title: title}); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	for _, want := range []string{"first", "second", "third"} {
		job, err := store.NextPending(ctx)
		if err != nil {
			t.Fatalf("NextPending: %v", err)
		}
		if job == nil || job.Title != want {
			t.Fatalf("got %+v, want title %q", job, want)
		}
		job.Status = StatusCompleted
		if err := store.Update(ctx, job); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	job, err := store.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if job != nil {
		t.Fatalf("expected drained queue, got %+v", job)
	}
}

func TestEpisodesPayloadRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	job := &Job{Kind: KindTV, Title: "The Wire", Season: 2, Disc: 1}
	episodes := []manifest.Episode{
		{Series: "The Wire", Season: 2, Disc: 1, EpisodeCode: "S02E01", EpisodeNumber: 1, DeclaredRuntime: true, MinMinutes: 55, MaxMinutes: 60},
		{Series: "The Wire", Season: 2, Disc: 1, EpisodeCode: "S02E02", EpisodeNumber: 2, DeclaredRuntime: true, MinMinutes: 55, MaxMinutes: 60},
	}
	if err := job.SetEpisodes(episodes); err != nil {
		t.Fatalf("SetEpisodes: %v", err)
	}

	added, err := store.Add(ctx, job)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, err := added.Episodes()
	if err != nil {
		t.Fatalf("Episodes: %v", err)
	}
	if len(got) != 2 || got[0].EpisodeCode != "S02E01" || !got[1].DeclaredRuntime {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Add(ctx, &Job{Kind: KindMovie, Title: "a"})
	b, _ := store.Add(ctx, &Job{Kind: KindMovie, Title: "b"})
	if _, err := store.Add(ctx, &Job{Kind: KindMovie, Title: "c"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	a.Status = StatusCompleted
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	b.Status = StatusReview
	b.Reason = "mapping uncertain"
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}

	quarantined, err := store.List(ctx, StatusReview, StatusUnable)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(quarantined) != 1 || quarantined[0].Title != "b" || quarantined[0].Reason != "mapping uncertain" {
		t.Fatalf("got %+v", quarantined)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d jobs, want 3", len(all))
	}
}

func TestClearCompletedLeavesOtherJobs(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	done, _ := store.Add(ctx, &Job{Kind: KindMovie, Title: "done"})
	done.Status = StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := store.Add(ctx, &Job{Kind: KindMovie, Title: "waiting"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed %d, want 1", removed)
	}
	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Title != "waiting" {
		t.Fatalf("got %+v", remaining)
	}
}

func TestResetStuckRollsProcessingBack(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	job, _ := store.Add(ctx, &Job{Kind: KindTV, Title: "stuck"})
	job.Status = StatusProcessing
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update: %v", err)
	}

	n, err := store.ResetStuck(ctx)
	if err != nil {
		t.Fatalf("ResetStuck: %v", err)
	}
	if n != 1 {
		t.Fatalf("reset %d jobs, want 1", n)
	}
	next, err := store.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if next == nil || next.Title != "stuck" {
		t.Fatalf("got %+v", next)
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	if status, ok := ParseStatus(" Review "); !ok || status != StatusReview {
		t.Fatalf("got %q, %v", status, ok)
	}
	if _, ok := ParseStatus("ripping"); ok {
		t.Fatal("unknown status accepted")
	}
	if !StatusUnable.IsTerminal() || StatusPending.IsTerminal() {
		t.Fatal("terminal classification wrong")
	}
}

func TestJobLabel(t *testing.T) {
	t.Parallel()

	tv := &Job{Kind: KindTV, Title: "The Wire", Season: 2, Disc: 1}
	if got := tv.Label(); got != "The Wire S02D01" {
		t.Fatalf("got %q", got)
	}
	movie := &Job{Kind: KindMovie, Title: "Heat", Year: 1995}
	if got := movie.Label(); got != "Heat (1995)" {
		t.Fatalf("got %q", got)
	}
}
