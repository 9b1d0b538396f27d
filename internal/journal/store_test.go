package journal_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"shoebox/internal/journal"
	"shoebox/internal/testsupport"
)

func TestOpenInitializesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run, err := store.StartRun(ctx, &journal.Run{
		RunID:      "run-1",
		InputRoot:  "/data/photos",
		OutputRoot: "/data/library",
		Mode:       journal.ModeMove,
		Policy:     "reroute",
	})
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("expected run ID to be assigned")
	}
	if run.Status != journal.RunStatusRunning {
		t.Fatalf("expected running status, got %s", run.Status)
	}
	if run.StartedAt.IsZero() {
		t.Fatal("expected started_at to be recorded")
	}

	fetched, err := store.RunByID(ctx, "run-1")
	if err != nil {
		t.Fatalf("RunByID failed: %v", err)
	}
	if fetched == nil || fetched.InputRoot != "/data/photos" {
		t.Fatalf("unexpected fetched run: %#v", fetched)
	}
}

func TestStartRunRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if _, err := store.StartRun(context.Background(), &journal.Run{InputRoot: "/in"}); err == nil {
		t.Fatal("expected error when run id missing")
	}
}

func TestRunByIDMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	run, err := store.RunByID(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("RunByID failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected nil run, got %#v", run)
	}
}

func TestFinishRunRecordsCounters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run := testsupport.StartRun(t, store, "/in", "/out")

	run.Processed = 4
	run.Skipped = 1
	run.Duplicates = 2
	run.Failures = 1
	run.Status = journal.RunStatusFailed
	run.ErrorMessage = "one file could not be moved"
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	stored, err := store.RunByID(ctx, run.RunID)
	if err != nil {
		t.Fatalf("RunByID failed: %v", err)
	}
	if stored.Status != journal.RunStatusFailed {
		t.Fatalf("expected failed status, got %s", stored.Status)
	}
	if stored.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}
	if stored.Processed != 4 || stored.Skipped != 1 || stored.Duplicates != 2 || stored.Failures != 1 {
		t.Fatalf("unexpected counters: %#v", stored)
	}
	if stored.ErrorMessage != "one file could not be moved" {
		t.Fatalf("unexpected error message %q", stored.ErrorMessage)
	}
	if !stored.Finished() {
		t.Fatal("expected Finished() to report true")
	}
}

func TestFinishRunDefaultsToCompleted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run := testsupport.StartRun(t, store, "/in", "/out")
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	stored, err := store.RunByID(ctx, run.RunID)
	if err != nil {
		t.Fatalf("RunByID failed: %v", err)
	}
	if stored.Status != journal.RunStatusCompleted {
		t.Fatalf("expected completed status, got %s", stored.Status)
	}
}

func TestRecordAndListEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	run := testsupport.StartRun(t, store, "/in", "/out")

	records := []*journal.Entry{
		{
			RunID:           run.RunID,
			SourcePath:      "/in/a.jpg",
			DestinationPath: "/out/2014/06/2014-06-01T10:00:00_abc.jpg",
			Outcome:         journal.OutcomeMoved,
			ContentHash:     "abc",
		},
		{
			RunID:      run.RunID,
			SourcePath: "/in/b.jpg",
			Outcome:    journal.OutcomeFailed,
			Detail:     "permission denied",
		},
	}
	for _, entry := range records {
		if err := store.RecordEntry(ctx, entry); err != nil {
			t.Fatalf("RecordEntry failed: %v", err)
		}
	}

	entries, err := store.RunEntries(ctx, run.RunID)
	if err != nil {
		t.Fatalf("RunEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SourcePath != "/in/a.jpg" || entries[0].Outcome != journal.OutcomeMoved {
		t.Fatalf("unexpected first entry: %#v", entries[0])
	}
	if entries[0].RecordedAt.IsZero() {
		t.Fatal("expected recorded_at to be set")
	}
	if entries[1].Detail != "permission denied" {
		t.Fatalf("unexpected detail %q", entries[1].Detail)
	}
}

func TestRecordEntryRequiresRunID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	err := store.RecordEntry(context.Background(), &journal.Entry{SourcePath: "/in/a.jpg"})
	if err == nil {
		t.Fatal("expected error when entry run id missing")
	}
}

func TestRecentRunsOrdering(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		if _, err := store.StartRun(ctx, &journal.Run{
			RunID:      fmt.Sprintf("run-%d", i),
			InputRoot:  "/in",
			OutputRoot: "/out",
			Mode:       journal.ModeMove,
			Policy:     "skip",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("StartRun failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-2" || runs[1].RunID != "run-1" {
		t.Fatalf("unexpected ordering: %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestPruneRemovesOldFinishedRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	old, err := store.StartRun(ctx, &journal.Run{
		RunID:      "run-old",
		InputRoot:  "/in",
		OutputRoot: "/out",
		Mode:       journal.ModeCopy,
		Policy:     "skip",
		StartedAt:  time.Now().UTC().AddDate(0, 0, -30),
	})
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if err := store.RecordEntry(ctx, &journal.Entry{
		RunID:      old.RunID,
		SourcePath: "/in/a.jpg",
		Outcome:    journal.OutcomeCopied,
	}); err != nil {
		t.Fatalf("RecordEntry failed: %v", err)
	}
	if err := store.FinishRun(ctx, old); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	recent := testsupport.StartRun(t, store, "/in", "/out")

	removed, err := store.Prune(ctx, 7)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 run pruned, got %d", removed)
	}

	gone, err := store.RunByID(ctx, old.RunID)
	if err != nil {
		t.Fatalf("RunByID failed: %v", err)
	}
	if gone != nil {
		t.Fatal("expected pruned run to be gone")
	}
	entries, err := store.RunEntries(ctx, old.RunID)
	if err != nil {
		t.Fatalf("RunEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected cascading delete of entries, got %d", len(entries))
	}

	kept, err := store.RunByID(ctx, recent.RunID)
	if err != nil {
		t.Fatalf("RunByID failed: %v", err)
	}
	if kept == nil {
		t.Fatal("expected recent run to survive pruning")
	}
}

func TestPruneKeepsRunningRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	if _, err := store.StartRun(ctx, &journal.Run{
		RunID:      "run-stale",
		InputRoot:  "/in",
		OutputRoot: "/out",
		Mode:       journal.ModeMove,
		Policy:     "skip",
		StartedAt:  time.Now().UTC().AddDate(0, 0, -30),
	}); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	removed, err := store.Prune(ctx, 7)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected running run to survive, pruned %d", removed)
	}
}

func TestPruneDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	removed, err := store.Prune(context.Background(), 0)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected prune disabled, removed %d", removed)
	}
}
