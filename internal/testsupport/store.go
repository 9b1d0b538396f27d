package testsupport

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"shoebox/internal/config"
	"shoebox/internal/journal"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// StartRun records a new run for tests using the provided store.
func StartRun(t testing.TB, store *journal.Store, inputRoot, outputRoot string) *journal.Run {
	t.Helper()

	run, err := store.StartRun(context.Background(), &journal.Run{
		RunID:      uuid.NewString(),
		InputRoot:  inputRoot,
		OutputRoot: outputRoot,
		Mode:       journal.ModeMove,
		Policy:     "reroute",
	})
	if err != nil {
		t.Fatalf("store.StartRun: %v", err)
	}
	return run
}
