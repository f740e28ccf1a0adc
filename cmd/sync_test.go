package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/trx/internal/repositories"
	"github.com/desertthunder/trx/internal/services"
	"github.com/desertthunder/trx/internal/shared"
	"github.com/desertthunder/trx/internal/tasks"
	tu "github.com/desertthunder/trx/internal/testing"
)

func newSyncRunner(t *testing.T, source *tu.MockSource, target *tu.MockTarget) (*Runner, *bytes.Buffer, *repositories.StateStore) {
	t.Helper()

	logger := shared.NewLogger(&bytes.Buffer{})
	output := &bytes.Buffer{}
	store := repositories.NewStateStore(filepath.Join(t.TempDir(), "state.json"), logger)

	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Source: source,
		Target: target,
		Store:  store,
		Logger: logger,
		Output: output,
	})

	return runner, output, store
}

func TestRunCycle(t *testing.T) {
	source := &tu.MockSource{
		ListsFunc: func(ctx context.Context) ([]services.RemoteList, error) {
			return []services.RemoteList{
				{Slug: "noir", Name: "Noir", UpdatedAt: "2024-06-01T00:00:00Z", ItemCount: 1},
			}, nil
		},
		ListItemsFunc: func(ctx context.Context, slug string) ([]services.RemoteItem, error) {
			return []services.RemoteItem{
				{Kind: services.KindMovie, TMDB: 603, Title: "The Matrix"},
			}, nil
		},
	}
	target := &tu.MockTarget{
		CatalogFunc: func(ctx context.Context) ([]services.CatalogItem, error) {
			return []services.CatalogItem{
				{ID: "jf-1", Name: "The Matrix", ProviderIDs: map[string]string{"Tmdb": "603"}},
			}, nil
		},
	}

	t.Run("prints a summary for a committed list", func(t *testing.T) {
		runner, output, store := newSyncRunner(t, source, target)

		state := store.Load()
		state.SelectedSlugs = []string{"noir"}
		if err := store.Save(state); err != nil {
			t.Fatalf("failed to seed state: %v", err)
		}

		engine := tasks.NewEngine(runner.source, runner.target, store, runner.logger)
		result, err := runner.runCycle(context.Background(), engine, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Committed != 1 {
			t.Errorf("expected 1 committed list, got %d", result.Committed)
		}
		if !strings.Contains(output.String(), "Sync Complete") {
			t.Errorf("expected summary header, got %q", output.String())
		}
		if !strings.Contains(output.String(), "Noir (1/1 items)") {
			t.Errorf("expected per-list line, got %q", output.String())
		}
	})

	t.Run("json mode emits the summary as JSON only", func(t *testing.T) {
		runner, output, store := newSyncRunner(t, source, target)

		state := store.Load()
		state.SelectedSlugs = []string{"noir"}
		if err := store.Save(state); err != nil {
			t.Fatalf("failed to seed state: %v", err)
		}

		engine := tasks.NewEngine(runner.source, runner.target, store, runner.logger)
		if _, err := runner.runCycle(context.Background(), engine, true); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		if !strings.Contains(out, `"committed": 1`) {
			t.Errorf("expected committed count in JSON, got %q", out)
		}
		if strings.Contains(out, "Sync Complete") {
			t.Errorf("expected no plain summary in JSON mode, got %q", out)
		}
	})
}

func TestCycleSummary(t *testing.T) {
	result := &tasks.CycleResult{
		Committed: 1,
		Failed:    1,
		Lists: []tasks.ListResult{
			{Slug: "noir", Name: "Noir", Outcome: "committed", PlaylistID: "p1", ItemsTotal: 2, ItemsResolved: 2},
			{Slug: "bad", Name: "Bad", Outcome: "failed", Err: context.DeadlineExceeded},
		},
	}

	summary := cycleSummary(result)
	lists, ok := summary["lists"].([]map[string]any)
	if !ok || len(lists) != 2 {
		t.Fatalf("expected 2 list entries, got %v", summary["lists"])
	}

	if lists[0]["playlist_id"] != "p1" {
		t.Errorf("expected playlist id carried over, got %v", lists[0]["playlist_id"])
	}
	if _, present := lists[0]["error"]; present {
		t.Error("expected no error key for a committed list")
	}
	if lists[1]["error"] != context.DeadlineExceeded.Error() {
		t.Errorf("expected error message for failed list, got %v", lists[1]["error"])
	}
}
