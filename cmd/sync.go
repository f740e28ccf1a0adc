package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/trx/internal/models"
	"github.com/desertthunder/trx/internal/repositories"
	"github.com/desertthunder/trx/internal/shared"
	"github.com/desertthunder/trx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncRun reconciles the selected Trakt lists into Jellyfin playlists.
//
// Runs a single cycle by default. When an interval is configured (or given via
// --interval) it keeps cycling until interrupted, logging cycle failures and
// continuing.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	interval := r.config.Sync.IntervalMins
	if cmd.IsSet("interval") {
		interval = cmd.Int("interval")
	}
	if cmd.Bool("once") {
		interval = 0
	}

	engine, cleanup, err := r.newEngine()
	if err != nil {
		return err
	}
	defer cleanup()

	if interval <= 0 {
		result, err := r.runCycle(ctx, engine, useJSON)
		if err != nil {
			return err
		}
		if result.Failed > 0 {
			return fmt.Errorf("%w: %d list(s) failed to sync", shared.ErrApplyFailed, result.Failed)
		}
		return nil
	}

	r.logger.Info("starting continuous sync", "interval_mins", interval)
	r.writePlain("Syncing every %d minute(s). Press Ctrl+C to stop.\n\n", interval)

	for {
		if _, err := r.runCycle(ctx, engine, useJSON); err != nil {
			r.logger.Error("sync cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(interval) * time.Minute):
		}
	}
}

// runCycle executes one engine cycle with live progress output and prints a summary.
func (r *Runner) runCycle(ctx context.Context, engine *tasks.Engine, useJSON bool) (*tasks.CycleResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		if useJSON {
			for range progressCh {
			}
			return
		}
		for update := range progressCh {
			switch update.Phase {
			case tasks.CheckLists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.CheckPlaylist:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.FetchItems:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ResolveItems:
				if update.Step == 1 {
					r.writePlain("   matching %d item(s)...\n", update.Total)
				}
			case tasks.ApplyPlaylist:
				r.writePlain("📝 %s\n", update.Message)
			case tasks.CommitState:
				r.writePlain("✓ %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh)
	close(progressCh)
	<-rendered

	if err != nil {
		return nil, err
	}

	if useJSON {
		summary := cycleSummary(result)
		return result, r.writeJSON(summary, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete")
	r.writePlain("Committed: %d  Skipped: %d  Deferred: %d  Failed: %d\n", result.Committed, result.Skipped, result.Deferred, result.Failed)

	for _, list := range result.Lists {
		switch list.Outcome {
		case models.OutcomeCommitted:
			r.writePlain("  ✓ %s (%d/%d items)\n", list.Name, list.ItemsResolved, list.ItemsTotal)
		case models.OutcomeSkipped:
			r.writePlain("  = %s (up to date)\n", list.Name)
		case models.OutcomeDeferred:
			r.writePlain("  … %s (no items matched yet)\n", list.Name)
		case models.OutcomeFailed:
			r.writePlain("  ✗ %s: %v\n", list.Name, list.Err)
		}
	}

	return result, nil
}

// cycleSummary flattens a CycleResult into a JSON-friendly shape.
func cycleSummary(result *tasks.CycleResult) map[string]any {
	lists := make([]map[string]any, 0, len(result.Lists))
	for _, list := range result.Lists {
		entry := map[string]any{
			"slug":           list.Slug,
			"name":           list.Name,
			"outcome":        list.Outcome,
			"items_total":    list.ItemsTotal,
			"items_resolved": list.ItemsResolved,
		}
		if list.PlaylistID != "" {
			entry["playlist_id"] = list.PlaylistID
		}
		if list.Err != nil {
			entry["error"] = list.Err.Error()
		}
		lists = append(lists, entry)
	}

	return map[string]any{
		"committed": result.Committed,
		"skipped":   result.Skipped,
		"deferred":  result.Deferred,
		"failed":    result.Failed,
		"lists":     lists,
	}
}

// SyncHistory prints recent journal entries from the sync history database.
func (r *Runner) SyncHistory(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	slug := cmd.String("slug")
	limit := cmd.Int("limit")

	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: sync history requires a database path in config.toml", shared.ErrMissingConfig)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	history := repositories.NewHistoryRepository(db)

	criteria := map[string]any{"limit": limit}
	if slug != "" {
		criteria["slug"] = slug
	}

	records, err := history.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list sync history: %w", err)
	}

	if useJSON {
		entries := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			entries = append(entries, map[string]any{
				"sequence":       rec.Sequence(),
				"slug":           rec.Slug(),
				"outcome":        rec.Outcome(),
				"items_total":    rec.ItemsTotal(),
				"items_resolved": rec.ItemsResolved(),
				"error":          rec.ErrorMessage(),
				"started_at":     rec.StartedAt(),
				"completed_at":   rec.CompletedAt(),
			})
		}
		return r.writeJSON(entries, true)
	}

	if len(records) == 0 {
		return r.writePlain("No sync history recorded yet.\n")
	}

	r.writePlain("Last %d sync record(s):\n\n", len(records))
	for _, rec := range records {
		r.writePlain("#%d %s — %s (%d/%d items)\n", rec.Sequence(), rec.Slug(), rec.Outcome(), rec.ItemsResolved(), rec.ItemsTotal())
		if rec.ErrorMessage() != "" {
			r.writePlain("   error: %s\n", rec.ErrorMessage())
		}
	}

	return nil
}
