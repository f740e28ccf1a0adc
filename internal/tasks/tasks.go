// package tasks implements the reconciliation engine syncing remote lists into playlists.
//
// The core abstraction is Engine, which drives one sync cycle: check each
// selected list's freshness marker, fetch and resolve stale lists, rewrite the
// matching playlist, and commit the new marker. Operations emit progress
// updates via channels for non-blocking status reporting to the CLI layer.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trx/internal/models"
	"github.com/desertthunder/trx/internal/repositories"
	"github.com/desertthunder/trx/internal/services"
	"github.com/desertthunder/trx/internal/shared"
)

// ListResult records the outcome of reconciling a single list.
type ListResult struct {
	Slug          string // List slug on the source service, also the playlist name
	Name          string // Display name on the source service
	PlaylistID    string // Target playlist id, when one was touched
	Marker        string // Freshness marker recorded for the list
	Outcome       string // One of the models outcome constants
	ItemsTotal    int    // Resolvable items the list carried
	ItemsResolved int    // Items matched against the library
	Err           error  // Failure cause, when Outcome is failed
}

// CycleResult aggregates the outcomes of one full sync cycle.
type CycleResult struct {
	Lists     []ListResult
	Committed int
	Skipped   int
	Deferred  int
	Failed    int
}

// Engine reconciles selected remote lists into target playlists.
//
// A cycle never mutates the target for lists that are up to date, and never
// records a freshness marker unless the playlist write was confirmed, so
// rerunning a cycle is always safe.
type Engine struct {
	source   services.SourceClient
	target   services.TargetClient
	store    *repositories.StateStore
	resolver *Resolver
	history  *repositories.HistoryRepository
	logger   *log.Logger
}

// NewEngine creates an Engine with the provided services and state store.
func NewEngine(source services.SourceClient, target services.TargetClient, store *repositories.StateStore, logger *log.Logger) *Engine {
	return &Engine{
		source:   source,
		target:   target,
		store:    store,
		resolver: NewResolver(target, 5.0, logger),
		logger:   logger,
	}
}

// WithHistory attaches a sync-history journal. Journal failures are logged
// and never affect the cycle outcome.
func (e *Engine) WithHistory(history *repositories.HistoryRepository) *Engine {
	e.history = history
	return e
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run performs one sync cycle over the selected lists.
//
// A failure to fetch the list directory aborts the whole cycle, since nothing
// can be reconciled without it. Every later failure is scoped to the list in
// progress: the cycle records it and moves on to the next list.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*CycleResult, error) {
	if e.source == nil || e.target == nil {
		return nil, fmt.Errorf("%w: sync services not initialized", shared.ErrServiceUnavailable)
	}

	state := e.store.Load()
	result := &CycleResult{}

	if len(state.SelectedSlugs) == 0 {
		e.logger.Warn("no lists selected, nothing to sync", "hint", "run 'lists select' first")
		return result, nil
	}

	e.resolver.Invalidate()
	e.sendProgress(progress, checkListsUpdate(len(state.SelectedSlugs)))

	lists, err := e.source.Lists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch list directory: %w", err)
	}

	directory := make(map[string]services.RemoteList, len(lists))
	for _, list := range lists {
		directory[list.Slug] = list
	}

	total := len(state.SelectedSlugs)
	for i, slug := range state.SelectedSlugs {
		remote, ok := directory[slug]
		if !ok {
			e.logger.Warn("selected list no longer exists on source, skipping", "slug", slug)
			e.record(result, ListResult{
				Slug:    slug,
				Outcome: models.OutcomeFailed,
				Err:     fmt.Errorf("list %q not found on %s", slug, e.source.Name()),
			})
			continue
		}

		listResult := e.reconcileList(ctx, progress, state, remote, i+1, total)
		e.record(result, listResult)
	}

	return result, nil
}

// reconcileList drives a single list through the sync state machine.
func (e *Engine) reconcileList(ctx context.Context, progress chan<- ProgressUpdate, state *repositories.SyncState, remote services.RemoteList, step, total int) ListResult {
	result := ListResult{Slug: remote.Slug, Name: remote.Name}
	logger := e.logger.With("slug", remote.Slug)

	e.sendProgress(progress, checkPlaylistUpdate(step, total, remote))

	// Playlists are keyed by slug, not display name: the slug is stable and
	// unique per account, while display names can collide or change.
	existing, err := e.target.FindPlaylist(ctx, remote.Slug)
	if err != nil {
		// An unanswerable lookup is treated as an absent playlist: the sync
		// proceeds and recreates it rather than trusting a marker that can no
		// longer be verified.
		logger.Warn("playlist lookup failed, treating as absent", "error", err)
		existing = nil
	}

	// A list that has never reported an update timestamp compares equal to an
	// empty marker, so it stays skipped as long as its playlist exists.
	marker := state.Lists[remote.Slug]
	if marker == remote.UpdatedAt && existing != nil {
		logger.Debug("list unchanged and playlist present, skipping", "marker", marker)
		e.sendProgress(progress, upToDateUpdate(step, total, remote))
		result.Outcome = models.OutcomeSkipped
		result.PlaylistID = existing.ID
		result.Marker = marker
		return result
	}

	e.sendProgress(progress, fetchItemsUpdate(step, total, remote))

	items, err := e.source.ListItems(ctx, remote.Slug)
	if err != nil {
		logger.Error("failed to fetch list items", "error", err)
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result
	}
	result.ItemsTotal = len(items)

	itemIDs, resolved, err := e.resolveItems(ctx, progress, state, items)
	if err != nil {
		logger.Error("failed to resolve list items", "error", err)
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result
	}
	result.ItemsResolved = resolved

	if len(itemIDs) == 0 {
		// Nothing in the library matches this list yet. Write nothing and
		// leave the marker untouched so the next cycle retries in full.
		logger.Warn("no list items matched the library, deferring", "items", len(items))
		result.Outcome = models.OutcomeDeferred
		return result
	}

	e.sendProgress(progress, applyPlaylistUpdate(remote.Slug, len(itemIDs)))

	playlistID, err := e.preparePlaylist(ctx, existing, remote.Slug, logger)
	if err != nil {
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result
	}
	result.PlaylistID = playlistID

	if err := e.target.Populate(ctx, playlistID, itemIDs); err != nil {
		logger.Error("playlist write not confirmed, keeping old marker", "error", err)
		result.Outcome = models.OutcomeFailed
		result.Err = err
		return result
	}

	// The write is confirmed; commit the marker (and any new id mappings)
	// immediately so a crash between lists never repeats this one.
	state.Lists[remote.Slug] = remote.UpdatedAt
	e.sendProgress(progress, commitStateUpdate(remote.Slug))
	if err := e.store.Save(state); err != nil {
		logger.Error("failed to persist sync state, next cycle will resync", "error", err)
	}

	logger.Info("list synced", "playlist", playlistID, "items", len(itemIDs), "marker", remote.UpdatedAt)
	result.Outcome = models.OutcomeCommitted
	result.Marker = remote.UpdatedAt
	return result
}

// resolveItems maps list items to library ids, preserving list order and
// dropping duplicates after the first occurrence.
func (e *Engine) resolveItems(ctx context.Context, progress chan<- ProgressUpdate, state *repositories.SyncState, items []services.RemoteItem) ([]string, int, error) {
	var itemIDs []string
	seen := make(map[string]bool, len(items))
	resolved := 0

	for i, item := range items {
		e.sendProgress(progress, resolveItemsUpdate(i+1, len(items), item))

		id, ok, err := e.resolver.Resolve(ctx, item.TMDB, state.IDMap)
		if err != nil {
			return nil, resolved, err
		}
		if !ok {
			e.logger.Debug("item not in library", "title", item.Title, "tmdb", item.TMDB)
			continue
		}

		resolved++
		if seen[id] {
			continue
		}
		seen[id] = true
		itemIDs = append(itemIDs, id)
	}

	return itemIDs, resolved, nil
}

// preparePlaylist returns an empty playlist ready to receive items, creating
// it when absent and clearing it when present.
func (e *Engine) preparePlaylist(ctx context.Context, existing *services.TargetPlaylist, name string, logger *log.Logger) (string, error) {
	if existing == nil {
		id, err := e.target.Create(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to create playlist %q: %w", name, err)
		}
		logger.Info("created playlist", "name", name, "playlist", id)
		return id, nil
	}

	// A failed clear is survivable: Populate appends, so the playlist may
	// hold duplicates until the next successful cycle rewrites it.
	if err := e.target.Clear(ctx, existing.ID); err != nil {
		logger.Warn("failed to clear playlist before repopulating", "error", err)
	}
	return existing.ID, nil
}

// record tallies a list outcome and journals it when a history repository is attached.
func (e *Engine) record(result *CycleResult, listResult ListResult) {
	result.Lists = append(result.Lists, listResult)

	switch listResult.Outcome {
	case models.OutcomeCommitted:
		result.Committed++
	case models.OutcomeSkipped:
		result.Skipped++
	case models.OutcomeDeferred:
		result.Deferred++
	case models.OutcomeFailed:
		result.Failed++
	}

	if e.history == nil {
		return
	}

	record := models.NewSyncRecord(0, listResult.Slug, listResult.Outcome)
	record.SetMarker(listResult.Marker)
	record.SetPlaylistID(listResult.PlaylistID)
	record.SetItems(listResult.ItemsTotal, listResult.ItemsResolved)
	record.SetCompletedAt(time.Now())
	if listResult.Err != nil {
		record.SetErrorMessage(listResult.Err.Error())
	}

	if err := e.history.Create(record); err != nil {
		e.logger.Warn("failed to journal sync record", "slug", listResult.Slug, "error", err)
	}
}
