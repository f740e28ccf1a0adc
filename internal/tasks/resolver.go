package tasks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trx/internal/services"
	"golang.org/x/time/rate"
)

// tmdbProvider is the provider id key the media server uses for TMDB.
const tmdbProvider = "Tmdb"

// Resolver matches external TMDB ids to library item ids.
//
// Lookups hit the id cache first; a miss triggers a single rate-limited
// catalog scan per cycle, after which further misses are resolved against the
// in-memory index. Cache entries are only ever added, never removed, so items
// that leave the library keep their stale mapping until the state is reset.
type Resolver struct {
	target  services.TargetClient
	limiter *rate.Limiter
	logger  *log.Logger

	index  map[string]string
	loaded bool
}

// NewResolver creates a resolver that scans the target's catalog at most
// scansPerSecond times.
func NewResolver(target services.TargetClient, scansPerSecond float64, logger *log.Logger) *Resolver {
	if scansPerSecond <= 0 {
		scansPerSecond = 1
	}
	return &Resolver{
		target:  target,
		limiter: rate.NewLimiter(rate.Limit(scansPerSecond), 1),
		logger:  logger,
	}
}

// Invalidate discards the catalog index so the next miss rescans the library.
// Call at the start of each sync cycle to pick up newly added media.
func (r *Resolver) Invalidate() {
	r.index = nil
	r.loaded = false
}

// Resolve returns the library item id for an external TMDB id. The boolean
// reports whether a match was found; a false return with a nil error means
// the item is not in the library, or the catalog scan it needed failed.
// Cached ids resolve without touching the catalog, so a scan outage never
// blocks items the cache already knows. Successful matches are recorded in
// idMap so future cycles skip the catalog entirely. An error is returned only
// when the lookup was interrupted by the context.
func (r *Resolver) Resolve(ctx context.Context, tmdb int, idMap map[string]string) (string, bool, error) {
	key := strconv.Itoa(tmdb)

	if id, ok := idMap[key]; ok {
		return id, true, nil
	}

	if err := r.ensureIndex(ctx); err != nil {
		if ctx.Err() != nil {
			return "", false, err
		}
		r.logger.Warn("catalog scan failed, item left unresolved", "tmdb", tmdb, "error", err)
		return "", false, nil
	}

	id, ok := r.index[key]
	if !ok {
		return "", false, nil
	}

	idMap[key] = id
	return id, true, nil
}

// ensureIndex loads the catalog once and builds the TMDB id index.
func (r *Resolver) ensureIndex(ctx context.Context) error {
	if r.loaded {
		return nil
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog scan interrupted: %w", err)
	}

	catalog, err := r.target.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to scan library catalog: %w", err)
	}

	r.index = make(map[string]string, len(catalog))
	for _, item := range catalog {
		if tmdbID, ok := item.ProviderIDs[tmdbProvider]; ok && tmdbID != "" {
			r.index[tmdbID] = item.ID
		}
	}
	r.loaded = true

	r.logger.Debug("catalog index built", "items", len(catalog), "matchable", len(r.index))
	return nil
}
