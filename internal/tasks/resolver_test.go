package tasks

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trx/internal/services"
	mocks "github.com/desertthunder/trx/internal/testing"
)

func newTestResolver(target *mocks.MockTarget) *Resolver {
	return NewResolver(target, 100, log.New(io.Discard))
}

func TestResolverResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the catalog", func(t *testing.T) {
		target := &mocks.MockTarget{}
		resolver := newTestResolver(target)
		idMap := map[string]string{"603": "jf-matrix"}

		id, ok, err := resolver.Resolve(ctx, 603, idMap)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok || id != "jf-matrix" {
			t.Errorf("expected cached id, got %q %v", id, ok)
		}
		if target.CatalogCalls != 0 {
			t.Errorf("expected no catalog scan on cache hit, got %d", target.CatalogCalls)
		}
	})

	t.Run("miss scans the catalog once and caches the match", func(t *testing.T) {
		target := &mocks.MockTarget{
			CatalogFunc: func(ctx context.Context) ([]services.CatalogItem, error) {
				return []services.CatalogItem{
					{ID: "jf-matrix", ProviderIDs: map[string]string{"Tmdb": "603"}},
					{ID: "jf-diehard", ProviderIDs: map[string]string{"Tmdb": "562"}},
					{ID: "jf-nomatch", ProviderIDs: map[string]string{"Imdb": "tt0000001"}},
				}, nil
			},
		}
		resolver := newTestResolver(target)
		idMap := map[string]string{}

		id, ok, err := resolver.Resolve(ctx, 603, idMap)
		if err != nil || !ok || id != "jf-matrix" {
			t.Fatalf("expected match, got id=%q ok=%v err=%v", id, ok, err)
		}
		if idMap["603"] != "jf-matrix" {
			t.Errorf("expected match cached, got %+v", idMap)
		}

		if _, _, err := resolver.Resolve(ctx, 562, idMap); err != nil {
			t.Fatal(err)
		}
		if target.CatalogCalls != 1 {
			t.Errorf("expected a single catalog scan, got %d", target.CatalogCalls)
		}
	})

	t.Run("unmatched id reports not found without error", func(t *testing.T) {
		target := &mocks.MockTarget{}
		resolver := newTestResolver(target)
		idMap := map[string]string{}

		id, ok, err := resolver.Resolve(ctx, 99999, idMap)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || id != "" {
			t.Errorf("expected no match, got %q %v", id, ok)
		}
		if len(idMap) != 0 {
			t.Errorf("expected no cache entry for a miss, got %+v", idMap)
		}
	})

	t.Run("catalog failure leaves the item unresolved", func(t *testing.T) {
		target := &mocks.MockTarget{
			CatalogFunc: func(ctx context.Context) ([]services.CatalogItem, error) {
				return nil, errors.New("catalog unavailable")
			},
		}
		resolver := newTestResolver(target)
		idMap := map[string]string{"603": "jf-matrix"}

		id, ok, err := resolver.Resolve(ctx, 562, idMap)
		if err != nil {
			t.Fatalf("expected scan failure swallowed, got %v", err)
		}
		if ok || id != "" {
			t.Errorf("expected no match on scan failure, got %q %v", id, ok)
		}

		// Cached ids stay resolvable while the catalog is down.
		id, ok, err = resolver.Resolve(ctx, 603, idMap)
		if err != nil || !ok || id != "jf-matrix" {
			t.Errorf("expected cached id despite scan failure, got id=%q ok=%v err=%v", id, ok, err)
		}
	})

	t.Run("interrupted scan surfaces the context error", func(t *testing.T) {
		target := &mocks.MockTarget{}
		resolver := newTestResolver(target)

		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := resolver.Resolve(canceled, 603, map[string]string{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context error, got %v", err)
		}
	})

	t.Run("existing cache entries are never rewritten", func(t *testing.T) {
		target := &mocks.MockTarget{
			CatalogFunc: func(ctx context.Context) ([]services.CatalogItem, error) {
				return []services.CatalogItem{
					{ID: "jf-new", ProviderIDs: map[string]string{"Tmdb": "603"}},
				}, nil
			},
		}
		resolver := newTestResolver(target)
		idMap := map[string]string{"603": "jf-old"}

		id, ok, err := resolver.Resolve(ctx, 603, idMap)
		if err != nil || !ok {
			t.Fatalf("unexpected result: %q %v %v", id, ok, err)
		}
		if id != "jf-old" || idMap["603"] != "jf-old" {
			t.Errorf("expected cached mapping preserved, got %q", idMap["603"])
		}
	})

	t.Run("invalidate forces a rescan", func(t *testing.T) {
		target := &mocks.MockTarget{
			CatalogFunc: func(ctx context.Context) ([]services.CatalogItem, error) {
				return []services.CatalogItem{}, nil
			},
		}
		resolver := newTestResolver(target)
		idMap := map[string]string{}

		resolver.Resolve(ctx, 603, idMap)
		resolver.Invalidate()
		resolver.Resolve(ctx, 603, idMap)

		if target.CatalogCalls != 2 {
			t.Errorf("expected rescan after invalidation, got %d scans", target.CatalogCalls)
		}
	})
}
