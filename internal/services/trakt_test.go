package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/trx/internal/shared"
)

func newTestTrakt(t *testing.T, handler http.Handler) (*TraktService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := NewTraktService(map[string]string{
		"client_id":     "test-client",
		"client_secret": "test-secret",
	}, server.Client())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	service.baseURL = server.URL

	if err := service.Authenticate(context.Background(), map[string]string{"access_token": "test-token"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	return service, server
}

func TestNewTraktService(t *testing.T) {
	t.Run("requires a client id", func(t *testing.T) {
		_, err := NewTraktService(map[string]string{}, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
	})

	t.Run("defaults the redirect uri", func(t *testing.T) {
		service, err := NewTraktService(map[string]string{"client_id": "abc"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if service.config.RedirectURL != "http://localhost:8080/callback" {
			t.Errorf("unexpected redirect url %q", service.config.RedirectURL)
		}
	})
}

func TestTraktAuthenticate(t *testing.T) {
	service, err := NewTraktService(map[string]string{"client_id": "abc"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("accepts a stored access token", func(t *testing.T) {
		err := service.Authenticate(context.Background(), map[string]string{"access_token": "tok"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if service.Token() == nil || service.Token().AccessToken != "tok" {
			t.Error("expected token to be stored")
		}
	})

	t.Run("rejects empty credentials", func(t *testing.T) {
		fresh, _ := NewTraktService(map[string]string{"client_id": "abc"}, nil)
		err := fresh.Authenticate(context.Background(), map[string]string{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected missing credentials error, got %v", err)
		}
	})

	t.Run("requests fail before authentication", func(t *testing.T) {
		fresh, _ := NewTraktService(map[string]string{"client_id": "abc"}, nil)
		_, err := fresh.Lists(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated error, got %v", err)
		}
	})
}

func TestTraktLists(t *testing.T) {
	t.Run("sends the trakt headers", func(t *testing.T) {
		var gotHeaders http.Header
		service, _ := newTestTrakt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotHeaders = r.Header.Clone()
			json.NewEncoder(w).Encode([]TraktList{})
		}))

		if _, err := service.Lists(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if gotHeaders.Get("trakt-api-version") != "2" {
			t.Errorf("expected api version header, got %q", gotHeaders.Get("trakt-api-version"))
		}
		if gotHeaders.Get("trakt-api-key") != "test-client" {
			t.Errorf("expected client id header, got %q", gotHeaders.Get("trakt-api-key"))
		}
		if gotHeaders.Get("Authorization") != "Bearer test-token" {
			t.Errorf("expected bearer token, got %q", gotHeaders.Get("Authorization"))
		}
	})

	t.Run("maps the list directory", func(t *testing.T) {
		service, _ := newTestTrakt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/me/lists" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode([]TraktList{
				{Name: "Trending Movies", UpdatedAt: "2024-05-01T10:00:00Z", ItemCount: 2, IDs: traktIDs{Slug: "trending-movies"}},
				{Name: "Watchlist", UpdatedAt: "2024-04-01T08:00:00Z", ItemCount: 7, IDs: traktIDs{Slug: "watchlist"}},
			})
		}))

		lists, err := service.Lists(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(lists) != 2 {
			t.Fatalf("expected 2 lists, got %d", len(lists))
		}
		if lists[0].Slug != "trending-movies" || lists[0].UpdatedAt != "2024-05-01T10:00:00Z" {
			t.Errorf("unexpected first list: %+v", lists[0])
		}
	})

	t.Run("server errors are transport failures", func(t *testing.T) {
		service, _ := newTestTrakt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := service.Lists(context.Background())
		if !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected transport error, got %v", err)
		}
	})

	t.Run("undecodable payloads are data errors", func(t *testing.T) {
		service, _ := newTestTrakt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))

		_, err := service.Lists(context.Background())
		if !errors.Is(err, shared.ErrBadPayload) {
			t.Errorf("expected payload error, got %v", err)
		}
	})
}

func TestTraktListItems(t *testing.T) {
	t.Run("filters to supported kinds with a tmdb id", func(t *testing.T) {
		service, _ := newTestTrakt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users/me/lists/mixed/items" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode([]TraktListItem{
				{Type: "movie", Movie: &TraktMedia{Title: "The Matrix", Year: 1999, IDs: traktIDs{TMDB: 603}}},
				{Type: "show", Show: &TraktMedia{Title: "Severance", Year: 2022, IDs: traktIDs{TMDB: 95396}}},
				{Type: "movie", Movie: &TraktMedia{Title: "Obscure Film", IDs: traktIDs{IMDB: "tt0000001"}}},
				{Type: "episode"},
				{Type: "person"},
			})
		}))

		items, err := service.ListItems(context.Background(), "mixed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 resolvable items, got %d: %+v", len(items), items)
		}
		if items[0].Kind != KindMovie || items[0].TMDB != 603 {
			t.Errorf("unexpected first item: %+v", items[0])
		}
		if items[1].Kind != KindShow || items[1].TMDB != 95396 {
			t.Errorf("unexpected second item: %+v", items[1])
		}
	})

	t.Run("escapes the slug", func(t *testing.T) {
		var gotPath string
		service, _ := newTestTrakt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			json.NewEncoder(w).Encode([]TraktListItem{})
		}))

		if _, err := service.ListItems(context.Background(), "best of/2024"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/users/me/lists/best%20of%2F2024/items" {
			t.Errorf("expected escaped slug in path, got %s", gotPath)
		}
	})
}

func TestMediaKindSupported(t *testing.T) {
	cases := map[MediaKind]bool{
		KindMovie:            true,
		KindShow:             true,
		MediaKind("episode"): false,
		MediaKind("person"):  false,
		MediaKind(""):        false,
	}
	for kind, want := range cases {
		if kind.Supported() != want {
			t.Errorf("Supported(%q) = %v, want %v", kind, kind.Supported(), want)
		}
	}
}
