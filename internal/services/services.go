// package services defines the source and target clients for list syncing
//
// Trakt (source), Jellyfin (target)
package services

import (
	"context"
)

// MediaKind identifies the media type of a remote list entry.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindShow  MediaKind = "show"
)

// Supported reports whether the kind can be matched against the target
// library. Episodes, seasons, and people are skipped.
func (k MediaKind) Supported() bool {
	return k == KindMovie || k == KindShow
}

// SourceClient defines the interface for the remote list provider.
type SourceClient interface {
	// Authenticate performs OAuth or token authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Lists retrieves the directory of the authenticated user's lists.
	Lists(ctx context.Context) ([]RemoteList, error)

	// ListItems retrieves the items of a single list by slug, already
	// filtered down to supported kinds carrying an external id.
	ListItems(ctx context.Context, slug string) ([]RemoteItem, error)

	// Name returns the name of the service (e.g., "Trakt")
	Name() string
}

// TargetClient defines the interface for the media server receiving playlists.
type TargetClient interface {
	// FindPlaylist looks up a playlist by exact name. A nil playlist with a
	// nil error means no playlist of that name exists.
	FindPlaylist(ctx context.Context, name string) (*TargetPlaylist, error)

	// Entries retrieves the current entries of a playlist.
	Entries(ctx context.Context, playlistID string) ([]PlaylistEntry, error)

	// Clear removes every entry from a playlist.
	Clear(ctx context.Context, playlistID string) error

	// Create creates an empty playlist and returns its id.
	Create(ctx context.Context, name string) (string, error)

	// Populate appends the given library item ids to a playlist.
	Populate(ctx context.Context, playlistID string, itemIDs []string) error

	// Catalog retrieves the movie and series library with provider ids, used
	// for matching remote items against local media.
	Catalog(ctx context.Context) ([]CatalogItem, error)

	// Name returns the name of the service (e.g., "Jellyfin")
	Name() string
}

// RemoteList represents a curated list from the source service
type RemoteList struct {
	Slug      string
	Name      string
	UpdatedAt string // opaque freshness marker, compared verbatim
	ItemCount int
}

// RemoteItem represents a single list entry from the source service
type RemoteItem struct {
	Kind  MediaKind
	TMDB  int // external id used for matching; always non-zero
	Title string
	Year  int
}

// TargetPlaylist represents a playlist on the media server
type TargetPlaylist struct {
	ID   string
	Name string
}

// PlaylistEntry represents one entry of a target playlist. EntryID is the
// playlist-scoped id required for removal, distinct from the item id.
type PlaylistEntry struct {
	ID      string
	EntryID string
}

// CatalogItem represents a library item on the media server with its external
// provider ids (e.g. "Tmdb" -> "603").
type CatalogItem struct {
	ID          string
	Name        string
	ProviderIDs map[string]string
}
