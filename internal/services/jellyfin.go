// Jellyfin API implementation of [TargetClient]
//
// Jellyfin API response types based on https://api.jellyfin.org/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/trx/internal/shared"
)

// JellyfinItem represents a library or playlist item.
type JellyfinItem struct {
	ID             string            `json:"Id"`
	Name           string            `json:"Name"`
	Type           string            `json:"Type"`
	PlaylistItemID string            `json:"PlaylistItemId"`
	ProviderIDs    map[string]string `json:"ProviderIds"`
}

// JellyfinItemsPage represents a paged items response.
type JellyfinItemsPage struct {
	Items            []JellyfinItem `json:"Items"`
	TotalRecordCount int            `json:"TotalRecordCount"`
}

// JellyfinSystemInfo represents the public system info payload.
type JellyfinSystemInfo struct {
	ServerName string `json:"ServerName"`
	Version    string `json:"Version"`
	ID         string `json:"Id"`
}

// JellyfinService implements the TargetClient interface against a Jellyfin server.
// Authentication is a static API key passed as a query parameter.
type JellyfinService struct {
	baseURL    string
	apiKey     string
	userID     string
	httpClient *http.Client
}

// NewJellyfinService creates a new Jellyfin service for the given server.
// An optional http client carries the retry transport; nil falls back to the default.
func NewJellyfinService(baseURL, apiKey, userID string, client *http.Client) (*JellyfinService, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: missing jellyfin url", shared.ErrMissingConfig)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing jellyfin api key", shared.ErrMissingCredentials)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: missing jellyfin user id", shared.ErrMissingConfig)
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &JellyfinService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		userID:     userID,
		httpClient: client,
	}, nil
}

func (s *JellyfinService) Name() string {
	return "Jellyfin"
}

// doRequest performs a request against the Jellyfin API, appending the api key
// to the query string and decoding the response when result is non-nil.
func (s *JellyfinService) doRequest(ctx context.Context, method, endpoint string, query url.Values, result interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", s.apiKey)

	apiURL := s.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: jellyfin API status %d for %s", shared.ErrTransport, resp.StatusCode, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrBadPayload, err)
		}
	}

	return nil
}

// SystemInfo retrieves server identification, used to verify connectivity.
func (s *JellyfinService) SystemInfo(ctx context.Context) (*JellyfinSystemInfo, error) {
	var info JellyfinSystemInfo
	if err := s.doRequest(ctx, "GET", "/System/Info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Playlists retrieves all playlists visible to the configured user.
func (s *JellyfinService) Playlists(ctx context.Context) ([]TargetPlaylist, error) {
	query := url.Values{}
	query.Set("IncludeItemTypes", "Playlist")
	query.Set("Recursive", "true")
	query.Set("userId", s.userID)

	var page JellyfinItemsPage
	if err := s.doRequest(ctx, "GET", "/Items", query, &page); err != nil {
		return nil, err
	}

	playlists := make([]TargetPlaylist, 0, len(page.Items))
	for _, item := range page.Items {
		playlists = append(playlists, TargetPlaylist{ID: item.ID, Name: item.Name})
	}
	return playlists, nil
}

// TargetClient interface implementation

// FindPlaylist looks up a playlist by exact name. Returns nil without error
// when no playlist of that name exists.
func (s *JellyfinService) FindPlaylist(ctx context.Context, name string) (*TargetPlaylist, error) {
	playlists, err := s.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	for _, playlist := range playlists {
		if playlist.Name == name {
			return &playlist, nil
		}
	}
	return nil, nil
}

// Entries retrieves the current entries of a playlist.
func (s *JellyfinService) Entries(ctx context.Context, playlistID string) ([]PlaylistEntry, error) {
	query := url.Values{}
	query.Set("userId", s.userID)

	var page JellyfinItemsPage
	endpoint := fmt.Sprintf("/Playlists/%s/Items", url.PathEscape(playlistID))
	if err := s.doRequest(ctx, "GET", endpoint, query, &page); err != nil {
		return nil, err
	}

	entries := make([]PlaylistEntry, 0, len(page.Items))
	for _, item := range page.Items {
		entries = append(entries, PlaylistEntry{ID: item.ID, EntryID: item.PlaylistItemID})
	}
	return entries, nil
}

// Clear removes every entry from a playlist. Removal uses the playlist-scoped
// entry ids, not the item ids.
func (s *JellyfinService) Clear(ctx context.Context, playlistID string) error {
	entries, err := s.Entries(ctx, playlistID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	entryIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		entryIDs = append(entryIDs, entry.EntryID)
	}

	query := url.Values{}
	query.Set("EntryIds", strings.Join(entryIDs, ","))

	endpoint := fmt.Sprintf("/Playlists/%s/Items", url.PathEscape(playlistID))
	return s.doRequest(ctx, "DELETE", endpoint, query, nil)
}

// Create creates an empty playlist owned by the configured user and returns its id.
func (s *JellyfinService) Create(ctx context.Context, name string) (string, error) {
	query := url.Values{}
	query.Set("Name", name)
	query.Set("UserId", s.userID)

	var created struct {
		ID string `json:"Id"`
	}
	if err := s.doRequest(ctx, "POST", "/Playlists", query, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: playlist create returned no id", shared.ErrBadPayload)
	}
	return created.ID, nil
}

// Populate appends library items to a playlist. Only a 200 or 204 response
// counts as confirmation; anything else reports an apply failure so the
// caller never records a marker for an unconfirmed write.
func (s *JellyfinService) Populate(ctx context.Context, playlistID string, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}

	query := url.Values{}
	query.Set("Ids", strings.Join(itemIDs, ","))
	query.Set("UserId", s.userID)
	query.Set("api_key", s.apiKey)

	endpoint := fmt.Sprintf("/Playlists/%s/Items", url.PathEscape(playlistID))
	apiURL := s.baseURL + endpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrApplyFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: jellyfin returned status %d adding items", shared.ErrApplyFailed, resp.StatusCode)
	}
	return nil
}

// Catalog retrieves the movie and series library with provider ids.
func (s *JellyfinService) Catalog(ctx context.Context) ([]CatalogItem, error) {
	query := url.Values{}
	query.Set("IncludeItemTypes", "Movie,Series")
	query.Set("Recursive", "true")
	query.Set("Fields", "ProviderIds")
	query.Set("userId", s.userID)

	var page JellyfinItemsPage
	if err := s.doRequest(ctx, "GET", "/Items", query, &page); err != nil {
		return nil, err
	}

	catalog := make([]CatalogItem, 0, len(page.Items))
	for _, item := range page.Items {
		catalog = append(catalog, CatalogItem{
			ID:          item.ID,
			Name:        item.Name,
			ProviderIDs: item.ProviderIDs,
		})
	}
	return catalog, nil
}
