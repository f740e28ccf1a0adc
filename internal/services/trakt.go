// Trakt API implementation of [SourceClient]
//
// Trakt API response types based on https://trakt.docs.apiary.io/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/trx/internal/shared"
	"golang.org/x/oauth2"
)

const (
	traktAuthURL  = "https://trakt.tv/oauth/authorize"
	traktTokenURL = "https://api.trakt.tv/oauth/token"
	traktBaseURL  = "https://api.trakt.tv"
	traktAPIVer   = "2"
)

type traktIDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	IMDB  string `json:"imdb"`
	TMDB  int    `json:"tmdb"`
}

// TraktList represents a user list.
type TraktList struct {
	Name      string   `json:"name"`
	UpdatedAt string   `json:"updated_at"`
	ItemCount int      `json:"item_count"`
	Privacy   string   `json:"privacy"`
	IDs       traktIDs `json:"ids"`
}

// TraktMedia represents a movie or show payload within a list item.
type TraktMedia struct {
	Title string   `json:"title"`
	Year  int      `json:"year"`
	IDs   traktIDs `json:"ids"`
}

// TraktListItem represents a single entry of a list. Exactly one of the media
// fields is populated, selected by Type.
type TraktListItem struct {
	Rank  int         `json:"rank"`
	Type  string      `json:"type"`
	Movie *TraktMedia `json:"movie"`
	Show  *TraktMedia `json:"show"`
}

// media returns the payload matching the item's declared type.
func (i TraktListItem) media() *TraktMedia {
	switch i.Type {
	case "movie":
		return i.Movie
	case "show":
		return i.Show
	default:
		return nil
	}
}

// TraktService implements the SourceClient interface for Trakt API interactions.
// Uses [oauth2] for authentication.
type TraktService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	credentials map[string]string
	baseURL     string
}

// NewTraktService creates a new Trakt service with the given OAuth2 credentials.
// An optional http client carries the retry transport; nil falls back to the default.
func NewTraktService(credentials map[string]string, client *http.Client) (*TraktService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: credentials["client_secret"],
		RedirectURL:  redirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:  traktAuthURL,
			TokenURL: traktTokenURL,
		},
	}

	if client == nil {
		client = http.DefaultClient
	}

	return &TraktService{
		config:      config,
		httpClient:  client,
		credentials: credentials,
		baseURL:     traktBaseURL,
	}, nil
}

// Authenticate performs OAuth2 authentication with Trakt. Expects either an "access_token" or "auth_code" in credentials.
func (s *TraktService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("%w: failed to exchange auth code: %v", shared.ErrAuthFailed, err)
		}
		s.token = token
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

func (s *TraktService) Name() string {
	return "Trakt"
}

// Token returns the current OAuth token, if authenticated.
func (s *TraktService) Token() *oauth2.Token {
	return s.token
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback server.
func (s *TraktService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *TraktService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a token without storing it on the
// service, used by the callback flow before credentials are saved.
func (s *TraktService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return s.config.Exchange(ctx, code)
}

// doRequest performs an authenticated HTTP request to the Trakt API.
//
// Every Trakt request carries the api version and client id headers alongside
// the bearer token.
func (s *TraktService) doRequest(ctx context.Context, method, endpoint string, result interface{}) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, method, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("trakt-api-version", traktAPIVer)
	req.Header.Set("trakt-api-key", s.config.ClientID)
	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: trakt API status %d for %s", shared.ErrTransport, resp.StatusCode, endpoint)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrBadPayload, err)
		}
	}

	return nil
}

// UserLists retrieves the authenticated user's personal lists.
func (s *TraktService) UserLists(ctx context.Context) ([]TraktList, error) {
	var lists []TraktList
	if err := s.doRequest(ctx, "GET", "/users/me/lists", &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// UserListItems retrieves the raw items of a single list by slug.
func (s *TraktService) UserListItems(ctx context.Context, slug string) ([]TraktListItem, error) {
	var items []TraktListItem
	endpoint := fmt.Sprintf("/users/me/lists/%s/items", url.PathEscape(slug))
	if err := s.doRequest(ctx, "GET", endpoint, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SourceClient interface implementation

// Lists retrieves the directory of the user's lists.
func (s *TraktService) Lists(ctx context.Context) ([]RemoteList, error) {
	lists, err := s.UserLists(ctx)
	if err != nil {
		return nil, err
	}

	directory := make([]RemoteList, 0, len(lists))
	for _, l := range lists {
		directory = append(directory, RemoteList{
			Slug:      l.IDs.Slug,
			Name:      l.Name,
			UpdatedAt: l.UpdatedAt,
			ItemCount: l.ItemCount,
		})
	}
	return directory, nil
}

// ListItems retrieves a list's items filtered to supported kinds that carry a
// TMDB id. Episodes, people, and unmatched media are dropped here so callers
// only ever see resolvable entries.
func (s *TraktService) ListItems(ctx context.Context, slug string) ([]RemoteItem, error) {
	raw, err := s.UserListItems(ctx, slug)
	if err != nil {
		return nil, err
	}

	var items []RemoteItem
	for _, entry := range raw {
		kind := MediaKind(entry.Type)
		if !kind.Supported() {
			continue
		}
		media := entry.media()
		if media == nil || media.IDs.TMDB == 0 {
			continue
		}
		items = append(items, RemoteItem{
			Kind:  kind,
			TMDB:  media.IDs.TMDB,
			Title: media.Title,
			Year:  media.Year,
		})
	}
	return items, nil
}
