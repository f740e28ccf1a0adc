// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/trx/internal/services"
)

// MockSource is a configurable test double for [services.SourceClient].
// Unset funcs yield empty results. Call counters track invocations.
type MockSource struct {
	AuthenticateFunc func(ctx context.Context, credentials map[string]string) error
	ListsFunc        func(ctx context.Context) ([]services.RemoteList, error)
	ListItemsFunc    func(ctx context.Context, slug string) ([]services.RemoteItem, error)

	ListsCalls     int
	ListItemsCalls []string
}

func (m *MockSource) Authenticate(ctx context.Context, credentials map[string]string) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, credentials)
	}
	return nil
}

func (m *MockSource) Lists(ctx context.Context) ([]services.RemoteList, error) {
	m.ListsCalls++
	if m.ListsFunc != nil {
		return m.ListsFunc(ctx)
	}
	return []services.RemoteList{}, nil
}

func (m *MockSource) ListItems(ctx context.Context, slug string) ([]services.RemoteItem, error) {
	m.ListItemsCalls = append(m.ListItemsCalls, slug)
	if m.ListItemsFunc != nil {
		return m.ListItemsFunc(ctx, slug)
	}
	return []services.RemoteItem{}, nil
}

func (m *MockSource) Name() string { return "mock-source" }

// MockTarget is a configurable test double for [services.TargetClient].
type MockTarget struct {
	FindPlaylistFunc func(ctx context.Context, name string) (*services.TargetPlaylist, error)
	EntriesFunc      func(ctx context.Context, playlistID string) ([]services.PlaylistEntry, error)
	ClearFunc        func(ctx context.Context, playlistID string) error
	CreateFunc       func(ctx context.Context, name string) (string, error)
	PopulateFunc     func(ctx context.Context, playlistID string, itemIDs []string) error
	CatalogFunc      func(ctx context.Context) ([]services.CatalogItem, error)

	CatalogCalls      int
	FindPlaylistCalls []string
	ClearCalls        []string
	CreateCalls       []string
	PopulateCalls     []PopulateCall
}

// PopulateCall records one Populate invocation.
type PopulateCall struct {
	PlaylistID string
	ItemIDs    []string
}

func (m *MockTarget) FindPlaylist(ctx context.Context, name string) (*services.TargetPlaylist, error) {
	m.FindPlaylistCalls = append(m.FindPlaylistCalls, name)
	if m.FindPlaylistFunc != nil {
		return m.FindPlaylistFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockTarget) Entries(ctx context.Context, playlistID string) ([]services.PlaylistEntry, error) {
	if m.EntriesFunc != nil {
		return m.EntriesFunc(ctx, playlistID)
	}
	return []services.PlaylistEntry{}, nil
}

func (m *MockTarget) Clear(ctx context.Context, playlistID string) error {
	m.ClearCalls = append(m.ClearCalls, playlistID)
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, playlistID)
	}
	return nil
}

func (m *MockTarget) Create(ctx context.Context, name string) (string, error) {
	m.CreateCalls = append(m.CreateCalls, name)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name)
	}
	return "mock-playlist", nil
}

func (m *MockTarget) Populate(ctx context.Context, playlistID string, itemIDs []string) error {
	m.PopulateCalls = append(m.PopulateCalls, PopulateCall{PlaylistID: playlistID, ItemIDs: itemIDs})
	if m.PopulateFunc != nil {
		return m.PopulateFunc(ctx, playlistID, itemIDs)
	}
	return nil
}

func (m *MockTarget) Catalog(ctx context.Context) ([]services.CatalogItem, error) {
	m.CatalogCalls++
	if m.CatalogFunc != nil {
		return m.CatalogFunc(ctx)
	}
	return []services.CatalogItem{}, nil
}

func (m *MockTarget) Name() string { return "mock-target" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
