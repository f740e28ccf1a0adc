package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// SyncState is the persisted reconciliation state.
//
// Lists maps list slug to the freshness marker recorded at the last committed
// sync. IDMap is an append-only cache mapping external TMDB ids to library
// item ids. SelectedSlugs is the user's chosen subset of lists, in sync order.
type SyncState struct {
	Lists         map[string]string `json:"lists"`
	IDMap         map[string]string `json:"id_map"`
	SelectedSlugs []string          `json:"selected_slugs"`
}

// NewSyncState returns an empty state with initialized maps.
func NewSyncState() *SyncState {
	return &SyncState{
		Lists:         make(map[string]string),
		IDMap:         make(map[string]string),
		SelectedSlugs: []string{},
	}
}

// StateStore persists [SyncState] as a JSON file.
type StateStore struct {
	path   string
	logger *log.Logger
}

// NewStateStore creates a state store backed by the given file path.
func NewStateStore(path string, logger *log.Logger) *StateStore {
	return &StateStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *StateStore) Path() string {
	return s.path
}

// Load reads the state file. A missing or unreadable file yields a fresh
// empty state rather than an error, so a corrupt file degrades to a full
// resync instead of blocking all future syncs. Partially populated files get
// their missing fields backfilled.
func (s *StateStore) Load() *SyncState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read state file, starting fresh", "path", s.path, "error", err)
		}
		return NewSyncState()
	}

	var state SyncState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("state file is corrupt, starting fresh", "path", s.path, "error", err)
		return NewSyncState()
	}

	if state.Lists == nil {
		state.Lists = make(map[string]string)
	}
	if state.IDMap == nil {
		state.IDMap = make(map[string]string)
	}
	if state.SelectedSlugs == nil {
		state.SelectedSlugs = []string{}
	}

	return &state
}

// Save writes the state atomically: the new content lands in a temp file in
// the same directory and replaces the old file with a rename, so a crash
// mid-write never leaves a truncated state file behind.
func (s *StateStore) Save(state *SyncState) error {
	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sync_state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	return nil
}
