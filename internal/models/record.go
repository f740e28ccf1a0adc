package models

import (
	"fmt"
	"time"
)

// Sync outcomes recorded in the history journal.
const (
	OutcomeCommitted = "committed" // playlist written and marker persisted
	OutcomeSkipped   = "skipped"   // marker matched and playlist existed
	OutcomeDeferred  = "deferred"  // nothing resolved, no writes performed
	OutcomeFailed    = "failed"    // fetch, resolve, or apply failed
)

// validOutcomes guards Validate; keep in sync with the constants above.
var validOutcomes = map[string]bool{
	OutcomeCommitted: true,
	OutcomeSkipped:   true,
	OutcomeDeferred:  true,
	OutcomeFailed:    true,
}

// SyncRecord represents one reconciliation attempt for a single list.
type SyncRecord struct {
	id            string
	sequence      int
	slug          string
	marker        string
	playlistID    string
	outcome       string
	itemsTotal    int
	itemsResolved int
	errorMessage  string
	startedAt     time.Time
	completedAt   time.Time
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewSyncRecord creates a sync record for the given list and outcome.
// The ID is assigned by the repository on create.
func NewSyncRecord(sequence int, slug, outcome string) *SyncRecord {
	now := time.Now()
	return &SyncRecord{
		sequence:  sequence,
		slug:      slug,
		outcome:   outcome,
		startedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

func (r *SyncRecord) ID() string             { return r.id }
func (r *SyncRecord) Sequence() int          { return r.sequence }
func (r *SyncRecord) Slug() string           { return r.slug }
func (r *SyncRecord) Marker() string         { return r.marker }
func (r *SyncRecord) PlaylistID() string     { return r.playlistID }
func (r *SyncRecord) Outcome() string        { return r.outcome }
func (r *SyncRecord) ItemsTotal() int        { return r.itemsTotal }
func (r *SyncRecord) ItemsResolved() int     { return r.itemsResolved }
func (r *SyncRecord) ErrorMessage() string   { return r.errorMessage }
func (r *SyncRecord) StartedAt() time.Time   { return r.startedAt }
func (r *SyncRecord) CompletedAt() time.Time { return r.completedAt }
func (r *SyncRecord) CreatedAt() time.Time   { return r.createdAt }
func (r *SyncRecord) UpdatedAt() time.Time   { return r.updatedAt }
func (r *SyncRecord) DeletedAt() *time.Time  { return r.deletedAt }

func (r *SyncRecord) SetID(id string)                 { r.id = id }
func (r *SyncRecord) SetMarker(marker string)         { r.marker = marker }
func (r *SyncRecord) SetPlaylistID(id string)         { r.playlistID = id }
func (r *SyncRecord) SetOutcome(outcome string)       { r.outcome = outcome }
func (r *SyncRecord) SetItems(total, resolved int)    { r.itemsTotal, r.itemsResolved = total, resolved }
func (r *SyncRecord) SetErrorMessage(msg string)      { r.errorMessage = msg }
func (r *SyncRecord) SetStartedAt(t time.Time)        { r.startedAt = t }
func (r *SyncRecord) SetCompletedAt(t time.Time)      { r.completedAt = t }
func (r *SyncRecord) SetCreatedAt(t time.Time)        { r.createdAt = t }
func (r *SyncRecord) SetUpdatedAt(t time.Time)        { r.updatedAt = t }
func (r *SyncRecord) SetDeletedAt(t *time.Time)       { r.deletedAt = t }

// Validate checks that the record names a list and a known outcome.
func (r *SyncRecord) Validate() error {
	if r.slug == "" {
		return fmt.Errorf("sync record requires a list slug")
	}
	if !validOutcomes[r.outcome] {
		return fmt.Errorf("unknown sync outcome %q", r.outcome)
	}
	if r.itemsResolved > r.itemsTotal {
		return fmt.Errorf("resolved count %d exceeds total %d", r.itemsResolved, r.itemsTotal)
	}
	return nil
}
