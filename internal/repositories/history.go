package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/trx/internal/models"
	"github.com/desertthunder/trx/internal/shared"
)

// HistoryRepository implements [models.Repository] for [models.SyncRecord] persistence.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new [HistoryRepository] with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

const historyColumns = `id, sequence, slug, marker, playlist_id, outcome, items_total,
	items_resolved, error_message, started_at, completed_at, created_at, updated_at, deleted_at`

// Create inserts a new sync record into the journal with generated ID and sequence
func (r *HistoryRepository) Create(record *models.SyncRecord) error {
	sequence, err := NextSequence(r.db, "sync_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sync_history (id, sequence, slug, marker, playlist_id, outcome, items_total,
			items_resolved, error_message, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, record.Slug(), record.Marker(), record.PlaylistID(),
		record.Outcome(), record.ItemsTotal(), record.ItemsResolved(), record.ErrorMessage(),
		record.StartedAt(), record.CompletedAt(), record.CreatedAt(), record.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert sync record: %w", err)
	}

	return nil
}

// Get retrieves a sync record by ID, excluding soft-deleted records
func (r *HistoryRepository) Get(id string) (*models.SyncRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM sync_history
		WHERE id = ? AND deleted_at IS NULL
	`, historyColumns)

	record, err := r.scanOne(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync record not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query sync record: %w", err)
	}

	return record, nil
}

// Update modifies an existing sync record in the database
func (r *HistoryRepository) Update(record *models.SyncRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE sync_history
		SET marker = ?, playlist_id = ?, outcome = ?, items_total = ?, items_resolved = ?,
			error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, record.Marker(), record.PlaylistID(), record.Outcome(),
		record.ItemsTotal(), record.ItemsResolved(), record.ErrorMessage(),
		record.CompletedAt(), now, record.ID())
	if err != nil {
		return fmt.Errorf("failed to update sync record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a sync record by ID
func (r *HistoryRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE sync_history
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete sync record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("sync record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves sync records matching the given criteria, newest first.
// Supported keys: "slug", "outcome", and "limit" (int).
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.SyncRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM sync_history WHERE deleted_at IS NULL", historyColumns)

	var clauses []string
	var args []any

	if slug, ok := criteria["slug"].(string); ok && slug != "" {
		clauses = append(clauses, "slug = ?")
		args = append(args, slug)
	}
	if outcome, ok := criteria["outcome"].(string); ok && outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, outcome)
	}

	if len(clauses) > 0 {
		query += " AND " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer rows.Close()

	var records []*models.SyncRecord
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// scanOne scans a single [sql.Row] into a [models.SyncRecord]
func (r *HistoryRepository) scanOne(row *sql.Row) (*models.SyncRecord, error) {
	var (
		id, slug, marker, playlistID, outcome, errorMessage string
		sequence, itemsTotal, itemsResolved                 int
		startedAt, completedAt, createdAt, updatedAt        time.Time
		deletedAt                                           sql.NullTime
	)

	err := row.Scan(&id, &sequence, &slug, &marker, &playlistID, &outcome, &itemsTotal,
		&itemsResolved, &errorMessage, &startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	return r.build(id, slug, marker, playlistID, outcome, errorMessage, sequence,
		itemsTotal, itemsResolved, startedAt, completedAt, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.SyncRecord]
func (r *HistoryRepository) scanRow(rows *sql.Rows) (*models.SyncRecord, error) {
	var (
		id, slug, marker, playlistID, outcome, errorMessage string
		sequence, itemsTotal, itemsResolved                 int
		startedAt, completedAt, createdAt, updatedAt        time.Time
		deletedAt                                           sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &slug, &marker, &playlistID, &outcome, &itemsTotal,
		&itemsResolved, &errorMessage, &startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sync record: %w", err)
	}

	return r.build(id, slug, marker, playlistID, outcome, errorMessage, sequence,
		itemsTotal, itemsResolved, startedAt, completedAt, createdAt, updatedAt, deletedAt), nil
}

func (r *HistoryRepository) build(id, slug, marker, playlistID, outcome, errorMessage string,
	sequence, itemsTotal, itemsResolved int,
	startedAt, completedAt, createdAt, updatedAt time.Time, deletedAt sql.NullTime,
) *models.SyncRecord {
	record := models.NewSyncRecord(sequence, slug, outcome)
	record.SetID(id)
	record.SetMarker(marker)
	record.SetPlaylistID(playlistID)
	record.SetItems(itemsTotal, itemsResolved)
	record.SetErrorMessage(errorMessage)
	record.SetStartedAt(startedAt)
	record.SetCompletedAt(completedAt)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}
	return record
}
