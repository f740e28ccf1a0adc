// Package repositories provides the persistence layer for the sync service.
//
// Two stores with different durability contracts live here:
//
// [StateStore] persists the reconciliation state (list markers, the external
// id cache, and the selected list slugs) as a single JSON file. Writes are
// atomic via temp-file-and-rename; reads never fail, degrading a corrupt or
// missing file to an empty state so the next sync simply rebuilds everything.
//
// [HistoryRepository] implements models.Repository[*models.SyncRecord] over
// sqlite, journaling one row per list reconciliation attempt. The journal is
// an optional audit trail: sync works without it, and losing it loses nothing
// but history.
package repositories
