// Package models defines domain entities and persistence interfaces for the trx list sync service.
//
// The package contains the base [Model] and [Repository] interfaces plus the
// persistent entities backing the optional sync-history journal:
//   - [SyncRecord] : One reconciliation attempt for one list, with its outcome
//
// Persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
