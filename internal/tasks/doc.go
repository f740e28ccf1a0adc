// Package tasks implements the reconciliation engine at the heart of trx.
//
// [Engine.Run] drives one sync cycle. Each selected list moves through a
// fixed sequence: check the stored freshness marker against the source, and
// when they match while the playlist still exists, do nothing. Otherwise
// fetch the list's items, resolve each external id against the library
// through [Resolver], rewrite the playlist, and commit the new marker.
//
// Three rules keep cycles safe to repeat:
//
//   - A marker is recorded only after the playlist write is confirmed, and
//     persisted immediately, so an interrupted cycle never loses a commit and
//     never claims one that did not happen.
//   - A list whose items cannot be fetched or resolved fails alone; the cycle
//     continues with the remaining lists. Only a directory fetch failure
//     aborts the cycle.
//   - When nothing in a list matches the library, no playlist is created or
//     cleared and no marker is written, so the list is retried in full later.
//
// [Engine.Export] reuses the same source access to dump selected lists to
// JSON files for backup or inspection.
package tasks
