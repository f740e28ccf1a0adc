// Package services implements clients for the two sides of a sync: the remote
// list provider and the media server receiving playlists.
//
// Two interfaces define the boundary the reconciliation engine works against:
//
//   - [SourceClient] : read-only access to a user's curated lists
//   - [TargetClient] : playlist lifecycle and library lookups on the server
//
// [TraktService] implements SourceClient over the Trakt REST API with OAuth2
// bearer authentication. List items are filtered at the client boundary:
// only movies and shows carrying a TMDB id are surfaced, so downstream code
// never handles unmatched or unsupported entries.
//
// [JellyfinService] implements TargetClient over the Jellyfin REST API with a
// static API key. Playlist population is confirmation-strict: only a 200 or
// 204 response counts as a successful write.
//
// Errors are classified with the shared sentinels: [shared.ErrTransport] for
// connection and status failures, [shared.ErrBadPayload] for undecodable
// responses, and [shared.ErrApplyFailed] for unconfirmed playlist writes.
package services
