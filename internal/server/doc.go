// Package server provides the loopback HTTP infrastructure for the CLI OAuth flow.
//
// # Router Infrastructure
//
// [Router] dispatches the callback routes over an [http.ServeMux] and rejects
// any method other than GET, since the OAuth redirect always arrives as one.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Logging] is the only middleware trx ships: it records each request with its duration.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow for Trakt.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `trx auth login`, a temporary HTTP server starts on the configured
// host and port, the browser opens the Trakt authorization page, and the server shuts
// down after receiving the OAuth token (or after the flow times out).
package server
