package shared

import "fmt"

var (
	// Sync error taxonomy. Callers decide continue-vs-abort per kind:
	// a transport failure against the list directory aborts the cycle,
	// any other failure is scoped to the list or item in progress.
	ErrTransport    = fmt.Errorf("transport failure")
	ErrBadPayload   = fmt.Errorf("malformed response payload")
	ErrStateCorrupt = fmt.Errorf("persisted state unreadable")
	ErrApplyFailed  = fmt.Errorf("target write not confirmed")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// API and service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
