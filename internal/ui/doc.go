// Package ui implements the interactive terminal components for trx.
//
// The package is built on Bubble Tea's Elm architecture. [Selector] is a
// multi-select picker used by `trx lists select` to choose which Trakt
// lists feed the sync cycle. Selections are returned as slugs so the
// caller can persist them in the sync state.
package ui
