// Package sources holds what content providers share: the provider contract
// and the errors callers classify provider failures by.
package sources

import "errors"

var (
	// ErrUnavailable means the reference was understood but points at nothing
	// playable.
	ErrUnavailable = errors.New("media unavailable")
	// ErrNoMatch means a search returned no results.
	ErrNoMatch = errors.New("no result for query")
	// ErrEmptyPlaylist means a playlist resolved with no entries.
	ErrEmptyPlaylist = errors.New("playlist has no entries")
	// ErrTransport means the provider could not be reached or answered with a
	// server error.
	ErrTransport = errors.New("provider unreachable")
)
