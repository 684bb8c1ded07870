package source_resolver

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrPlaylistEmpty = errors.New("playlist empty")
	ErrSearchEmpty   = errors.New("no search results")
	ErrProvider      = errors.New("provider error")
)

// ResolutionError reports why a query produced no tracks. Kind is one of the
// sentinels above and is matched with errors.Is.
type ResolutionError struct {
	Kind  error
	Query string
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %q: %v: %v", e.Query, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %q: %v", e.Query, e.Kind)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, query string, err error) *ResolutionError {
	return &ResolutionError{Kind: kind, Query: query, Err: err}
}
