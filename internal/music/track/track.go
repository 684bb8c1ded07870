// Package track defines the playable item shared by the resolver, the queue and
// the command layer.
package track

import (
	"net/url"
	"path"
	"strings"
)

// Kind tells the stream opener how to turn a locator into audio.
type Kind string

const (
	KindEffect    Kind = "effect"
	KindRemote    Kind = "music-remote"
	KindArbitrary Kind = "music-arbitrary"
)

// Track is one queued audio item. Values are never mutated after creation.
type Track struct {
	Locator string
	Title   string
	Kind    Kind
}

// IsMusic reports whether the track belongs in the music queue.
func (t Track) IsMusic() bool {
	return t.Kind == KindRemote || t.Kind == KindArbitrary
}

// DisplayName returns the title, falling back to the last element of the locator.
func (t Track) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	return BaseName(t.Locator)
}

// BaseName extracts a human readable file name from a URL or path.
func BaseName(locator string) string {
	s := strings.TrimSpace(locator)
	if u, err := url.Parse(s); err == nil && u.Host != "" {
		s = u.Path
	}
	s = strings.ReplaceAll(s, "\\", "/")
	s = strings.TrimRight(s, "/")
	if s == "" {
		return "file"
	}
	name := path.Base(s)
	if name == "." || name == "/" {
		return "file"
	}
	return name
}
