package sources

import (
	"context"

	"github.com/keshon/dare/internal/music/track"
)

// Provider looks up remote music.
type Provider interface {
	// Video returns the single video ref points at.
	Video(ctx context.Context, ref string) (track.Track, error)

	// Playlist expands ref into at most limit tracks.
	Playlist(ctx context.Context, ref string, limit int) ([]track.Track, error)

	// Search returns the top result for free text.
	Search(ctx context.Context, query string) (track.Track, error)
}

// MediaValidator checks that a URL serves something the decoder can play.
type MediaValidator interface {
	Validate(ctx context.Context, rawURL string) (string, error)
}
