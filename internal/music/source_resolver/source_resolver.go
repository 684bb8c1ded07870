// Package source_resolver turns what a member typed into queue-ready tracks.
package source_resolver

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/keshon/dare/internal/music/sources"
	"github.com/keshon/dare/internal/music/sources/youtube"
	"github.com/keshon/dare/internal/music/track"
)

const (
	DefaultPlaylistLimit = 100
	DefaultTimeout       = 30 * time.Second
)

type Options struct {
	PlaylistLimit int
	CacheSize     int
	CacheTTL      time.Duration
	// Timeout bounds one resolution, shared by every caller waiting on it.
	Timeout time.Duration
}

type SourceResolver struct {
	provider  sources.Provider
	validator sources.MediaValidator
	opts      Options
	cache     *expirable.LRU[string, []track.Track]
	group     singleflight.Group
	log       zerolog.Logger
}

// New builds a resolver. validator may be nil, in which case non-provider
// links are rejected as not found.
func New(provider sources.Provider, validator sources.MediaValidator, opts Options, log zerolog.Logger) *SourceResolver {
	if opts.PlaylistLimit <= 0 {
		opts.PlaylistLimit = DefaultPlaylistLimit
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Minute
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	return &SourceResolver{
		provider:  provider,
		validator: validator,
		opts:      opts,
		cache:     expirable.NewLRU[string, []track.Track](opts.CacheSize, nil, opts.CacheTTL),
		log:       log,
	}
}

// Resolve classifies query and returns the tracks it stands for. Video
// references win over playlist references, which win over other links, which
// win over free-text search. A matched class never falls through to the next.
func (r *SourceResolver) Resolve(ctx context.Context, query string) ([]track.Track, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, newError(ErrNotFound, query, nil)
	}

	if cached, ok := r.cache.Get(q); ok {
		return clone(cached), nil
	}

	// The lookup runs detached from the first caller so that caller giving up
	// does not fail everyone else waiting on the same query.
	ch := r.group.DoChan(q, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.Timeout)
		defer cancel()

		tracks, err := r.resolve(rctx, q)
		if err != nil {
			return nil, err
		}
		r.cache.Add(q, tracks)
		return tracks, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]track.Track)), nil
	}
}

func (r *SourceResolver) resolve(ctx context.Context, q string) ([]track.Track, error) {
	if id, ok := youtube.VideoID(q); ok {
		t, err := r.provider.Video(ctx, id)
		if err != nil {
			return nil, r.fail(ErrNotFound, q, err)
		}
		return []track.Track{t}, nil
	}

	if _, ok := youtube.PlaylistID(q); ok {
		tracks, err := r.provider.Playlist(ctx, q, r.opts.PlaylistLimit)
		if err != nil {
			return nil, r.fail(ErrPlaylistEmpty, q, err)
		}
		if len(tracks) == 0 {
			return nil, newError(ErrPlaylistEmpty, q, nil)
		}
		if len(tracks) > r.opts.PlaylistLimit {
			tracks = tracks[:r.opts.PlaylistLimit]
		}
		return tracks, nil
	}

	if youtube.IsURL(q) {
		return r.resolveLink(ctx, q)
	}

	t, err := r.provider.Search(ctx, q)
	if err != nil {
		return nil, r.fail(ErrSearchEmpty, q, err)
	}
	return []track.Track{t}, nil
}

func (r *SourceResolver) resolveLink(ctx context.Context, q string) ([]track.Track, error) {
	if r.validator == nil {
		return nil, newError(ErrNotFound, q, errors.New("unsupported link"))
	}
	if _, err := r.validator.Validate(ctx, q); err != nil {
		return nil, newError(ErrNotFound, q, err)
	}
	return []track.Track{ResolveArbitrary(q)}, nil
}

// fail picks the error kind for a provider failure: transport faults and
// timeouts are provider errors regardless of branch. Caller cancellation never
// reaches here, Resolve reports it before the lookup ends.
func (r *SourceResolver) fail(kind error, q string, err error) error {
	if errors.Is(err, sources.ErrTransport) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		kind = ErrProvider
	}
	r.log.Debug().Err(err).Str("query", q).Msg("resolution failed")
	return newError(kind, q, err)
}

// ResolveArbitrary wraps a URL or file path as a single track without any
// lookup. The title is the last path segment.
func ResolveArbitrary(source string) track.Track {
	source = strings.TrimSpace(source)
	return track.Track{
		Locator: source,
		Title:   track.BaseName(source),
		Kind:    track.KindArbitrary,
	}
}

func clone(tracks []track.Track) []track.Track {
	out := make([]track.Track, len(tracks))
	copy(out, tracks)
	return out
}
