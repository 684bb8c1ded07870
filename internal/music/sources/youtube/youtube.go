// Package youtube is the YouTube content provider: video lookup, playlist
// expansion and search.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	kkdai "github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"

	"github.com/keshon/dare/internal/music/sources"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/pkg/retrylimit"
)

type YouTubeSource struct {
	client  *kkdai.Client
	pages   *pageResolver
	limiter *retrylimit.AdaptiveLimiter
	log     zerolog.Logger
}

// New builds the provider on a kkdai client. Page scraping reuses the
// client's HTTP transport so a configured proxy covers every request.
func New(client *kkdai.Client, limiter *retrylimit.AdaptiveLimiter, log zerolog.Logger) *YouTubeSource {
	hc := client.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	if limiter == nil {
		limiter = retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
	}
	return &YouTubeSource{
		client:  client,
		pages:   &pageResolver{BaseURL: "https://www.youtube.com", Client: hc},
		limiter: limiter,
		log:     log,
	}
}

func (y *YouTubeSource) Video(ctx context.Context, ref string) (track.Track, error) {
	var video *kkdai.Video
	err := y.limiter.Do(ctx, func() error {
		var err error
		video, err = y.client.GetVideoContext(ctx, ref)
		return err
	})
	if err != nil {
		return track.Track{}, classify(ctx, err, sources.ErrUnavailable)
	}
	return remoteTrack(video.ID, video.Title), nil
}

func (y *YouTubeSource) Playlist(ctx context.Context, ref string, limit int) ([]track.Track, error) {
	id, ok := PlaylistID(ref)
	if !ok {
		return nil, fmt.Errorf("%w: not a playlist reference", sources.ErrUnavailable)
	}
	if IsMix(id) {
		return y.mix(ctx, id, limit)
	}

	var playlist *kkdai.Playlist
	err := y.limiter.Do(ctx, func() error {
		var err error
		playlist, err = y.client.GetPlaylistContext(ctx, PlaylistURL(id))
		return err
	})
	if err != nil {
		return nil, classify(ctx, err, sources.ErrEmptyPlaylist)
	}

	n := len(playlist.Videos)
	if limit > 0 && limit < n {
		n = limit
	}
	tracks := make([]track.Track, 0, n)
	for _, entry := range playlist.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		if limit > 0 && len(tracks) >= limit {
			break
		}
		tracks = append(tracks, remoteTrack(entry.ID, entry.Title))
	}
	if len(tracks) == 0 {
		return nil, sources.ErrEmptyPlaylist
	}

	y.log.Debug().Str("playlist", id).Int("tracks", len(tracks)).Msg("playlist expanded")
	return tracks, nil
}

// mix expands an auto-generated mix. Titles are not on the page in a stable
// form, so entries carry their id until they are played.
func (y *YouTubeSource) mix(ctx context.Context, id string, limit int) ([]track.Track, error) {
	var ids []string
	err := y.limiter.Do(ctx, func() error {
		var err error
		ids, err = y.pages.MixVideoIDs(ctx, id)
		return err
	})
	if errors.Is(err, ErrEmptyMix) {
		return nil, sources.ErrEmptyPlaylist
	}
	if err != nil {
		return nil, classify(ctx, err, sources.ErrEmptyPlaylist)
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	tracks := make([]track.Track, 0, len(ids))
	for _, vid := range ids {
		tracks = append(tracks, remoteTrack(vid, ""))
	}
	return tracks, nil
}

func (y *YouTubeSource) Search(ctx context.Context, query string) (track.Track, error) {
	var id string
	err := y.limiter.Do(ctx, func() error {
		var err error
		id, err = y.pages.SearchFirstVideoID(ctx, query)
		return err
	})
	if errors.Is(err, ErrNoVideoMatch) {
		return track.Track{}, sources.ErrNoMatch
	}
	if err != nil {
		return track.Track{}, classify(ctx, err, sources.ErrNoMatch)
	}

	// The title is cosmetic; a failed lookup keeps the query instead.
	found, err := y.Video(ctx, id)
	if err != nil {
		y.log.Debug().Err(err).Str("video", id).Msg("title lookup failed, using query")
		return remoteTrack(id, query), nil
	}
	return found, nil
}

func remoteTrack(id, title string) track.Track {
	if title == "" {
		title = id
	}
	return track.Track{
		Locator: WatchURL(id),
		Title:   strings.TrimSpace(title),
		Kind:    track.KindRemote,
	}
}

// classify maps a provider failure onto the shared sentinels. Network and
// server faults, client timeouts included, become ErrTransport; everything else
// becomes fallback. Errors caused by ctx ending are returned as they are.
func classify(ctx context.Context, err error, fallback error) error {
	if ctx.Err() != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", sources.ErrTransport, err)
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) || retrylimit.DefaultClassifier(err) {
		return fmt.Errorf("%w: %w", sources.ErrTransport, err)
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
