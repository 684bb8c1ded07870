package source_resolver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/dare/internal/music/sources"
	"github.com/keshon/dare/internal/music/sources/youtube"
	"github.com/keshon/dare/internal/music/track"
)

type fakeProvider struct {
	videoErr    error
	playlist    []track.Track
	playlistErr error
	searchErr   error
	searchGate  chan struct{}
	searchHangs bool

	calls    atomic.Int32
	lastKind string
	mu       sync.Mutex
}

func (f *fakeProvider) note(kind string) {
	f.calls.Add(1)
	f.mu.Lock()
	f.lastKind = kind
	f.mu.Unlock()
}

func (f *fakeProvider) Video(_ context.Context, ref string) (track.Track, error) {
	f.note("video")
	if f.videoErr != nil {
		return track.Track{}, f.videoErr
	}
	return track.Track{Locator: youtube.WatchURL(ref), Title: "video " + ref, Kind: track.KindRemote}, nil
}

func (f *fakeProvider) Playlist(_ context.Context, _ string, limit int) ([]track.Track, error) {
	f.note("playlist")
	if f.playlistErr != nil {
		return nil, f.playlistErr
	}
	if limit < len(f.playlist) {
		return f.playlist[:limit], nil
	}
	return f.playlist, nil
}

func (f *fakeProvider) Search(ctx context.Context, query string) (track.Track, error) {
	f.note("search")
	if f.searchGate != nil {
		<-f.searchGate
	}
	if f.searchHangs {
		<-ctx.Done()
		return track.Track{}, ctx.Err()
	}
	if f.searchErr != nil {
		return track.Track{}, f.searchErr
	}
	return track.Track{Locator: youtube.WatchURL("sssssssssss"), Title: query, Kind: track.KindRemote}, nil
}

type fakeValidator struct {
	err error
}

func (v fakeValidator) Validate(context.Context, string) (string, error) {
	return "audio/mpeg", v.err
}

func newResolver(p *fakeProvider, v sources.MediaValidator) *SourceResolver {
	return New(p, v, Options{PlaylistLimit: 3}, zerolog.Nop())
}

func makeTracks(n int) []track.Track {
	out := make([]track.Track, n)
	for i := range out {
		out[i] = track.Track{Locator: fmt.Sprintf("https://www.youtube.com/watch?v=%011d", i), Title: fmt.Sprintf("t%d", i), Kind: track.KindRemote}
	}
	return out
}

func TestResolveVideo(t *testing.T) {
	p := &fakeProvider{}
	r := newResolver(p, nil)

	tracks, err := r.Resolve(context.Background(), "  https://youtu.be/dQw4w9WgXcQ  ")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "video dQw4w9WgXcQ", tracks[0].Title)
	assert.Equal(t, track.KindRemote, tracks[0].Kind)
}

func TestResolveVideoWinsOverPlaylist(t *testing.T) {
	p := &fakeProvider{playlist: makeTracks(5)}
	r := newResolver(p, nil)

	tracks, err := r.Resolve(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLabcdefghijkl")
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
	assert.Equal(t, "video", p.lastKind)
}

func TestResolveVideoNotFoundDoesNotFallThrough(t *testing.T) {
	p := &fakeProvider{videoErr: fmt.Errorf("%w: private", sources.ErrUnavailable)}
	r := newResolver(p, nil)

	_, err := r.Resolve(context.Background(), "dQw4w9WgXcQ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), p.calls.Load())

	var rerr *ResolutionError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "dQw4w9WgXcQ", rerr.Query)
}

func TestResolveVideoTransportIsProviderError(t *testing.T) {
	p := &fakeProvider{videoErr: fmt.Errorf("%w: dial tcp", sources.ErrTransport)}
	r := newResolver(p, nil)

	_, err := r.Resolve(context.Background(), "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrProvider)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestResolvePlaylistCapped(t *testing.T) {
	p := &fakeProvider{playlist: makeTracks(10)}
	r := newResolver(p, nil)

	tracks, err := r.Resolve(context.Background(), "https://www.youtube.com/playlist?list=PLabcdefghijkl")
	require.NoError(t, err)
	assert.Len(t, tracks, 3)
	assert.Equal(t, "t0", tracks[0].Title)
}

func TestResolvePlaylistEmpty(t *testing.T) {
	r := newResolver(&fakeProvider{}, nil)
	_, err := r.Resolve(context.Background(), "PLabcdefghijkl")
	assert.ErrorIs(t, err, ErrPlaylistEmpty)

	r = newResolver(&fakeProvider{playlistErr: sources.ErrEmptyPlaylist}, nil)
	_, err = r.Resolve(context.Background(), "PLabcdefghijkl")
	assert.ErrorIs(t, err, ErrPlaylistEmpty)
}

func TestResolveSearch(t *testing.T) {
	p := &fakeProvider{}
	r := newResolver(p, nil)

	tracks, err := r.Resolve(context.Background(), "daft punk around the world")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, "daft punk around the world", tracks[0].Title)
}

func TestResolveSearchEmpty(t *testing.T) {
	r := newResolver(&fakeProvider{searchErr: sources.ErrNoMatch}, nil)
	_, err := r.Resolve(context.Background(), "qwertyuiop asdf")
	assert.ErrorIs(t, err, ErrSearchEmpty)
}

func TestResolveEmptyQuery(t *testing.T) {
	r := newResolver(&fakeProvider{}, nil)
	_, err := r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveArbitraryLink(t *testing.T) {
	r := newResolver(&fakeProvider{}, fakeValidator{})
	tracks, err := r.Resolve(context.Background(), "https://radio.example/live/stream.mp3")
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, track.KindArbitrary, tracks[0].Kind)
	assert.Equal(t, "stream.mp3", tracks[0].Title)

	r = newResolver(&fakeProvider{}, fakeValidator{err: errors.New("text/html")})
	_, err = r.Resolve(context.Background(), "https://example.com/page")
	assert.ErrorIs(t, err, ErrNotFound)

	r = newResolver(&fakeProvider{}, nil)
	_, err = r.Resolve(context.Background(), "https://example.com/page")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveCaches(t *testing.T) {
	p := &fakeProvider{}
	r := newResolver(p, nil)

	first, err := r.Resolve(context.Background(), "same query")
	require.NoError(t, err)
	first[0].Title = "mutated"

	second, err := r.Resolve(context.Background(), "same query")
	require.NoError(t, err)
	assert.Equal(t, "same query", second[0].Title)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestResolveFailuresAreNotCached(t *testing.T) {
	p := &fakeProvider{searchErr: sources.ErrNoMatch}
	r := newResolver(p, nil)

	_, _ = r.Resolve(context.Background(), "nothing")
	_, _ = r.Resolve(context.Background(), "nothing")
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestResolveCoalescesConcurrentQueries(t *testing.T) {
	p := &fakeProvider{searchGate: make(chan struct{})}
	r := newResolver(p, nil)

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Resolve(context.Background(), "popular")
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(p.searchGate)
	wg.Wait()

	assert.Equal(t, int32(1), p.calls.Load())
}

func TestResolveArbitrary(t *testing.T) {
	got := ResolveArbitrary(" /srv/music/album/01 - intro.flac ")
	assert.Equal(t, track.Track{
		Locator: "/srv/music/album/01 - intro.flac",
		Title:   "01 - intro.flac",
		Kind:    track.KindArbitrary,
	}, got)

	assert.Equal(t, "song.mp3", ResolveArbitrary("https://cdn.example/a/song.mp3?sig=1").Title)
}

// slowClientError returns what net/http reports when a client timeout fires
// before the server answers.
func slowClientError(t *testing.T) error {
	t.Helper()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	defer close(release)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err := client.Get(srv.URL)
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func TestResolveClientTimeoutIsProviderError(t *testing.T) {
	timeout := slowClientError(t)

	cases := []struct {
		query    string
		provider *fakeProvider
	}{
		{"dQw4w9WgXcQ", &fakeProvider{videoErr: timeout}},
		{"https://www.youtube.com/playlist?list=PL0123456789abcdef", &fakeProvider{playlistErr: timeout}},
		{"some words", &fakeProvider{searchErr: timeout}},
	}
	for _, tc := range cases {
		_, err := newResolver(tc.provider, nil).Resolve(context.Background(), tc.query)

		var rerr *ResolutionError
		require.True(t, errors.As(err, &rerr), "query %q: %v", tc.query, err)
		assert.ErrorIs(t, err, ErrProvider, tc.query)
	}
}

func TestResolveTimeoutIsProviderError(t *testing.T) {
	p := &fakeProvider{searchHangs: true}
	r := New(p, nil, Options{Timeout: 20 * time.Millisecond}, zerolog.Nop())

	_, err := r.Resolve(context.Background(), "never answers")
	assert.ErrorIs(t, err, ErrProvider)
	assert.NotErrorIs(t, err, ErrSearchEmpty)
}

func TestResolveCallerCancelIsReturnedAsIs(t *testing.T) {
	p := &fakeProvider{searchGate: make(chan struct{})}
	defer close(p.searchGate)
	r := newResolver(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Resolve(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
	var rerr *ResolutionError
	assert.False(t, errors.As(err, &rerr))
}

func TestResolveCancelledCallerDoesNotFailOthers(t *testing.T) {
	p := &fakeProvider{searchGate: make(chan struct{})}
	r := newResolver(p, nil)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Resolve(first, "shared")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan []track.Track, 1)
	go func() {
		tracks, err := r.Resolve(context.Background(), "shared")
		assert.NoError(t, err)
		second <- tracks
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(p.searchGate)
	select {
	case tracks := <-second:
		require.Len(t, tracks, 1)
		assert.Equal(t, "shared", tracks[0].Title)
	case <-time.After(time.Second):
		t.Fatal("second caller never got the shared result")
	}
	assert.Equal(t, int32(1), p.calls.Load())
}
