package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/keshon/dare/internal/music/player"
	"github.com/keshon/dare/internal/music/stream"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/music/voice"
)

type fakeConn struct {
	guildID   string
	channelID string
	gone      chan struct{}
	once      sync.Once
	closed    atomic.Bool
}

func (c *fakeConn) GuildID() string   { return c.guildID }
func (c *fakeConn) ChannelID() string { return c.channelID }

func (c *fakeConn) SendOpus(context.Context, []byte) error { return nil }
func (c *fakeConn) Speaking(bool) error                    { return nil }
func (c *fakeConn) Disconnected() <-chan struct{}          { return c.gone }

func (c *fakeConn) Disconnect() error {
	c.closed.Store(true)
	c.drop()
	return nil
}

// drop simulates the platform cutting the connection.
func (c *fakeConn) drop() {
	c.once.Do(func() { close(c.gone) })
}

type fakeVoice struct {
	mu    sync.Mutex
	joins int
	conns []*fakeConn
	gate  chan struct{}
	err   error
}

func (v *fakeVoice) Join(_ context.Context, target voice.Target) (voice.Connection, error) {
	if v.gate != nil {
		<-v.gate
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.joins++
	if v.err != nil {
		return nil, v.err
	}
	c := &fakeConn{guildID: target.GuildID, channelID: target.ChannelID, gone: make(chan struct{})}
	v.conns = append(v.conns, c)
	return c, nil
}

func (v *fakeVoice) Joins() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.joins
}

func (v *fakeVoice) Last() *fakeConn {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.conns[len(v.conns)-1]
}

// fakePlayer records what it was asked to play. Finish plays the part of a
// resource reaching its natural end.
type fakePlayer struct {
	mu      sync.Mutex
	played  []*stream.Resource
	current *stream.Resource
	paused  bool
	closed  bool
	events  chan player.Event
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{events: make(chan player.Event, 64)}
}

func (p *fakePlayer) Play(res *stream.Resource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played = append(p.played, res)
	p.current = res
}

func (p *fakePlayer) Stop() { p.Finish(nil) }

func (p *fakePlayer) Finish(err error) {
	p.mu.Lock()
	cur := p.current
	p.current = nil
	closed := p.closed
	p.mu.Unlock()
	if cur != nil && !closed {
		p.events <- player.Event{Resource: cur, Status: player.StatusIdle, Err: err}
	}
}

func (p *fakePlayer) Pause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil || p.paused {
		return false
	}
	p.paused = true
	return true
}

func (p *fakePlayer) Resume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return false
	}
	p.paused = false
	return true
}

func (p *fakePlayer) Status() player.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case p.current == nil:
		return player.StatusIdle
	case p.paused:
		return player.StatusPaused
	}
	return player.StatusPlaying
}

func (p *fakePlayer) Current() *stream.Resource {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Playing returns the title of the resource on air, or "".
func (p *fakePlayer) Playing() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return ""
	}
	return p.current.Title()
}

func (p *fakePlayer) Events() <-chan player.Event { return p.events }

func (p *fakePlayer) Close() {
	p.mu.Lock()
	p.closed = true
	p.current = nil
	p.mu.Unlock()
}

func (p *fakePlayer) Titles() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.played))
	for i, r := range p.played {
		out[i] = r.Title()
	}
	return out
}

type fakeStreams struct {
	mu     sync.Mutex
	failed map[string]bool
	opened []string
	gate   chan struct{}
}

var errUnreachable = errors.New("source unreachable")

func (f *fakeStreams) Open(_ context.Context, t track.Track) (*stream.Resource, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.opened = append(f.opened, t.DisplayName())
	fail := f.failed[t.Locator]
	f.mu.Unlock()
	if fail {
		return nil, errUnreachable
	}
	return stream.NewResource(t, io.NopCloser(bytes.NewReader(nil)), nil), nil
}

func (f *fakeStreams) FromReader(_ context.Context, t track.Track, src io.ReadCloser) (*stream.Resource, error) {
	return stream.NewResource(t, src, nil), nil
}

type fakeResolver struct {
	mu      sync.Mutex
	calls   []string
	gates   map[string]chan struct{}
	entered chan string
	err     error
}

func (r *fakeResolver) Resolve(_ context.Context, query string) ([]track.Track, error) {
	r.mu.Lock()
	r.calls = append(r.calls, query)
	gate := r.gates[query]
	r.mu.Unlock()

	if r.entered != nil {
		r.entered <- query
	}
	if gate != nil {
		<-gate
	}
	if r.err != nil {
		return nil, r.err
	}
	return []track.Track{music(query)}, nil
}

type fakeSpeech struct {
	calls atomic.Int32
	err   error
	lang  atomic.Value
}

func (s *fakeSpeech) Synthesize(_ context.Context, text, lang string) (io.ReadCloser, error) {
	s.calls.Add(1)
	s.lang.Store(lang)
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(bytes.NewReader([]byte(text))), nil
}

type fakeOccupancy struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *fakeOccupancy) Occupants(_, channelID string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[channelID]
}

func (o *fakeOccupancy) set(channelID string, n int) {
	o.mu.Lock()
	o.counts[channelID] = n
	o.mu.Unlock()
}

type fakeHistory struct {
	mu     sync.Mutex
	played []string
}

func (h *fakeHistory) RecordPlayed(_ string, t track.Track) error {
	h.mu.Lock()
	h.played = append(h.played, t.DisplayName())
	h.mu.Unlock()
	return nil
}

func (h *fakeHistory) Played() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.played...)
}

type harness struct {
	m         *Manager
	voice     *fakeVoice
	streams   *fakeStreams
	resolver  *fakeResolver
	speech    *fakeSpeech
	occupancy *fakeOccupancy
	history   *fakeHistory

	mu      sync.Mutex
	players []*fakePlayer
}

func newHarness() *harness {
	h := &harness{
		voice:     &fakeVoice{},
		streams:   &fakeStreams{failed: map[string]bool{}},
		resolver:  &fakeResolver{gates: map[string]chan struct{}{}},
		speech:    &fakeSpeech{},
		occupancy: &fakeOccupancy{counts: map[string]int{}},
		history:   &fakeHistory{},
	}
	h.m = New(Deps{
		Voice: h.voice,
		Players: func(voice.Connection) (player.Player, error) {
			p := newFakePlayer()
			h.mu.Lock()
			h.players = append(h.players, p)
			h.mu.Unlock()
			return p, nil
		},
		Streams:   h.streams,
		Resolver:  h.resolver,
		Speech:    h.speech,
		Occupancy: h.occupancy,
		History:   h.history,
		Log:       zerolog.Nop(),
	})
	return h
}

func (h *harness) player() *fakePlayer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.players[len(h.players)-1]
}

func music(name string) track.Track {
	return track.Track{Locator: "https://media.example/" + name, Title: name, Kind: track.KindRemote}
}

func effect(name string) track.Track {
	return track.Track{Locator: "/pads/" + name + ".mp3", Title: name, Kind: track.KindEffect}
}

func titles(tracks []track.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.DisplayName()
	}
	return out
}
