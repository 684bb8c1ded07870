// Package session owns every guild's audio session: the voice connection, the
// player bound to it, the music queue and the guild's volume.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/keshon/dare/internal/music/player"
	"github.com/keshon/dare/internal/music/stream"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/music/voice"
)

// TrackOpener turns tracks and raw payloads into playable resources.
type TrackOpener interface {
	Open(ctx context.Context, t track.Track) (*stream.Resource, error)
	FromReader(ctx context.Context, t track.Track, src io.ReadCloser) (*stream.Resource, error)
}

type Resolver interface {
	Resolve(ctx context.Context, query string) ([]track.Track, error)
}

// Synthesizer produces spoken audio for text in a two-letter language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (io.ReadCloser, error)
}

// HistoryRecorder is told about every music track that starts playing.
type HistoryRecorder interface {
	RecordPlayed(guildID string, t track.Track) error
}

// PlayerFactory binds a new player to a fresh connection.
type PlayerFactory func(conn voice.Connection) (player.Player, error)

type Deps struct {
	Voice     voice.Opener
	Players   PlayerFactory
	Streams   TrackOpener
	Resolver  Resolver
	Speech    Synthesizer
	Occupancy voice.Occupancy
	History   HistoryRecorder

	// SpeechFallback is the language used when a locale cannot be parsed.
	SpeechFallback string
	Log            zerolog.Logger
}

type Manager struct {
	deps    Deps
	log     zerolog.Logger
	volumes *VolumeStore

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	sessions    map[string]*Session
	generations map[string]uint64
	// resets counts stops and teardowns only; opening a session leaves it alone.
	resets     map[string]uint64
	guildLocks  map[string]chan struct{}
	shutdown    bool

	connecting singleflight.Group
}

func New(deps Deps) *Manager {
	if deps.SpeechFallback == "" {
		deps.SpeechFallback = "pt"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		deps:        deps,
		log:         deps.Log.With().Str("component", "session").Logger(),
		volumes:     NewVolumeStore(),
		ctx:         ctx,
		cancel:      cancel,
		sessions:    make(map[string]*Session),
		generations: make(map[string]uint64),
		resets:      make(map[string]uint64),
		guildLocks:  make(map[string]chan struct{}),
	}
}

func (m *Manager) session(guildID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[guildID]
}

// Generation returns the guild's session generation. It moves whenever a
// session is created or torn down.
func (m *Manager) Generation(guildID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[guildID]
}

// Sessions returns the number of live sessions.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// lockGuild serializes requests for one guild. Waiters are released in
// arrival order.
func (m *Manager) lockGuild(guildID string) func() {
	m.mu.Lock()
	lock, ok := m.guildLocks[guildID]
	if !ok {
		lock = make(chan struct{}, 1)
		m.guildLocks[guildID] = lock
	}
	m.mu.Unlock()

	lock <- struct{}{}
	return func() { <-lock }
}

// checkChannel rejects a request for target when the guild's session lives in
// another channel that still has listeners.
func (m *Manager) checkChannel(target voice.Target) error {
	s := m.session(target.GuildID)
	if s == nil {
		return nil
	}
	current := s.ChannelID()
	if current == "" || current == target.ChannelID {
		return nil
	}
	if m.deps.Occupancy != nil && m.deps.Occupancy.Occupants(target.GuildID, current) > 0 {
		return ErrBusyElsewhere
	}
	return nil
}

// EnsureReady returns the guild's session, opening a connection and binding a
// player when there is none. An existing session is reused whatever channel
// it sits in, unless that channel still has listeners and the request comes
// from elsewhere. Concurrent first calls share a single connection attempt.
func (m *Manager) EnsureReady(ctx context.Context, target voice.Target) (*Session, error) {
	if target.GuildID == "" || target.ChannelID == "" {
		return nil, ErrMemberNotResolved
	}
	if err := m.checkChannel(target); err != nil {
		return nil, err
	}
	if s := m.session(target.GuildID); s != nil {
		return s, nil
	}

	v, err, _ := m.connecting.Do(target.GuildID, func() (any, error) {
		if s := m.session(target.GuildID); s != nil {
			return s, nil
		}
		return m.open(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

func (m *Manager) open(ctx context.Context, target voice.Target) (*Session, error) {
	log := m.log.With().Str("guild_id", target.GuildID).Str("channel_id", target.ChannelID).Logger()

	conn, err := m.deps.Voice.Join(ctx, target)
	if err != nil {
		log.Warn().Err(err).Msg("voice join failed")
		return nil, fmt.Errorf("join voice channel: %w", err)
	}

	p, err := m.deps.Players(conn)
	if err != nil {
		_ = conn.Disconnect()
		return nil, fmt.Errorf("create player: %w", err)
	}

	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		p.Close()
		_ = conn.Disconnect()
		return nil, ErrShutdown
	}
	m.generations[target.GuildID]++
	s := &Session{
		id:         uuid.NewString(),
		guildID:    target.GuildID,
		generation: m.generations[target.GuildID],
		conn:       conn,
		player:     p,
		done:       make(chan struct{}),
	}
	m.sessions[target.GuildID] = s
	m.mu.Unlock()

	log.Info().Str("session_id", s.id).Uint64("generation", s.generation).Msg("session opened")
	go m.watch(s)
	return s, nil
}

// watch is the session's control loop: idle events of the attached resource
// advance the queue, a lost connection tears the session down.
func (m *Manager) watch(s *Session) {
	log := m.log.With().Str("guild_id", s.guildID).Str("session_id", s.id).Logger()

	for {
		select {
		case <-s.done:
			return

		case <-s.conn.Disconnected():
			log.Info().Msg("voice connection lost")
			m.teardown(s)
			return

		case ev := <-s.player.Events():
			if ev.Status != player.StatusIdle {
				continue
			}
			if ev.Err != nil {
				log.Warn().Err(ev.Err).Msg("player fault, treating as idle")
			}

			s.mu.Lock()
			attached := !s.closed && ev.Resource != nil && ev.Resource == s.resource
			if attached {
				s.resource = nil
			}
			s.mu.Unlock()

			if attached {
				m.advance(s, false)
			}
		}
	}
}

// teardown removes s and releases everything it holds. Only the registered
// session for a guild clears the guild's volume.
func (m *Manager) teardown(s *Session) {
	m.mu.Lock()
	registered := m.sessions[s.guildID] == s
	if registered {
		delete(m.sessions, s.guildID)
		m.generations[s.guildID]++
		m.resets[s.guildID]++
		m.volumes.Reset(s.guildID)
	}
	m.mu.Unlock()

	if !s.close() {
		return
	}
	s.player.Close()
	if err := s.conn.Disconnect(); err != nil {
		m.log.Debug().Err(err).Str("guild_id", s.guildID).Msg("disconnect failed")
	}
	m.log.Info().Str("guild_id", s.guildID).Str("session_id", s.id).Msg("session closed")
}

// Stop halts playback and resets the guild: connection, player, queue and
// volume are all released. It reports whether a session existed.
func (m *Manager) Stop(guildID string) bool {
	m.mu.Lock()
	s := m.sessions[guildID]
	if s == nil {
		m.generations[guildID]++
		m.resets[guildID]++
		m.volumes.Reset(guildID)
	}
	m.mu.Unlock()

	if s == nil {
		return false
	}
	m.teardown(s)
	return true
}

// Shutdown tears down every session. The manager refuses new sessions
// afterwards.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.shutdown = true
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	for _, s := range all {
		m.teardown(s)
	}
	m.cancel()
}

func (m *Manager) ChannelID(guildID string) (string, bool) {
	s := m.session(guildID)
	if s == nil {
		return "", false
	}
	return s.ChannelID(), true
}

// QueueSnapshot returns the guild's current track and pending queue. A guild
// without a session has neither.
func (m *Manager) QueueSnapshot(guildID string) Snapshot {
	s := m.session(guildID)
	if s == nil {
		return Snapshot{Pending: []track.Track{}, Status: player.StatusIdle}
	}
	return s.snapshot()
}

// SetVolume stores the guild's gain, clamped to [0,1], and applies it to the
// attached resource without interrupting it.
func (m *Manager) SetVolume(guildID string, v float64) float64 {
	v = m.volumes.Set(guildID, v)
	if s := m.session(guildID); s != nil {
		s.mu.Lock()
		if s.resource != nil {
			s.resource.SetVolume(v)
		}
		s.mu.Unlock()
	}
	return v
}

// SetVolumePercent takes the 0-100 scale members use.
func (m *Manager) SetVolumePercent(guildID string, percent float64) float64 {
	return m.SetVolume(guildID, clamp(percent, 0, 100)/100)
}

func (m *Manager) GetVolume(guildID string) float64 {
	return m.volumes.Get(guildID)
}

// Skip stops the current resource; the resulting idle event advances the
// queue. It reports whether anything was playing.
func (m *Manager) Skip(guildID string) bool {
	s := m.session(guildID)
	if s == nil || s.player.Current() == nil {
		return false
	}
	s.player.Stop()
	return true
}

func (m *Manager) Pause(guildID string) bool {
	s := m.session(guildID)
	return s != nil && s.player.Pause()
}

func (m *Manager) Resume(guildID string) bool {
	s := m.session(guildID)
	return s != nil && s.player.Resume()
}
