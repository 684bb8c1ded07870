package session

import (
	"sync"

	"github.com/keshon/dare/internal/music/player"
	"github.com/keshon/dare/internal/music/stream"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/music/voice"
)

// Session is one guild's voice presence: its connection, player, music queue
// and the resource currently attached to the player.
type Session struct {
	id         string
	guildID    string
	generation uint64

	conn   voice.Connection
	player player.Player

	// advMu serializes queue advancement.
	advMu sync.Mutex

	mu       sync.Mutex
	queue    []track.Track
	current  *track.Track
	resource *stream.Resource
	closed   bool

	done chan struct{}
}

func (s *Session) ID() string         { return s.id }
func (s *Session) GuildID() string    { return s.guildID }
func (s *Session) Generation() uint64 { return s.generation }
func (s *Session) ChannelID() string  { return s.conn.ChannelID() }

// Snapshot is a point-in-time copy of a guild's queue.
type Snapshot struct {
	Current *track.Track
	Pending []track.Track
	Status  player.Status
}

func (s *Session) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Pending: make([]track.Track, len(s.queue))}
	copy(snap.Pending, s.queue)
	if s.current != nil {
		cur := *s.current
		snap.Current = &cur
	}
	snap.Status = s.player.Status()
	return snap
}

// attach makes res the session's resource unless the session is gone.
func (s *Session) attach(res *stream.Resource, volume float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	res.SetVolume(volume)
	s.resource = res
	return true
}

// close marks the session dead and clears its queue. It reports false if the
// session was already closed.
func (s *Session) close() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	s.queue = nil
	s.current = nil
	s.resource = nil
	s.mu.Unlock()

	close(s.done)
	return true
}
