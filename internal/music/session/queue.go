package session

import (
	"context"
	"errors"
	"runtime"

	"github.com/keshon/dare/internal/music/source_resolver"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/music/voice"
)

// Play resolves query and queues the result. Requests for one guild run one
// at a time in arrival order, so tracks land in the queue in the order members
// asked for them. If the guild's session is stopped while the query resolves,
// the result is dropped and ErrSessionReset returned.
func (m *Manager) Play(ctx context.Context, target voice.Target, query string) ([]track.Track, error) {
	if target.ChannelID == "" {
		return nil, ErrMemberNotResolved
	}

	unlock := m.lockGuild(target.GuildID)
	defer unlock()

	if err := m.checkChannel(target); err != nil {
		return nil, err
	}

	resets := m.resetCount(target.GuildID)

	tracks, err := m.deps.Resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	if m.resetCount(target.GuildID) != resets {
		m.log.Debug().Str("guild_id", target.GuildID).Str("query", query).Msg("session reset during resolution, dropping result")
		return nil, ErrSessionReset
	}

	if err := m.Enqueue(ctx, target, tracks); err != nil {
		return nil, err
	}
	return tracks, nil
}

func (m *Manager) resetCount(guildID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resets[guildID]
}

// PlayFile queues a literal URL or file path without any lookup.
func (m *Manager) PlayFile(ctx context.Context, target voice.Target, source string) (track.Track, error) {
	if target.ChannelID == "" {
		return track.Track{}, ErrMemberNotResolved
	}

	unlock := m.lockGuild(target.GuildID)
	defer unlock()

	t := source_resolver.ResolveArbitrary(source)
	if err := m.Enqueue(ctx, target, []track.Track{t}); err != nil {
		return track.Track{}, err
	}
	return t, nil
}

// Enqueue appends tracks to the guild's queue. When nothing is current the
// first track starts right away instead of waiting for an idle event.
func (m *Manager) Enqueue(ctx context.Context, target voice.Target, tracks []track.Track) error {
	s, err := m.EnsureReady(ctx, target)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionReset
	}
	s.queue = append(s.queue, tracks...)
	start := s.current == nil
	pending := len(s.queue)
	s.mu.Unlock()

	m.log.Debug().Str("guild_id", s.guildID).Int("added", len(tracks)).Int("pending", pending).Msg("tracks queued")

	if start {
		m.advance(s, true)
	}
	return nil
}

// advance moves the queue head to current and plays it. A head that fails to
// open is dropped and the next one tried, once per item; the attempt budget is
// the queue length and only grows if tracks were added meanwhile. An empty
// queue clears current and leaves the connection up.
//
// With onlyIfIdle set, advance does nothing when a track is already current;
// enqueue uses it so racing requests cannot skip each other's tracks.
func (m *Manager) advance(s *Session, onlyIfIdle bool) {
	s.advMu.Lock()
	defer s.advMu.Unlock()

	log := m.log.With().Str("guild_id", s.guildID).Str("session_id", s.id).Logger()

	s.mu.Lock()
	if onlyIfIdle && s.current != nil {
		s.mu.Unlock()
		return
	}
	budget := len(s.queue)
	s.mu.Unlock()

	for attempt := 0; ; attempt++ {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		if len(s.queue) == 0 {
			s.current = nil
			s.mu.Unlock()
			if attempt > 0 {
				log.Info().Int("dropped", attempt).Msg("queue exhausted")
			}
			return
		}
		if budget == 0 {
			budget = len(s.queue)
		}
		budget--
		item := s.queue[0]
		s.queue = s.queue[1:]
		s.current = &item
		s.mu.Unlock()

		res, err := m.deps.Streams.Open(m.ctx, item)
		if err != nil {
			if errors.Is(err, context.Canceled) && m.ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Str("track", item.DisplayName()).Msg("stream failed, dropping track")
			runtime.Gosched()
			continue
		}

		if !s.attach(res, m.volumes.Get(s.guildID)) {
			_ = res.Close()
			log.Debug().Str("track", item.DisplayName()).Msg("session closed while opening, discarding stream")
			return
		}

		s.player.Play(res)
		log.Info().Str("track", item.DisplayName()).Msg("now playing")

		if m.deps.History != nil && item.IsMusic() {
			if err := m.deps.History.RecordPlayed(s.guildID, item); err != nil {
				log.Warn().Err(err).Msg("failed to record track history")
			}
		}
		return
	}
}
