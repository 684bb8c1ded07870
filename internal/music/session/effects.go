package session

import (
	"context"
	"fmt"

	"github.com/keshon/dare/internal/music/stream"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/music/voice"
	"github.com/keshon/dare/internal/tts"
)

// PlayEffect plays t at once, cutting off whatever is playing. The queue is
// left alone; when the effect ends the next queued track starts.
func (m *Manager) PlayEffect(ctx context.Context, target voice.Target, t track.Track) error {
	s, err := m.EnsureReady(ctx, target)
	if err != nil {
		return err
	}

	res, err := m.deps.Streams.Open(ctx, t)
	if err != nil {
		return err
	}
	return m.playNow(s, res)
}

// Speak synthesizes text in the language of locale and plays it like an
// effect. Failures are returned to the caller and never retried.
func (m *Manager) Speak(ctx context.Context, target voice.Target, text, locale string) error {
	if m.deps.Speech == nil {
		return fmt.Errorf("speech synthesis is not configured")
	}
	lang := tts.LanguageFromLocale(locale, m.deps.SpeechFallback)

	s, err := m.EnsureReady(ctx, target)
	if err != nil {
		return err
	}

	audio, err := m.deps.Speech.Synthesize(ctx, text, lang)
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}

	res, err := m.deps.Streams.FromReader(ctx, track.Track{
		Locator: "tts:" + lang,
		Title:   text,
		Kind:    track.KindEffect,
	}, audio)
	if err != nil {
		return err
	}
	return m.playNow(s, res)
}

func (m *Manager) playNow(s *Session, res *stream.Resource) error {
	if !s.attach(res, m.volumes.Get(s.guildID)) {
		_ = res.Close()
		return ErrSessionReset
	}
	s.player.Play(res)
	m.log.Info().Str("guild_id", s.guildID).Str("effect", res.Title()).Msg("playing effect")
	return nil
}
