package storage

import (
	"time"

	"github.com/keshon/dare/internal/music/track"
)

// RecordPlayed remembers a track that started playing in the guild.
func (s *Storage) RecordPlayed(guildID string, t track.Track) error {
	entry := TrackHistoryRecord{
		Title:    t.DisplayName(),
		Locator:  t.Locator,
		Kind:     t.Kind,
		PlayedAt: time.Now().UTC(),
	}
	return s.update(guildID, func(r *Record) {
		r.TracksHistoryList = trimTail(append(r.TracksHistoryList, entry), tracksHistoryLimit)
	})
}

// FetchTracksHistory returns the guild's recently played tracks, oldest first.
func (s *Storage) FetchTracksHistory(guildID string) ([]TrackHistoryRecord, error) {
	record, err := s.read(guildID)
	if err != nil {
		return nil, err
	}
	return record.TracksHistoryList, nil
}
