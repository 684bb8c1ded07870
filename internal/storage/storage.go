// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/keshon/datastore"
	"github.com/rs/zerolog"

	"github.com/keshon/dare/internal/music/track"
)

const (
	commandHistoryLimit int = 20
	tracksHistoryLimit  int = 12
)

type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Param       string    `json:"param"`
	Datetime    time.Time `json:"datetime"`
}

type TrackHistoryRecord struct {
	Title    string     `json:"title"`
	Locator  string     `json:"locator"`
	Kind     track.Kind `json:"kind"`
	PlayedAt time.Time  `json:"played_at"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	TracksHistoryList   []TrackHistoryRecord   `json:"tracks_history"`
	TTSLocale           string                 `json:"tts_locale"`
}

// New opens the datastore at filePath. ctx bounds the background autosave;
// Close still performs the final save.
func New(ctx context.Context, filePath string, log zerolog.Logger) (*Storage, error) {
	logger := slog.New(zerolog.NewSlogHandler(log.With().Str("component", "storage").Logger()))
	ds, err := datastore.New(ctx, filePath, datastore.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord returns a copy of the guild's record. Callers hold s.mu.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	var record Record
	if _, err := s.ds.Get(guildID, &record); err != nil {
		return nil, fmt.Errorf("load guild record %s: %w", guildID, err)
	}

	if record.CommandsHistoryList == nil {
		record.CommandsHistoryList = []CommandHistoryRecord{}
	}
	if record.TracksHistoryList == nil {
		record.TracksHistoryList = []TrackHistoryRecord{}
	}
	return &record, nil
}

func (s *Storage) update(guildID string, fn func(r *Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	fn(record)
	if err := s.ds.Set(guildID, record); err != nil {
		return fmt.Errorf("save guild record %s: %w", guildID, err)
	}
	return nil
}

func (s *Storage) read(guildID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateGuildRecord(guildID)
}

func trimTail[T any](list []T, limit int) []T {
	if len(list) > limit {
		return list[len(list)-limit:]
	}
	return list
}
