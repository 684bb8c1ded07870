package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

var activityKinds = map[string]discordgo.ActivityType{
	"PLAYING":   discordgo.ActivityTypeGame,
	"STREAMING": discordgo.ActivityTypeStreaming,
	"LISTENING": discordgo.ActivityTypeListening,
	"WATCHING":  discordgo.ActivityTypeWatching,
	"COMPETING": discordgo.ActivityTypeCompeting,
}

// presence builds the status shown under the bot's name. An empty text shows
// no activity.
func presence(text, kind, url string) (discordgo.UpdateStatusData, error) {
	status := discordgo.UpdateStatusData{Status: string(discordgo.StatusOnline)}
	if text == "" {
		return status, nil
	}

	t, ok := activityKinds[kind]
	if !ok {
		return status, fmt.Errorf("unknown activity type %q", kind)
	}
	activity := &discordgo.Activity{Name: text, Type: t}
	if t == discordgo.ActivityTypeStreaming {
		activity.URL = url
	}
	status.Activities = []*discordgo.Activity{activity}
	return status, nil
}

func (b *Bot) setPresence(s *discordgo.Session) {
	status, err := presence(b.cfg.ActivityText, b.cfg.ActivityType, b.cfg.ActivityURL)
	if err != nil {
		b.log.Warn().Err(err).Msg("presence not set")
		return
	}
	if err := s.UpdateStatusComplex(status); err != nil {
		b.log.Warn().Err(err).Msg("failed to update presence")
		return
	}
	b.log.Info().Str("activity", b.cfg.ActivityText).Str("type", b.cfg.ActivityType).Msg("presence set")
}
