package voice

import (
	"github.com/bwmarrin/discordgo"
)

// StateOccupancy counts channel members from the discordgo state cache.
type StateOccupancy struct {
	Session *discordgo.Session
}

func (o StateOccupancy) Occupants(guildID, channelID string) int {
	if o.Session == nil || o.Session.State == nil || channelID == "" {
		return 0
	}
	guild, err := o.Session.State.Guild(guildID)
	if err != nil {
		return 0
	}

	botID := ""
	if o.Session.State.User != nil {
		botID = o.Session.State.User.ID
	}

	n := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == channelID && vs.UserID != botID {
			n++
		}
	}
	return n
}

// UserChannel returns the voice channel userID is connected to in guildID.
func UserChannel(s *discordgo.Session, guildID, userID string) (string, bool) {
	if s == nil || s.State == nil {
		return "", false
	}
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", false
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, true
		}
	}
	return "", false
}
