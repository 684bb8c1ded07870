package core

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/music/voice"
)

// VoiceTarget points at the voice channel the interaction's author sits in.
// The channel is empty when the member is not in voice, which the session
// manager reports as an unresolved member.
func VoiceTarget(s *discordgo.Session, i *discordgo.InteractionCreate) voice.Target {
	t := voice.Target{GuildID: i.GuildID}
	if u := InteractionUser(i); u != nil {
		t.ChannelID, _ = voice.UserChannel(s, i.GuildID, u.ID)
	}
	return t
}
