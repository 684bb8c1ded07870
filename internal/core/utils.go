package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/storage"
)

const EmbedColor = 0xb01e66

func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func RespondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}},
	})
}

func RespondEmbedEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags:  discordgo.MessageFlagsEphemeral,
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

// RespondDeferred acknowledges an interaction that will answer with a followup.
func RespondDeferred(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	resp := &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource}
	if ephemeral {
		resp.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return s.InteractionRespond(i.Interaction, resp)
}

func FollowupEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

func FollowupEmbedEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
	return err
}

// InteractionUser returns the user behind an interaction, in a guild or a DM.
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// LogCommand appends a command history record. Channel and guild names come
// from the state cache only.
func LogCommand(s *discordgo.Session, st *storage.Storage, i *discordgo.InteractionCreate, command, param string) error {
	if st == nil || i.GuildID == "" {
		return nil
	}

	var channelName, guildName string
	if s != nil && s.State != nil {
		if ch, err := s.State.Channel(i.ChannelID); err == nil {
			channelName = ch.Name
		}
		if g, err := s.State.Guild(i.GuildID); err == nil {
			guildName = g.Name
		}
	}

	rec := storage.CommandHistoryRecord{
		ChannelID:   i.ChannelID,
		ChannelName: channelName,
		GuildName:   guildName,
		Command:     command,
		Param:       param,
		Datetime:    time.Now(),
	}
	if u := InteractionUser(i); u != nil {
		rec.UserID, rec.Username = u.ID, u.Username
	}
	return st.AppendCommandToHistory(i.GuildID, rec)
}

// slashParam flattens the invoked subcommand and options into one line, e.g.
// "play query=lofi".
func slashParam(i *discordgo.InteractionCreate) string {
	if i.Type != discordgo.InteractionApplicationCommand {
		return ""
	}
	var parts []string
	var walk func(opts []*discordgo.ApplicationCommandInteractionDataOption)
	walk = func(opts []*discordgo.ApplicationCommandInteractionDataOption) {
		for _, o := range opts {
			switch o.Type {
			case discordgo.ApplicationCommandOptionSubCommand, discordgo.ApplicationCommandOptionSubCommandGroup:
				parts = append(parts, o.Name)
				walk(o.Options)
			default:
				parts = append(parts, o.Name+"="+optionString(o))
			}
		}
	}
	walk(i.ApplicationCommandData().Options)
	return strings.Join(parts, " ")
}

func optionString(o *discordgo.ApplicationCommandInteractionDataOption) string {
	switch v := o.Value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
