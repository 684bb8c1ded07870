package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/core"
)

// onInteractionCreate is called when an interaction is created
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := b.log.With().Str("guild_id", i.GuildID).Logger()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		cmd, ok := b.registry.Get(name)
		if !ok {
			log.Warn().Str("command", name).Msg("unknown command")
			return
		}

		err := cmd.Run(&core.SlashInteractionContext{
			Ctx:     b.ctx,
			Session: s,
			Event:   i,
			Storage: b.storage,
			Log:     log,
		})
		if err != nil {
			log.Error().Err(err).Str("command", name).Msg("error running slash command")
			b.reportError(s, i, err)
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		cmd, ok := b.registry.ForComponent(customID)
		if !ok {
			log.Warn().Str("custom_id", customID).Msg("no command for component")
			return
		}
		handler, ok := cmd.(core.ComponentInteractionHandler)
		if !ok {
			log.Warn().Str("command", cmd.Name()).Msg("command does not handle components")
			return
		}

		err := handler.Component(&core.ComponentInteractionContext{
			Ctx:      b.ctx,
			Session:  s,
			Event:    i,
			Storage:  b.storage,
			Log:      log,
			CustomID: customID,
		})
		if err != nil {
			log.Error().Err(err).Str("custom_id", customID).Msg("error running component")
			b.reportError(s, i, err)
		}

	default:
		log.Debug().Int("type", int(i.Type)).Msg("unhandled interaction type")
	}
}

// reportError tells the member a command failed. If the interaction was
// already answered the followup is used instead.
func (b *Bot) reportError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Error running command: %v", err),
		Color:       core.EmbedColor,
	}
	if core.RespondEmbedEphemeral(s, i, embed) == nil {
		return
	}
	if ferr := core.FollowupEmbedEphemeral(s, i, embed); ferr != nil {
		b.log.Debug().Err(ferr).Msg("could not report command error")
	}
}
