package discord

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/core"
)

// syncCommands brings the slash commands registered with Discord in line with
// the registry: obsolete ones are deleted, changed ones created or updated.
// An empty guildID targets the global command set.
func (b *Bot) syncCommands(appID, guildID string) error {
	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	wanted := buildCommandDefinitions(b.registry)
	wantedHashes := make(map[string]string, len(wanted))
	for _, def := range wanted {
		wantedHashes[def.Name] = hashCommand(def)
	}

	cache := b.commandCache()
	hashes := cache.load(guildID)
	remoteNames := make(map[string]bool, len(remote))

	for _, old := range remote {
		remoteNames[old.Name] = true
		if _, ok := wantedHashes[old.Name]; ok {
			continue
		}
		b.log.Info().Str("guild_id", guildID).Str("command", old.Name).Msg("deleting obsolete command")
		if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
			b.log.Error().Err(err).Str("command", old.Name).Msg("failed to delete command")
			continue
		}
		delete(hashes, old.Name)
	}

	for _, def := range wanted {
		h := wantedHashes[def.Name]
		if remoteNames[def.Name] && hashes[def.Name] == h {
			continue
		}
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			b.log.Error().Err(err).Str("command", def.Name).Msg("failed to register command")
			continue
		}
		hashes[def.Name] = h
		b.log.Info().Str("guild_id", guildID).Str("command", def.Name).Msg("command registered")
		time.Sleep(25 * time.Millisecond) // stay well under Discord's rate limit
	}

	if err := cache.save(guildID, hashes); err != nil {
		b.log.Warn().Err(err).Msg("failed to save command hashes")
	}
	return nil
}

// buildCommandDefinitions returns ApplicationCommand definitions for all registered commands.
func buildCommandDefinitions(r *core.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, cmd := range r.All() {
		sp, ok := cmd.(core.SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}
