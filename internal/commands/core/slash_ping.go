package core

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/core"
)

// SessionCounter reports how many guilds currently hold a voice session.
type SessionCounter interface {
	Sessions() int
}

type PingCommand struct {
	Sessions SessionCounter
}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Check gateway latency and voice load" }
func (c *PingCommand) Group() string       { return "core" }
func (c *PingCommand) Category() string    { return "🕯️ Information" }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *PingCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title: "Pong!",
		Color: core.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Gateway", Value: fmt.Sprintf("%dms", sc.Session.HeartbeatLatency().Milliseconds()), Inline: true},
		},
	}
	if c.Sessions != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Voice sessions", Value: fmt.Sprint(c.Sessions.Sessions()), Inline: true,
		})
	}
	return core.RespondEmbedEphemeral(sc.Session, sc.Event, embed)
}
