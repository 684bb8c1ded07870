package core

import (
	"fmt"
	"runtime"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"github.com/keshon/dare/internal/core"
)

// ResourcesCommand reports process memory to the bot developer.
type ResourcesCommand struct {
	DevID string
}

func (c *ResourcesCommand) Name() string        { return "getresources" }
func (c *ResourcesCommand) Description() string { return "Show the bot's process memory" }
func (c *ResourcesCommand) Group() string       { return "dev" }
func (c *ResourcesCommand) Category() string    { return "🛠️ Developer" }

func (c *ResourcesCommand) SlashDefinition() *discordgo.ApplicationCommand {
	perms := int64(discordgo.PermissionAdministrator)
	return &discordgo.ApplicationCommand{
		Name:                     c.Name(),
		Description:              c.Description(),
		DefaultMemberPermissions: &perms,
	}
}

func (c *ResourcesCommand) Run(ctx interface{}) error {
	sc, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := sc.Session, sc.Event

	if !c.allowed(core.InteractionUser(e)) {
		return core.RespondEphemeral(s, e, "This command is reserved for the bot developer.")
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return core.RespondEmbedEphemeral(s, e, resourceReport(&ms, runtime.NumGoroutine()))
}

// allowed is false for everyone when no developer id is configured.
func (c *ResourcesCommand) allowed(u *discordgo.User) bool {
	return c.DevID != "" && u != nil && u.ID == c.DevID
}

func resourceReport(ms *runtime.MemStats, goroutines int) *discordgo.MessageEmbed {
	field := func(name, value string) *discordgo.MessageEmbedField {
		return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
	}
	return &discordgo.MessageEmbed{
		Title: "Process resources",
		Color: core.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			field("Process RAM", humanize.IBytes(ms.Sys)),
			field("Heap in use", humanize.IBytes(ms.HeapInuse)),
			field("Goroutines", fmt.Sprint(goroutines)),
			field("GC cycles", fmt.Sprint(ms.NumGC)),
		},
	}
}
