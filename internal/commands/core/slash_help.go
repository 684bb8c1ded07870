package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/dare/internal/config"
	"github.com/keshon/dare/internal/core"
	"github.com/keshon/dare/internal/version"

	"github.com/bwmarrin/discordgo"
)

type HelpCommand struct {
	Registry *core.Registry
}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Description() string { return "Get a list of available commands" }
func (c *HelpCommand) Group() string       { return "core" }
func (c *HelpCommand) Category() string    { return "🕯️ Information" }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	return core.RespondEmbedEphemeral(context.Session, context.Event, &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: buildHelpByCategory(c.Registry.All()),
		Color:       core.EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: version.Get().Short()},
	})
}

func buildHelpByCategory(all []core.Command) string {
	categoryMap := make(map[string][]core.Command)
	for _, cmd := range all {
		categoryMap[cmd.Category()] = append(categoryMap[cmd.Category()], cmd)
	}

	cats := make([]string, 0, len(categoryMap))
	for cat := range categoryMap {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := config.CategoryWeights[cats[i]], config.CategoryWeights[cats[j]]
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var b strings.Builder
	for _, cat := range cats {
		fmt.Fprintf(&b, "**%s**\n", cat)
		for _, cmd := range categoryMap[cat] {
			fmt.Fprintf(&b, "`/%s` - %s\n", cmd.Name(), cmd.Description())
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
