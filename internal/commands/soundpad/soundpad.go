package soundpad

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/core"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/music/voice"
	"github.com/keshon/dare/internal/soundpad"
)

const (
	buttonsPerRow  = 5
	rowsPerMessage = 5
	// Discord limits
	maxLabel    = 80
	maxCustomID = 100
	maxOptions  = 25
)

type Effects interface {
	PlayEffect(ctx context.Context, target voice.Target, t track.Track) error
}

type SoundpadCommand struct {
	Effects Effects
	Catalog *soundpad.Catalog
}

func (c *SoundpadCommand) Name() string        { return "soundpad" }
func (c *SoundpadCommand) Description() string { return "Play sound effects" }
func (c *SoundpadCommand) Group() string       { return "soundpad" }
func (c *SoundpadCommand) Category() string    { return "🔊 Soundpad" }

func (c *SoundpadCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "play",
				Description: "Play a pad right now",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "filepath",
						Description: "Pad name or path",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Browse pads by category",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list-all",
				Description: "Post buttons for every pad",
			},
		},
	}
}

func (c *SoundpadCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	s, e := context.Session, context.Event
	data := e.ApplicationCommandData()
	if len(data.Options) == 0 {
		return core.RespondEphemeral(s, e, "Missing subcommand.")
	}
	sub := data.Options[0]

	switch sub.Name {
	case "play":
		var input string
		for _, o := range sub.Options {
			if o.Name == "filepath" {
				input = o.StringValue()
			}
		}
		pad, ok := c.Catalog.Find(input)
		if !ok {
			return core.RespondEphemeral(s, e, "Pad not found!")
		}
		return c.play(context.Ctx, s, e, pad)

	case "list":
		menu, ok := categoryMenu(c.Catalog.Categories())
		if !ok {
			return core.RespondEphemeral(s, e, "No pad categories found.")
		}
		return s.InteractionRespond(e.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    "Pick a category:",
				Components: []discordgo.MessageComponent{menu},
				Flags:      discordgo.MessageFlagsEphemeral,
			},
		})

	case "list-all":
		return c.postButtons(s, e, "all", c.Catalog.All())

	default:
		return core.RespondEphemeral(s, e, fmt.Sprintf("Unknown subcommand: %s", sub.Name))
	}
}

// Component handles the category menu and pad buttons.
func (c *SoundpadCommand) Component(ctx *core.ComponentInteractionContext) error {
	s, e := ctx.Session, ctx.Event
	_, rest, _ := strings.Cut(ctx.CustomID, ":")
	kind, arg, _ := strings.Cut(rest, ":")

	switch kind {
	case "cat":
		values := e.MessageComponentData().Values
		if len(values) == 0 {
			return nil
		}
		return c.postButtons(s, e, values[0], c.Catalog.InCategory(values[0]))

	case "pad":
		pad, ok := c.Catalog.Get(arg)
		if !ok {
			return core.RespondEphemeral(s, e, "That pad no longer exists.")
		}
		return c.play(ctx.Ctx, s, e, pad)
	}
	return nil
}

func (c *SoundpadCommand) play(ctx context.Context, s *discordgo.Session, e *discordgo.InteractionCreate, pad soundpad.Pad) error {
	if err := c.Effects.PlayEffect(ctx, core.VoiceTarget(s, e), pad.Track()); err != nil {
		return core.RespondEphemeral(s, e, core.DescribeError(err))
	}
	return core.RespondEphemeral(s, e, "🔊 Playing: "+pad.Name)
}

// postButtons answers ephemerally and posts the pad buttons to the channel,
// several rows per message.
func (c *SoundpadCommand) postButtons(s *discordgo.Session, e *discordgo.InteractionCreate, label string, pads []soundpad.Pad) error {
	rows := buttonRows(pads)
	if len(rows) == 0 {
		return core.RespondEphemeral(s, e, fmt.Sprintf("No audio files in category %q.", label))
	}
	if err := core.RespondEphemeral(s, e, fmt.Sprintf("Sending audio list.\nCategory: %s", label)); err != nil {
		return err
	}

	for i, chunk := range chunkRows(rows, rowsPerMessage) {
		_, err := s.ChannelMessageSendComplex(e.ChannelID, &discordgo.MessageSend{
			Content:    fmt.Sprintf("Audio list (%s): %d", label, i+1),
			Components: chunk,
		})
		if err != nil {
			return fmt.Errorf("send pad buttons: %w", err)
		}
	}
	return nil
}

func categoryMenu(categories []string) (discordgo.MessageComponent, bool) {
	if len(categories) == 0 {
		return nil, false
	}
	var opts []discordgo.SelectMenuOption
	for _, cat := range categories {
		if len(opts) == maxOptions {
			break
		}
		opts = append(opts, discordgo.SelectMenuOption{Label: truncate(cat, maxLabel), Value: cat})
	}
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.SelectMenu{
			MenuType:    discordgo.StringSelectMenu,
			CustomID:    core.ComponentID("soundpad", "cat"),
			Placeholder: "Choose a category...",
			Options:     opts,
		},
	}}, true
}

// buttonRows lays pads out five to a row. Pads whose key does not fit in a
// custom ID are left out.
func buttonRows(pads []soundpad.Pad) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for _, p := range pads {
		id := core.ComponentID("soundpad", "pad", p.Key)
		if len(id) > maxCustomID {
			continue
		}
		row = append(row, discordgo.Button{
			Label:    truncate(p.Name, maxLabel),
			Style:    discordgo.SecondaryButton,
			CustomID: id,
		})
		if len(row) == buttonsPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}
	return rows
}

func chunkRows(rows []discordgo.MessageComponent, size int) [][]discordgo.MessageComponent {
	var out [][]discordgo.MessageComponent
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
