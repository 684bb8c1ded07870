package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/core"
	"github.com/keshon/dare/internal/music/voice"
	speech "github.com/keshon/dare/internal/tts"
)

// maxMessage keeps a single request to a handful of synthesis chunks.
const maxMessage = 600

type Speaker interface {
	Speak(ctx context.Context, target voice.Target, text, locale string) error
}

type TTSCommand struct {
	Speaker       Speaker
	DefaultLocale string
}

func (c *TTSCommand) Name() string        { return "tts" }
func (c *TTSCommand) Description() string { return "Speak a message in your voice channel" }
func (c *TTSCommand) Group() string       { return "tts" }
func (c *TTSCommand) Category() string    { return "🗣️ Speech" }

func (c *TTSCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "What to say",
				Required:    true,
				MaxLength:   maxMessage,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "language",
				Description: "Voice language, defaults to the server setting",
				Choices:     languageChoices(),
			},
		},
	}
}

func (c *TTSCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := context.Session, context.Event

	var message, language string
	for _, o := range e.ApplicationCommandData().Options {
		switch o.Name {
		case "message":
			message = strings.TrimSpace(o.StringValue())
		case "language":
			language = o.StringValue()
		}
	}
	if message == "" {
		return core.RespondEphemeral(s, e, "Say something first.")
	}

	var stored string
	if context.Storage != nil {
		var err error
		if stored, err = context.Storage.GetTTSLocale(e.GuildID); err != nil {
			context.Log.Warn().Err(err).Str("guild_id", e.GuildID).Msg("failed to read guild speech locale")
		}
	}
	locale := pickLocale(language, stored, c.DefaultLocale)

	// synthesis is a network round trip
	if err := core.RespondDeferred(s, e, true); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	if err := c.Speaker.Speak(context.Ctx, core.VoiceTarget(s, e), message, locale); err != nil {
		context.Log.Warn().Err(err).Str("guild_id", e.GuildID).Str("locale", locale).Msg("speech failed")
		return core.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
			Title:       "🗣️ Error",
			Description: core.DescribeError(err),
			Color:       core.EmbedColor,
		})
	}
	return core.FollowupEmbedEphemeral(s, e, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("🗣️ Speaking (%s)", locale),
		Color:       core.EmbedColor,
	})
}

// TTSLanguageCommand stores the guild's default speech locale.
type TTSLanguageCommand struct{}

func (c *TTSLanguageCommand) Name() string        { return "tts-language" }
func (c *TTSLanguageCommand) Description() string { return "Set the default speech language" }
func (c *TTSLanguageCommand) Group() string       { return "tts" }
func (c *TTSLanguageCommand) Category() string    { return "⚙️ Settings" }

func (c *TTSLanguageCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "language",
				Description: "Voice language",
				Required:    true,
				Choices:     languageChoices(),
			},
		},
	}
}

func (c *TTSLanguageCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}
	s, e := context.Session, context.Event

	opts := e.ApplicationCommandData().Options
	if len(opts) == 0 {
		return core.RespondEphemeral(s, e, "Pick a language.")
	}
	v, ok := speech.FindVoice(opts[0].StringValue())
	if !ok {
		return core.RespondEphemeral(s, e, "Unsupported language.")
	}

	if err := context.Storage.SetTTSLocale(e.GuildID, v.Locale); err != nil {
		return fmt.Errorf("store speech locale: %w", err)
	}
	return core.Respond(s, e, fmt.Sprintf("🗣️ Default speech language set to %s.", v.Label))
}

func languageChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(speech.Voices))
	for _, v := range speech.Voices {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: v.Label, Value: v.Locale})
	}
	return choices
}

// pickLocale prefers the option, then the guild setting, then the default.
func pickLocale(option, stored, fallback string) string {
	for _, l := range []string{option, stored, fallback} {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return "pt-BR"
}
