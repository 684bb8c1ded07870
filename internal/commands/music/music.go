package music

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/dare/internal/core"
	"github.com/keshon/dare/internal/music/session"
	"github.com/keshon/dare/internal/music/track"
	"github.com/keshon/dare/internal/music/voice"
)

// Sessions is the slice of the session manager the music command drives.
type Sessions interface {
	Play(ctx context.Context, target voice.Target, query string) ([]track.Track, error)
	PlayFile(ctx context.Context, target voice.Target, source string) (track.Track, error)
	Stop(guildID string) bool
	Skip(guildID string) bool
	Pause(guildID string) bool
	Resume(guildID string) bool
	SetVolumePercent(guildID string, percent float64) float64
	GetVolume(guildID string) float64
	QueueSnapshot(guildID string) session.Snapshot
}

type MusicCommand struct {
	Sessions Sessions
}

func (c *MusicCommand) Name() string        { return "music" }
func (c *MusicCommand) Description() string { return "Control music playback" }
func (c *MusicCommand) Group() string       { return "music" }
func (c *MusicCommand) Category() string    { return "🎵 Music" }

func (c *MusicCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minVolume := 0.0
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "play",
				Description: "Play a YouTube video, playlist, media link or search query",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "query",
						Description: "Link or search query",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "playfile",
				Description: "Play a direct http(s) media link without looking it up",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "source",
						Description: "Media URL",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "next",
				Description: "Skip to the next track",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "stop",
				Description: "Stop playback, clear the queue and leave the channel",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "queue",
				Description: "Show the current track and the queue",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "volume",
				Description: "Set the playback volume",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "volume",
						Description: "Volume from 0 to 100",
						Required:    true,
						MinValue:    &minVolume,
						MaxValue:    100,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "pause",
				Description: "Pause the current track",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "resume",
				Description: "Resume the paused track",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "history",
				Description: "Recently played tracks",
			},
		},
	}
}

func (c *MusicCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*core.SlashInteractionContext)
	if !ok {
		return nil
	}

	s := context.Session
	e := context.Event

	data := e.ApplicationCommandData()
	if len(data.Options) == 0 {
		return core.RespondEphemeral(s, e, "Missing subcommand.")
	}
	sub := data.Options[0]

	switch sub.Name {
	case "play":
		return c.runPlay(context, optionString(sub, "query"))
	case "playfile":
		return c.runPlayFile(context, optionString(sub, "source"))
	case "next":
		return c.runNext(context)
	case "stop":
		return c.runStop(context)
	case "queue":
		return core.RespondEmbedEphemeral(s, e, queueEmbed(c.Sessions.QueueSnapshot(e.GuildID), c.Sessions.GetVolume(e.GuildID)))
	case "volume":
		return c.runVolume(context, optionInt(sub, "volume"))
	case "pause":
		if !c.Sessions.Pause(e.GuildID) {
			return core.RespondEphemeral(s, e, "Nothing is playing.")
		}
		return core.Respond(s, e, "⏸ Paused.")
	case "resume":
		if !c.Sessions.Resume(e.GuildID) {
			return core.RespondEphemeral(s, e, "Nothing is paused.")
		}
		return core.Respond(s, e, "▶️ Resumed.")
	case "history":
		return c.runHistory(context)
	default:
		return core.RespondEphemeral(s, e, fmt.Sprintf("Unknown subcommand: %s", sub.Name))
	}
}

func (c *MusicCommand) runPlay(ctx *core.SlashInteractionContext, query string) error {
	s, e := ctx.Session, ctx.Event
	if query == "" {
		return core.RespondEphemeral(s, e, "A query is required.")
	}

	// resolution can outlive the interaction's three second window
	if err := core.RespondDeferred(s, e, false); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	before := c.Sessions.QueueSnapshot(e.GuildID)
	tracks, err := c.Sessions.Play(ctx.Ctx, core.VoiceTarget(s, e), query)
	if err != nil {
		ctx.Log.Debug().Err(err).Str("guild_id", e.GuildID).Str("query", query).Msg("play failed")
		return core.FollowupEmbedEphemeral(s, e, errorEmbed(err))
	}

	return followup(s, e, &discordgo.MessageEmbed{
		Title:       addedTitle(before.Current == nil, len(tracks)),
		Description: describeTracks(tracks),
		Color:       core.EmbedColor,
	})
}

func (c *MusicCommand) runPlayFile(ctx *core.SlashInteractionContext, source string) error {
	s, e := ctx.Session, ctx.Event
	if source == "" {
		return core.RespondEphemeral(s, e, "A source is required.")
	}
	if !isWebMedia(source) {
		return core.RespondEphemeral(s, e, "Only http and https links can be played.")
	}
	if err := core.RespondDeferred(s, e, false); err != nil {
		return fmt.Errorf("failed to defer response: %w", err)
	}

	before := c.Sessions.QueueSnapshot(e.GuildID)
	t, err := c.Sessions.PlayFile(ctx.Ctx, core.VoiceTarget(s, e), source)
	if err != nil {
		return core.FollowupEmbedEphemeral(s, e, errorEmbed(err))
	}
	return followup(s, e, &discordgo.MessageEmbed{
		Title:       addedTitle(before.Current == nil, 1),
		Description: describeTracks([]track.Track{t}),
		Color:       core.EmbedColor,
	})
}

func (c *MusicCommand) runNext(ctx *core.SlashInteractionContext) error {
	s, e := ctx.Session, ctx.Event
	snap := c.Sessions.QueueSnapshot(e.GuildID)
	if !c.Sessions.Skip(e.GuildID) {
		return core.RespondEphemeral(s, e, "Nothing is playing.")
	}
	if len(snap.Pending) == 0 {
		return core.Respond(s, e, "⏭ Skipped. The queue is now empty.")
	}
	return core.Respond(s, e, "⏭ Skipped. Up next: "+trackLine(snap.Pending[0]))
}

func (c *MusicCommand) runStop(ctx *core.SlashInteractionContext) error {
	s, e := ctx.Session, ctx.Event
	if !c.Sessions.Stop(e.GuildID) {
		return core.RespondEphemeral(s, e, "Nothing to stop.")
	}
	return core.Respond(s, e, "⏹ Stopped and cleared the queue.")
}

func (c *MusicCommand) runVolume(ctx *core.SlashInteractionContext, percent int64) error {
	v := c.Sessions.SetVolumePercent(ctx.Event.GuildID, float64(percent))
	return core.Respond(ctx.Session, ctx.Event, fmt.Sprintf("🔊 Volume set to %d%%.", volumePercent(v)))
}

func (c *MusicCommand) runHistory(ctx *core.SlashInteractionContext) error {
	s, e := ctx.Session, ctx.Event
	records, err := ctx.Storage.FetchTracksHistory(e.GuildID)
	if err != nil {
		return fmt.Errorf("fetch track history: %w", err)
	}
	return core.RespondEmbedEphemeral(s, e, &discordgo.MessageEmbed{
		Title:       "🎵 Recently played",
		Description: historyDescription(records),
		Color:       core.EmbedColor,
	})
}

func followup(s *discordgo.Session, e *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) error {
	_, err := s.FollowupMessageCreate(e.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	return err
}

func errorEmbed(err error) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎵 Error",
		Description: core.DescribeError(err),
		Color:       core.EmbedColor,
	}
}

func optionString(sub *discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, o := range sub.Options {
		if o.Name == name {
			return o.StringValue()
		}
	}
	return ""
}

func optionInt(sub *discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	for _, o := range sub.Options {
		if o.Name == name {
			return o.IntValue()
		}
	}
	return 0
}
