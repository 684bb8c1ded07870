// Package discord runs the bot on a discordgo session: it registers slash
// commands, dispatches interactions and feeds voice state updates to the
// voice layer.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	commandscore "github.com/keshon/dare/internal/commands/core"
	"github.com/keshon/dare/internal/commands/music"
	soundpadcmd "github.com/keshon/dare/internal/commands/soundpad"
	ttscmd "github.com/keshon/dare/internal/commands/tts"
	"github.com/keshon/dare/internal/config"
	"github.com/keshon/dare/internal/core"
	"github.com/keshon/dare/internal/music/session"
	"github.com/keshon/dare/internal/music/voice"
	"github.com/keshon/dare/internal/soundpad"
	"github.com/keshon/dare/internal/storage"
)

type Deps struct {
	Config   *config.Config
	Storage  *storage.Storage
	Sessions *session.Manager
	Voice    *voice.DiscordOpener
	Catalog  *soundpad.Catalog
	Log      zerolog.Logger
}

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	registry *core.Registry
	sessions *session.Manager
	voice    *voice.DiscordOpener
	log      zerolog.Logger

	// ctx lives as long as Run; playback started by commands hangs off it.
	ctx context.Context
}

func New(dg *discordgo.Session, deps Deps) *Bot {
	b := &Bot{
		dg:       dg,
		cfg:      deps.Config,
		storage:  deps.Storage,
		registry: core.NewRegistry(),
		sessions: deps.Sessions,
		voice:    deps.Voice,
		log:      deps.Log.With().Str("component", "discord").Logger(),
		ctx:      context.Background(),
	}
	b.registerCommands(deps)
	return b
}

func (b *Bot) Registry() *core.Registry { return b.registry }

func (b *Bot) registerCommands(deps Deps) {
	mws := []core.Middleware{core.WithGuildOnly(), core.WithCommandLogger()}

	b.registry.Register(core.ApplyMiddlewares(&music.MusicCommand{Sessions: deps.Sessions}, mws...))
	b.registry.Register(core.ApplyMiddlewares(&ttscmd.TTSCommand{
		Speaker:       deps.Sessions,
		DefaultLocale: deps.Config.TTSDefaultLocale,
	}, mws...))
	b.registry.Register(core.ApplyMiddlewares(&ttscmd.TTSLanguageCommand{}, mws...))
	if deps.Catalog != nil {
		b.registry.Register(core.ApplyMiddlewares(&soundpadcmd.SoundpadCommand{
			Effects: deps.Sessions,
			Catalog: deps.Catalog,
		}, mws...))
	}
	b.registry.Register(&commandscore.PingCommand{Sessions: deps.Sessions})
	b.registry.Register(&commandscore.HelpCommand{Registry: b.registry})
	b.registry.Register(core.ApplyMiddlewares(&commandscore.ResourcesCommand{DevID: deps.Config.DevID}, mws...))
}

// Run opens the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx

	b.dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onInteractionCreate)
	if b.voice != nil {
		b.dg.AddHandler(b.voice.HandleVoiceStateUpdate)
	}

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received")

	// voice connections are closed while the gateway is still up
	if b.sessions != nil {
		b.sessions.Shutdown()
	}
	return b.dg.Close()
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("discord bot is running")
	b.setPresence(s)

	if !b.cfg.InitSlashCommands {
		b.log.Info().Msg("registering slash commands skipped")
		return
	}
	if err := b.syncCommands(r.User.ID, b.cfg.DevGuildID); err != nil {
		b.log.Error().Err(err).Msg("failed to register slash commands")
	}
}
