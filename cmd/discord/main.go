// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/keshon/dare/internal/config"
	"github.com/keshon/dare/internal/discord"
	"github.com/keshon/dare/internal/logging"
	"github.com/keshon/dare/internal/music/codec"
	"github.com/keshon/dare/internal/music/parsers/ffmpeg"
	"github.com/keshon/dare/internal/music/parsers/kkdai"
	"github.com/keshon/dare/internal/music/parsers/ytdlp"
	"github.com/keshon/dare/internal/music/player"
	"github.com/keshon/dare/internal/music/session"
	"github.com/keshon/dare/internal/music/source_resolver"
	"github.com/keshon/dare/internal/music/sources/radio"
	"github.com/keshon/dare/internal/music/sources/youtube"
	"github.com/keshon/dare/internal/music/stream"
	"github.com/keshon/dare/internal/music/voice"
	"github.com/keshon/dare/internal/soundpad"
	"github.com/keshon/dare/internal/storage"
	"github.com/keshon/dare/internal/tts"
	"github.com/keshon/dare/internal/version"
	"github.com/keshon/dare/pkg/retrylimit"
)

func main() {
	if err := run(); err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("bot stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, logCloser := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer logCloser.Close()

	info := version.Get()
	log.Info().Str("version", info.Short()).Msgf("starting %s bot", version.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg.StoragePath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to save storage")
		}
	}()

	catalog, err := soundpad.Load(cfg.PadsDir, log)
	if err != nil {
		log.Warn().Err(err).Str("dir", cfg.PadsDir).Msg("soundpad disabled")
		catalog = nil
	}

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return err
	}

	limiter := retrylimit.NewAdaptiveLimiter(rate.Limit(cfg.ProviderRPS), 1, 20, 1, 0.5)
	ytClient := kkdai.NewClient(cfg.YouTubeProxy, log)

	ff := ffmpeg.New(cfg.FFMPEGPath)
	opener := stream.NewOpener(ff, kkdai.New(ytClient, ff), ytdlp.New(cfg.YTDLPPath, ff), log)

	resolver := source_resolver.New(
		youtube.New(ytClient, limiter, log),
		radio.NewRadioResolver(),
		source_resolver.Options{
			PlaylistLimit: cfg.PlaylistLimit,
			CacheSize:     cfg.ResolveCacheSize,
			CacheTTL:      cfg.ResolveCacheTTL,
		},
		log,
	)

	voiceOpener := voice.NewDiscordOpener(dg, log)
	sessions := session.New(session.Deps{
		Voice: voiceOpener,
		Players: func(conn voice.Connection) (player.Player, error) {
			return player.New(conn, func() (player.Encoder, error) { return codec.NewOpus() }, log), nil
		},
		Streams:        opener,
		Resolver:       resolver,
		Speech:         tts.NewGoogle(limiter),
		Occupancy:      voice.StateOccupancy{Session: dg},
		History:        store,
		SpeechFallback: tts.LanguageFromLocale(cfg.TTSDefaultLocale, "pt"),
		Log:            log,
	})

	bot := discord.New(dg, discord.Deps{
		Config:   cfg,
		Storage:  store,
		Sessions: sessions,
		Voice:    voiceOpener,
		Catalog:  catalog,
		Log:      log,
	})

	return bot.Run(ctx)
}
