package main

import (
	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keshon/dare/internal/config"
	"github.com/keshon/dare/internal/logging"
	"github.com/keshon/dare/internal/version"
)

// cliConfig is the subset of the bot settings the offline commands need.
// Unlike the bot it does not require a Discord token.
type cliConfig struct {
	StoragePath   string  `env:"STORAGE_PATH" envDefault:"datastore.json"`
	PadsDir       string  `env:"PADS_DIR" envDefault:"assets/audios"`
	YouTubeProxy  string  `env:"YOUTUBE_PROXY"`
	PlaylistLimit int     `env:"PLAYLIST_LIMIT" envDefault:"100"`
	ProviderRPS   float64 `env:"PROVIDER_RPS" envDefault:"5"`
	LogLevel      string  `env:"LOG_LEVEL" envDefault:"warn"`
}

type commandContext struct {
	cfg     cliConfig
	verbose bool
	log     zerolog.Logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "dare-cli",
		Short:         "Offline tools for the " + version.AppName + " bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.load()
		},
	}
	root.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		newPadsCommand(ctx),
		newResolveCommand(ctx),
		newHistoryCommand(ctx),
		newVersionCommand(),
	)
	return root
}

func (c *commandContext) load() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := env.ParseAs[cliConfig]()
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if c.verbose {
		level = "debug"
	}
	c.log, _ = logging.New(logging.Config{Level: level, Format: "console"})
	return nil
}
