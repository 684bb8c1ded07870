// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ActivityTypes are the presence kinds DEFAULT_ACTIVITY_TYPE accepts.
var ActivityTypes = []string{"PLAYING", "STREAMING", "LISTENING", "WATCHING", "COMPETING"}

type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN,required"`
	DevGuildID        string `env:"DEV_GUILD_ID"`
	DevID             string `env:"DEV_ID"`
	InitSlashCommands bool   `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	StoragePath       string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	PadsDir      string `env:"PADS_DIR" envDefault:"assets/audios"`
	FFMPEGPath   string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	YTDLPPath    string `env:"YTDLP_PATH" envDefault:"yt-dlp"`
	YouTubeProxy string `env:"YOUTUBE_PROXY"`

	PlaylistLimit    int           `env:"PLAYLIST_LIMIT" envDefault:"100"`
	ResolveCacheSize int           `env:"RESOLVE_CACHE_SIZE" envDefault:"256"`
	ResolveCacheTTL  time.Duration `env:"RESOLVE_CACHE_TTL" envDefault:"30m"`
	ProviderRPS      float64       `env:"PROVIDER_RPS" envDefault:"5"`

	TTSDefaultLocale string `env:"TTS_DEFAULT_LOCALE" envDefault:"pt-BR"`

	ActivityText string `env:"DEFAULT_ACTIVITY_TEXT" envDefault:"Dare Bot 2026"`
	ActivityType string `env:"DEFAULT_ACTIVITY_TYPE" envDefault:"PLAYING"`
	ActivityURL  string `env:"DEFAULT_ACTIVITY_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	LogFile   string `env:"LOG_FILE"`
}

// LoadDotEnv reads .env files into the process environment. Missing files are
// not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// New parses the environment into a Config. Call LoadDotEnv first if .env
// files should be honoured.
func New() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load is LoadDotEnv followed by New.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return New()
}

func (c *Config) validate() error {
	if c.PlaylistLimit <= 0 {
		return fmt.Errorf("PLAYLIST_LIMIT must be positive, got %d", c.PlaylistLimit)
	}
	if c.ResolveCacheSize <= 0 {
		return fmt.Errorf("RESOLVE_CACHE_SIZE must be positive, got %d", c.ResolveCacheSize)
	}
	if c.ProviderRPS <= 0 {
		return fmt.Errorf("PROVIDER_RPS must be positive, got %v", c.ProviderRPS)
	}
	c.ActivityType = strings.ToUpper(strings.TrimSpace(c.ActivityType))
	if !slices.Contains(ActivityTypes, c.ActivityType) {
		return fmt.Errorf("DEFAULT_ACTIVITY_TYPE must be one of %s, got %q", strings.Join(ActivityTypes, ", "), c.ActivityType)
	}
	return nil
}
