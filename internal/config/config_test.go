package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "token", cfg.DiscordToken)
	assert.True(t, cfg.InitSlashCommands)
	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.Equal(t, "assets/audios", cfg.PadsDir)
	assert.Equal(t, "ffmpeg", cfg.FFMPEGPath)
	assert.Equal(t, 100, cfg.PlaylistLimit)
	assert.Equal(t, 256, cfg.ResolveCacheSize)
	assert.Equal(t, 30*time.Minute, cfg.ResolveCacheTTL)
	assert.Equal(t, 5.0, cfg.ProviderRPS)
	assert.Equal(t, "pt-BR", cfg.TTSDefaultLocale)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Dare Bot 2026", cfg.ActivityText)
	assert.Equal(t, "PLAYING", cfg.ActivityType)
	assert.Empty(t, cfg.DevID)
}

func TestActivityType(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DEFAULT_ACTIVITY_TYPE", " listening ")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "LISTENING", cfg.ActivityType)

	t.Setenv("DEFAULT_ACTIVITY_TYPE", "DANCING")
	_, err = New()
	assert.ErrorContains(t, err, "DEFAULT_ACTIVITY_TYPE")
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("INIT_SLASH_COMMANDS", "false")
	t.Setenv("PLAYLIST_LIMIT", "25")
	t.Setenv("RESOLVE_CACHE_TTL", "90s")
	t.Setenv("YOUTUBE_PROXY", "socks5://127.0.0.1:1080")

	cfg, err := New()
	require.NoError(t, err)
	assert.False(t, cfg.InitSlashCommands)
	assert.Equal(t, 25, cfg.PlaylistLimit)
	assert.Equal(t, 90*time.Second, cfg.ResolveCacheTTL)
	assert.Equal(t, "socks5://127.0.0.1:1080", cfg.YouTubeProxy)
}

func TestNewRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	os.Unsetenv("DISCORD_TOKEN")

	_, err := New()
	assert.ErrorContains(t, err, "DISCORD_TOKEN")
}

func TestNewRejectsBadLimits(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("PLAYLIST_LIMIT", "0")

	_, err := New()
	assert.ErrorContains(t, err, "PLAYLIST_LIMIT")
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PADS_DIR=/srv/pads\n"), 0o600))
	t.Setenv("PADS_DIR", "")
	os.Unsetenv("PADS_DIR")

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { os.Unsetenv("PADS_DIR") })
	assert.Equal(t, "/srv/pads", os.Getenv("PADS_DIR"))

	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
