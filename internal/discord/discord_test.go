package discord

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/dare/internal/config"
	"github.com/keshon/dare/internal/music/session"
)

func def(desc string, opts ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: "music", Description: desc, Options: opts}
}

func TestHashCommandIgnoresOptionOrder(t *testing.T) {
	a := &discordgo.ApplicationCommandOption{Name: "a", Type: discordgo.ApplicationCommandOptionSubCommand}
	b := &discordgo.ApplicationCommandOption{Name: "b", Type: discordgo.ApplicationCommandOptionSubCommand}

	assert.Equal(t, hashCommand(def("x", a, b)), hashCommand(def("x", b, a)))
	assert.NotEqual(t, hashCommand(def("x", a, b)), hashCommand(def("y", a, b)))

	withID := def("x", a, b)
	withID.ID = "123"
	withID.Version = "9"
	assert.Equal(t, hashCommand(def("x", a, b)), hashCommand(withID))
}

func TestHashCommandSeesLimits(t *testing.T) {
	zero := 0.0
	vol := func(max float64) *discordgo.ApplicationCommandOption {
		return &discordgo.ApplicationCommandOption{Name: "volume", Type: discordgo.ApplicationCommandOptionInteger, MinValue: &zero, MaxValue: max}
	}
	assert.NotEqual(t, hashCommand(def("x", vol(100))), hashCommand(def("x", vol(200))))
}

func TestCommandCacheRoundTrip(t *testing.T) {
	c := commandCache{dir: filepath.Join(t.TempDir(), "commands")}
	assert.Empty(t, c.load("g1"))

	require.NoError(t, c.save("g1", map[string]string{"music": "abc"}))
	require.NoError(t, c.save("", map[string]string{"ping": "def"}))

	assert.Equal(t, map[string]string{"music": "abc"}, c.load("g1"))
	assert.Equal(t, map[string]string{"ping": "def"}, c.load(""))
	assert.FileExists(t, filepath.Join(c.dir, "global.json"))
}

func TestNewRegistersCommands(t *testing.T) {
	b := New(&discordgo.Session{}, Deps{
		Config:   &config.Config{TTSDefaultLocale: "pt-BR", StoragePath: "datastore.json"},
		Sessions: session.New(session.Deps{Log: zerolog.Nop()}),
		Log:      zerolog.Nop(),
	})

	var names []string
	for _, d := range buildCommandDefinitions(b.Registry()) {
		names = append(names, d.Name)
		assert.Equal(t, discordgo.ChatApplicationCommand, d.Type)
	}
	// soundpad needs a catalog
	assert.Equal(t, []string{"getresources", "help", "music", "ping", "tts", "tts-language"}, names)
}

func TestPresence(t *testing.T) {
	status, err := presence("Dare Bot 2026", "LISTENING", "")
	require.NoError(t, err)
	assert.Equal(t, "online", status.Status)
	require.Len(t, status.Activities, 1)
	assert.Equal(t, discordgo.ActivityTypeListening, status.Activities[0].Type)
	assert.Equal(t, "Dare Bot 2026", status.Activities[0].Name)
	assert.Empty(t, status.Activities[0].URL)

	status, err = presence("live", "STREAMING", "https://twitch.tv/dare")
	require.NoError(t, err)
	assert.Equal(t, "https://twitch.tv/dare", status.Activities[0].URL)

	status, err = presence("", "PLAYING", "")
	require.NoError(t, err)
	assert.Empty(t, status.Activities)

	_, err = presence("x", "DANCING", "")
	assert.Error(t, err)
}
