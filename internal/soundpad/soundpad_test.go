package soundpad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/dare/internal/music/track"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		p := filepath.Join(root, filepath.FromSlash(n))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"memes/bruh.mp3",
		"memes/deep/airhorn.MP3",
		"frases/bom dia.mp3",
		"frases/readme.txt",
		"loose.mp3",
	)

	c, err := Load(root, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 4, c.Len())
	keys := []string{}
	for _, p := range c.All() {
		keys = append(keys, p.Key)
	}
	assert.Equal(t, []string{"frases/bom dia", "loose", "memes/bruh", "memes/deep/airhorn"}, keys)

	pad, ok := c.Get("memes/deep/airhorn")
	require.True(t, ok)
	assert.Equal(t, "airhorn", pad.Name)
	assert.Equal(t, "memes", pad.Category)
	assert.Equal(t, filepath.Join(c.Root(), "memes", "deep", "airhorn.MP3"), pad.Path)

	// empty files cannot be probed but stay playable
	assert.Zero(t, pad.Duration)

	loose, _ := c.Get("loose")
	assert.Equal(t, "", loose.Category)
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"), zerolog.Nop())
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "memes/bruh.mp3", "times/gol.mp3")
	c, err := Load(root, zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"memes/bruh", "memes/bruh", true},
		{"gol", "times/gol", true},
		{"times/gol.mp3", "times/gol", true},
		{"gol.mp3", "times/gol", true},
		{"  bruh  ", "memes/bruh", true},
		{"missing", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, ok := c.Find(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p.Key)
		})
	}
}

func TestCategories(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "memes/a.mp3", "memes/b.mp3", "audios/c.mp3", "top.mp3")
	c, err := Load(root, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, []string{"audios", "memes"}, c.Categories())
	assert.Len(t, c.InCategory("memes"), 2)
	assert.Empty(t, c.InCategory("nothing"))
}

func TestPadTrack(t *testing.T) {
	p := Pad{Key: "memes/bruh", Name: "bruh", Path: "/pads/memes/bruh.mp3"}
	tr := p.Track()
	assert.Equal(t, track.KindEffect, tr.Kind)
	assert.Equal(t, "bruh", tr.Title)
	assert.Equal(t, "/pads/memes/bruh.mp3", tr.Locator)
}

func TestLoadKeepsFirstDuplicate(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "memes/a.MP3", "memes/a.mp3")

	c, err := Load(root, zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	p, _ := c.Get("memes/a")
	assert.Equal(t, "a.MP3", filepath.Base(p.Path))
}
