// Package soundpad indexes the short audio clips members can fire into a voice
// channel. Pads live under a root directory; the first directory level is the
// pad's category.
package soundpad

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/keshon/dare/internal/music/track"
)

const probeWorkers = 4

type Pad struct {
	Key      string // relative path, forward slashes, no extension
	Name     string
	Category string
	Path     string

	SampleRate int
	Duration   time.Duration
}

// Track returns the pad as an effect ready for the session manager.
func (p Pad) Track() track.Track {
	return track.Track{Locator: p.Path, Title: p.Name, Kind: track.KindEffect}
}

type Catalog struct {
	root string
	pads map[string]Pad
	keys []string
}

// Load walks root for .mp3 files and builds the catalog. A key seen twice keeps
// the first file. A file that cannot be probed is still listed, with zero
// duration.
func Load(root string, log zerolog.Logger) (*Catalog, error) {
	log = log.With().Str("component", "soundpad").Logger()

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve pads dir: %w", err)
	}

	c := &Catalog{root: abs, pads: make(map[string]Pad)}
	var found []Pad

	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == abs {
				return err
			}
			log.Warn().Err(err).Str("path", p).Msg("skipping unreadable entry")
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".mp3") {
			return nil
		}

		key := padKey(abs, p)
		if _, dup := c.pads[key]; dup {
			log.Warn().Str("key", key).Str("path", p).Msg("duplicate pad key ignored")
			return nil
		}
		pad := Pad{Key: key, Name: path.Base(key), Category: category(key), Path: p}
		c.pads[key] = pad
		found = append(found, pad)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan pads dir: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(probeWorkers)
	for i := range found {
		g.Go(func() error {
			rate, dur, err := probe(found[i].Path)
			if err != nil {
				log.Warn().Err(err).Str("key", found[i].Key).Msg("could not probe pad")
				return nil
			}
			found[i].SampleRate, found[i].Duration = rate, dur
			return nil
		})
	}
	_ = g.Wait()

	for _, p := range found {
		c.pads[p.Key] = p
		c.keys = append(c.keys, p.Key)
	}
	sort.Strings(c.keys)

	log.Info().Int("pads", len(c.keys)).Str("root", abs).Msg("soundpad loaded")
	return c, nil
}

func padKey(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = filepath.Base(p)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, path.Ext(rel))
}

func category(key string) string {
	if i := strings.IndexByte(key, '/'); i > 0 {
		return key[:i]
	}
	return ""
}

func probe(p string) (int, time.Duration, error) {
	f, err := os.Open(p)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode mp3: %w", err)
	}
	rate := d.SampleRate()
	if rate <= 0 {
		return 0, 0, fmt.Errorf("invalid sample rate %d", rate)
	}
	// decoded stream is 16-bit stereo
	samples := d.Length() / 4
	if samples < 0 {
		return rate, 0, nil
	}
	return rate, time.Duration(samples) * time.Second / time.Duration(rate), nil
}

func (c *Catalog) Root() string { return c.root }

func (c *Catalog) Len() int { return len(c.keys) }

func (c *Catalog) Get(key string) (Pad, bool) {
	p, ok := c.pads[key]
	return p, ok
}

// Find looks a pad up by key, then by name, then by a trailing path fragment
// such as "memes/bruh.mp3".
func (c *Catalog) Find(input string) (Pad, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Pad{}, false
	}
	if p, ok := c.pads[input]; ok {
		return p, true
	}
	for _, k := range c.keys {
		if c.pads[k].Name == input {
			return c.pads[k], true
		}
	}
	suffix := "/" + strings.TrimPrefix(filepath.ToSlash(input), "/")
	for _, k := range c.keys {
		if strings.HasSuffix(filepath.ToSlash(c.pads[k].Path), suffix) {
			return c.pads[k], true
		}
	}
	return Pad{}, false
}

// All returns every pad ordered by key.
func (c *Catalog) All() []Pad {
	out := make([]Pad, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.pads[k])
	}
	return out
}

// Categories returns the distinct non-empty categories, sorted.
func (c *Catalog) Categories() []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range c.keys {
		cat := c.pads[k].Category
		if cat != "" && !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}

func (c *Catalog) InCategory(cat string) []Pad {
	var out []Pad
	for _, k := range c.keys {
		if c.pads[k].Category == cat {
			out = append(out, c.pads[k])
		}
	}
	return out
}
