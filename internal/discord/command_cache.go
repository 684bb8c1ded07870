package discord

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// commandCache remembers the hash of every command definition last pushed to
// Discord, per guild, so unchanged commands are not re-created on startup.
type commandCache struct {
	dir string
}

func (b *Bot) commandCache() commandCache {
	return commandCache{dir: filepath.Join(filepath.Dir(b.cfg.StoragePath), "commands")}
}

func (c commandCache) path(guildID string) string {
	if guildID == "" {
		guildID = "global"
	}
	return filepath.Join(c.dir, guildID+".json")
}

func (c commandCache) load(guildID string) map[string]string {
	data := make(map[string]string)
	file, err := os.ReadFile(c.path(guildID))
	if err == nil {
		_ = json.Unmarshal(file, &data)
	}
	return data
}

func (c commandCache) save(guildID string, hashes map[string]string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(guildID), data, 0o644)
}
