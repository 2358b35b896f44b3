package discord

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// commandCache stores the last registered definition hashes per guild.
type commandCache struct {
	dir string
}

func (c *commandCache) path(guildID string) string {
	return filepath.Join(c.dir, guildID+".json")
}

// load returns an empty map when the guild has no cache yet.
func (c *commandCache) load(guildID string) map[string]string {
	hashes := make(map[string]string)
	data, err := os.ReadFile(c.path(guildID))
	if err == nil {
		_ = json.Unmarshal(data, &hashes)
	}
	return hashes
}

func (c *commandCache) save(guildID string, hashes map[string]string) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(guildID), data, 0o644)
}
