// /internal/config/config.go
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DiscordToken          string        `env:"DISCORD_TOKEN,notEmpty"`
	StoragePath           string        `env:"STORAGE_PATH" envDefault:"datastore.json"`
	CommandCacheDir       string        `env:"COMMAND_CACHE_DIR" envDefault:"data/commands"`
	DiscordGuildBlacklist []string      `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	InitSlashCommands     bool          `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	DeveloperID           string        `env:"DEVELOPER_ID"`
	Env                   string        `env:"APP_ENV" envDefault:"development"`
	InteractionTimeout    time.Duration `env:"INTERACTION_TIMEOUT" envDefault:"10s"`
	MetricsAddr           string        `env:"METRICS_ADDR"`

	Taunt Taunt
	Redis Redis
}

// Taunt holds the clan taunt rules.
type Taunt struct {
	Clans       []string `env:"CLANS" envSeparator:"," envDefault:"Red,Blue"`
	DailyLimit  int      `env:"TAUNT_DAILY_LIMIT" envDefault:"3"`
	BypassRoles []string `env:"QUOTA_BYPASS_ROLES" envSeparator:"," envDefault:"Eagle Eyes"`
	// QuotaBackend is "datastore" or "redis".
	QuotaBackend string `env:"QUOTA_BACKEND" envDefault:"datastore"`
}

type Redis struct {
	Addr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	DB   int    `env:"REDIS_DB" envDefault:"0"`
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, falling back to system environment variables")
	}
	return Parse()
}

// Parse reads configuration from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch cfg.Taunt.QuotaBackend {
	case "datastore", "redis":
	default:
		return nil, fmt.Errorf("parse config: unknown QUOTA_BACKEND %q", cfg.Taunt.QuotaBackend)
	}
	return cfg, nil
}

// IsDeveloper reports whether userID is the configured developer.
func IsDeveloper(cfg *Config, userID string) bool {
	return cfg != nil && cfg.DeveloperID != "" && cfg.DeveloperID == userID
}

func (c *Config) IsGuildBlacklisted(guildID string) bool {
	return slices.Contains(c.DiscordGuildBlacklist, guildID)
}
