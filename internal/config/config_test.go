package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "datastore.json", cfg.StoragePath)
	assert.Equal(t, 10*time.Second, cfg.InteractionTimeout)
	assert.Equal(t, []string{"Red", "Blue"}, cfg.Taunt.Clans)
	assert.Equal(t, 3, cfg.Taunt.DailyLimit)
	assert.Equal(t, []string{"Eagle Eyes"}, cfg.Taunt.BypassRoles)
	assert.Equal(t, "datastore", cfg.Taunt.QuotaBackend)
	assert.True(t, cfg.InitSlashCommands)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("CLANS", "Wolves,Ravens,Bears")
	t.Setenv("TAUNT_DAILY_LIMIT", "5")
	t.Setenv("QUOTA_BACKEND", "redis")
	t.Setenv("DISCORD_GUILD_BLACKLIST", "1,2")
	t.Setenv("DEVELOPER_ID", "42")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, []string{"Wolves", "Ravens", "Bears"}, cfg.Taunt.Clans)
	assert.Equal(t, 5, cfg.Taunt.DailyLimit)
	assert.Equal(t, "redis", cfg.Taunt.QuotaBackend)
	assert.True(t, cfg.IsGuildBlacklisted("2"))
	assert.False(t, cfg.IsGuildBlacklisted("3"))
	assert.True(t, IsDeveloper(cfg, "42"))
	assert.False(t, IsDeveloper(cfg, "43"))
}

func TestParseErrors(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "")
		_, err := Parse()
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("DISCORD_TOKEN", "token")
		t.Setenv("QUOTA_BACKEND", "postgres")
		_, err := Parse()
		assert.ErrorContains(t, err, "QUOTA_BACKEND")
	})
}
