// Package discord runs the gateway session: it registers slash commands per
// guild and dispatches interactions to the command registry.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/clan-taunt/internal/command"
	"github.com/keshon/clan-taunt/internal/config"
	"github.com/keshon/clan-taunt/internal/storage"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Bot is a Discord bot
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	storage  *storage.Storage
	registry *command.Registry
	cache    *commandCache
	// limiter paces command create calls across guilds.
	limiter *rate.Limiter
	ctx     context.Context
}

func NewBot(cfg *config.Config, store *storage.Storage, registry *command.Registry) *Bot {
	return &Bot{
		cfg:      cfg,
		storage:  store,
		registry: registry,
		cache:    &commandCache{dir: cfg.CommandCacheDir},
		limiter:  rate.NewLimiter(rate.Every(time.Second/40), 1),
		ctx:      context.Background(),
	}
}

// Run opens the gateway session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	b.dg = dg
	b.ctx = ctx

	dg.Identify.Intents = discordgo.IntentsGuilds
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, closing Discord session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("Discord bot is running")
}

// onGuildCreate fires for every guild on connect and when the bot joins one.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	logger := log.With().Str("guild_id", g.ID).Str("guild", g.Name).Logger()

	if b.cfg.IsGuildBlacklisted(g.ID) {
		logger.Info().Msg("Leaving blacklisted guild")
		if err := s.GuildLeave(g.ID); err != nil {
			logger.Error().Err(err).Msg("Failed to leave guild")
		}
		return
	}

	if !b.cfg.InitSlashCommands {
		logger.Debug().Msg("Registering slash commands skipped")
		return
	}
	if err := b.registerCommands(b.ctx, g.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to register commands")
	}
}
