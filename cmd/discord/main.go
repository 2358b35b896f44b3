// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/clan-taunt/internal/command"
	"github.com/keshon/clan-taunt/internal/command/core"
	tauntcmd "github.com/keshon/clan-taunt/internal/command/taunt"
	"github.com/keshon/clan-taunt/internal/config"
	"github.com/keshon/clan-taunt/internal/discord"
	"github.com/keshon/clan-taunt/internal/logging"
	"github.com/keshon/clan-taunt/internal/metrics"
	"github.com/keshon/clan-taunt/internal/middleware"
	"github.com/keshon/clan-taunt/internal/quota"
	"github.com/keshon/clan-taunt/internal/storage"
	"github.com/keshon/clan-taunt/internal/taunt"
	"github.com/keshon/clan-taunt/pkg/jobmgr"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	log.Logger = logging.New(config.AppName, cfg.Env)
	log.Info().Str("env", cfg.Env).Msgf("Starting %s bot...", config.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.StoragePath).Msg("Failed to open storage")
	}
	defer store.Close()

	quotaStore, closeQuota, err := newQuotaStore(ctx, cfg, store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up quota store")
	}
	defer closeQuota()

	jobs := jobmgr.NewManager(ctx, func(e jobmgr.Event) {
		evt := log.Debug()
		if e.Err != nil {
			evt = log.Error().Err(e.Err)
		}
		evt.Str("job", e.Job).Str("state", e.State).Msg("Background job")
	})
	defer jobs.Wait()

	_ = jobs.Start("quota-cleaner", func(ctx context.Context) error {
		storage.RunQuotaCleaner(ctx, store)
		return nil
	})

	menus := taunt.NewRegistry()
	m := metrics.New()
	m.TrackActiveMenus(menus.Len)
	if cfg.MetricsAddr != "" {
		_ = jobs.Start("metrics-server", func(ctx context.Context) error {
			return m.Serve(ctx, cfg.MetricsAddr)
		})
	}

	checker := quota.NewChecker(quotaStore, cfg.Taunt.DailyLimit, cfg.Taunt.BypassRoles)
	mws := []command.Middleware{
		middleware.WithGuildOnly(),
		middleware.WithUserPermissionCheck(cfg.DeveloperID),
		middleware.WithCommandLogger(),
	}
	tauntcmd.Register(tauntcmd.NewService(menus, checker, m, cfg.Taunt.Clans), mws...)
	core.Register(command.DefaultRegistry, mws...)

	bot := discord.NewBot(cfg, store, command.DefaultRegistry)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("Received signal, shutting down...")
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Discord bot error")
		}
		cancel()
	}

	log.Info().Msg("Discord bot exited cleanly")
}

// newQuotaStore picks the counter backend for daily answer limits.
func newQuotaStore(ctx context.Context, cfg *config.Config, store *storage.Storage) (quota.Store, func(), error) {
	if cfg.Taunt.QuotaBackend != "redis" {
		return store, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Using Redis for taunt quotas")
	return quota.NewRedisStore(client), func() { _ = client.Close() }, nil
}
