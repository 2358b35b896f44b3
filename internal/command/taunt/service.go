// Package taunt wires the clan taunt widget into Discord commands.
package taunt

import (
	"context"
	"math/rand"
	"time"

	"github.com/keshon/clan-taunt/internal/clan"
	"github.com/keshon/clan-taunt/internal/command"
	"github.com/keshon/clan-taunt/internal/metrics"
	"github.com/keshon/clan-taunt/internal/quota"
	"github.com/keshon/clan-taunt/internal/storage"
	"github.com/keshon/clan-taunt/internal/taunt"
	"github.com/keshon/clan-taunt/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
)

const category = "⚔️ Clans"

// Service is shared by the taunt commands.
type Service struct {
	Menus        *taunt.Registry
	Quota        *quota.Checker
	Metrics      *metrics.Metrics
	DefaultClans []string
	// Limiter paces message edits.
	Limiter *retrylimit.AdaptiveLimiter
}

func NewService(menus *taunt.Registry, checker *quota.Checker, m *metrics.Metrics, defaultClans []string) *Service {
	return &Service{
		Menus:        menus,
		Quota:        checker,
		Metrics:      m,
		DefaultClans: defaultClans,
		Limiter:      retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
	}
}

// Register adds the taunt commands to the default registry.
func Register(svc *Service, mws ...command.Middleware) {
	command.RegisterCommand(&TauntCommand{svc: svc}, mws...)
	command.RegisterCommand(&TauntStatsCommand{svc: svc}, mws...)
	command.RegisterCommand(&ManageClansCommand{svc: svc}, mws...)
}

// clans returns the guild's clan list, falling back to the defaults when the
// guild never set one.
func (svc *Service) clans(store *storage.Storage, guildID string) ([]string, error) {
	clans, set, err := store.GetClans(guildID)
	if err != nil {
		return nil, err
	}
	if !set {
		return append([]string(nil), svc.DefaultClans...), nil
	}
	return clans, nil
}

func (svc *Service) directory(s *discordgo.Session, store *storage.Storage, guildID string) (*clan.Directory, []*discordgo.Role, error) {
	clans, err := svc.clans(store, guildID)
	if err != nil {
		return nil, nil, err
	}
	roles, err := guildRoles(s, guildID)
	if err != nil {
		return nil, nil, err
	}
	return clan.NewDirectory(clans, roleIndex(roles)), roles, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func interactionContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
