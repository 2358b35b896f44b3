package command

import (
	"context"

	"github.com/keshon/clan-taunt/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Discord-specific contexts passed in Invocation.Data.

type SlashInteractionContext struct {
	// Ctx bounds the interaction; the adapter fills it in when unset.
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Args    []string
	Storage *storage.Storage
}

type ComponentInteractionContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}

// AutocompleteInteractionContext carries a partially typed slash command
// whose focused option wants suggestions.
type AutocompleteInteractionContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}

type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

type ComponentInteractionHandler interface {
	Component(*ComponentInteractionContext) error
}

type AutocompleteHandler interface {
	Autocomplete(*AutocompleteInteractionContext) error
}

// ComponentMatcher lets a command claim message components by custom ID.
type ComponentMatcher interface {
	MatchComponent(customID string) bool
}

// DiscordMeta exposes Group/Category/Permissions to middleware without
// depending on the concrete command type.
type DiscordMeta interface {
	Group() string
	Category() string
	UserPermissions() []int64
}

// DiscordCommand is what individual Discord commands implement.
type DiscordCommand interface {
	Name() string
	Description() string
	Group() string
	Category() string
	UserPermissions() []int64
	Run(ctx interface{}) error
}

// DiscordAdapter adapts a DiscordCommand to Command so it can live in the
// registry. Component contexts are routed to the command's Component method.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string             { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string      { return a.Cmd.Description() }
func (a *DiscordAdapter) Group() string            { return a.Cmd.Group() }
func (a *DiscordAdapter) Category() string         { return a.Cmd.Category() }
func (a *DiscordAdapter) UserPermissions() []int64 { return a.Cmd.UserPermissions() }

func (a *DiscordAdapter) Run(ctx context.Context, inv *Invocation) error {
	switch v := inv.Data.(type) {
	case *ComponentInteractionContext:
		if v.Ctx == nil {
			v.Ctx = ctx
		}
		return a.Component(v)
	case *AutocompleteInteractionContext:
		if v.Ctx == nil {
			v.Ctx = ctx
		}
		return a.Autocomplete(v)
	case *SlashInteractionContext:
		if v.Ctx == nil {
			v.Ctx = ctx
		}
	}
	return a.Cmd.Run(inv.Data)
}

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := a.Cmd.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func (a *DiscordAdapter) Component(ctx *ComponentInteractionContext) error {
	if ch, ok := a.Cmd.(ComponentInteractionHandler); ok {
		return ch.Component(ctx)
	}
	return nil
}

func (a *DiscordAdapter) Autocomplete(ctx *AutocompleteInteractionContext) error {
	if ah, ok := a.Cmd.(AutocompleteHandler); ok {
		return ah.Autocomplete(ctx)
	}
	return nil
}

func (a *DiscordAdapter) MatchComponent(customID string) bool {
	if m, ok := a.Cmd.(ComponentMatcher); ok {
		return m.MatchComponent(customID)
	}
	return false
}

// RegisterCommand registers a Discord command with the default registry and
// applies middlewares.
func RegisterCommand(discordCmd DiscordCommand, mws ...Middleware) {
	c := Apply(&DiscordAdapter{Cmd: discordCmd}, mws...)
	DefaultRegistry.Register(c)
}

// FindComponentHandler returns the registered command whose underlying
// command claims customID.
func FindComponentHandler(r *Registry, customID string) Command {
	for _, c := range r.GetAll() {
		if m, ok := Root(c).(ComponentMatcher); ok && m.MatchComponent(customID) {
			return c
		}
	}
	return nil
}
