// Package middleware wraps Discord commands with cross-cutting checks.
package middleware

import (
	"context"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/command"
)

// WithGuildOnly rejects interactions that do not come from a guild.
func WithGuildOnly() command.Middleware {
	return func(c command.Command) command.Command {
		return command.Wrap(c, func(ctx context.Context, inv *command.Invocation) error {
			switch v := inv.Data.(type) {
			case *command.SlashInteractionContext:
				if v.Event.GuildID == "" {
					return bot.RespondEmbedEphemeral(v.Session, v.Event, bot.EmbedDescription("This command only works in a server."))
				}
			case *command.ComponentInteractionContext:
				if v.Event.GuildID == "" {
					return nil
				}
			}
			return c.Run(ctx, inv)
		})
	}
}
