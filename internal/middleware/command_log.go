package middleware

import (
	"context"
	"time"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// WithCommandLogger logs every execution and writes slash commands to the
// guild's command history.
func WithCommandLogger() command.Middleware {
	return func(c command.Command) command.Command {
		return command.Wrap(c, func(ctx context.Context, inv *command.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			var (
				s    *discordgo.Session
				e    *discordgo.InteractionCreate
				kind string
			)
			switch v := inv.Data.(type) {
			case *command.SlashInteractionContext:
				s, e, kind = v.Session, v.Event, "slash"
				if v.Storage != nil && e.GuildID != "" {
					user := bot.InvokingUser(s, e)
					if lerr := bot.LogCommand(s, v.Storage, e.GuildID, e.ChannelID, user.ID, user.Username, c.Name()); lerr != nil {
						log.Warn().Err(lerr).Str("command", c.Name()).Msg("Failed to log command")
					}
				}
			case *command.ComponentInteractionContext:
				s, e, kind = v.Session, v.Event, "component"
			default:
				return err
			}

			user := bot.InvokingUser(s, e)
			evt := log.Info()
			if err != nil {
				evt = log.Error().Err(err)
			}
			evt.Str("command", c.Name()).
				Str("kind", kind).
				Str("guild_id", e.GuildID).
				Str("user_id", user.ID).
				Dur("took", time.Since(start)).
				Msg("Command handled")
			return err
		})
	}
}
