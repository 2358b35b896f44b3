package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/command"

	"github.com/bwmarrin/discordgo"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:  "Administrator",
	discordgo.PermissionManageChannels: "Manage Channels",
	discordgo.PermissionManageServer:    "Manage Server",
	discordgo.PermissionManageMessages: "Manage Messages",
	discordgo.PermissionManageRoles:    "Manage Roles",
	discordgo.PermissionKickMembers:    "Kick Members",
	discordgo.PermissionBanMembers:     "Ban Members",
	discordgo.PermissionSendMessages:   "Send Messages",
}

// WithUserPermissionCheck requires at least one of the command's
// UserPermissions. Administrators and the developer always pass.
func WithUserPermissionCheck(developerID string) command.Middleware {
	return func(c command.Command) command.Command {
		return command.Wrap(c, func(ctx context.Context, inv *command.Invocation) error {
			v, ok := inv.Data.(*command.SlashInteractionContext)
			if !ok {
				return c.Run(ctx, inv)
			}
			m := v.Event.Member
			if v.Event.GuildID == "" || m == nil || m.User == nil {
				return c.Run(ctx, inv)
			}

			meta, ok := command.Root(c).(command.DiscordMeta)
			if !ok || len(meta.UserPermissions()) == 0 {
				return c.Run(ctx, inv)
			}
			if developerID != "" && m.User.ID == developerID {
				return c.Run(ctx, inv)
			}

			memberPerms := m.Permissions
			if memberPerms == 0 {
				perms, err := v.Session.UserChannelPermissions(m.User.ID, v.Event.ChannelID)
				if err != nil {
					return fmt.Errorf("failed to get user permissions: %w", err)
				}
				memberPerms = perms
			}

			if HasAnyPermission(memberPerms, meta.UserPermissions()) {
				return c.Run(ctx, inv)
			}
			return bot.RespondEmbedEphemeral(v.Session, v.Event, bot.EmbedDescription(MissingPermissionsMessage(meta.UserPermissions())))
		})
	}
}

// HasAnyPermission reports whether perms holds Administrator or any of required.
func HasAnyPermission(perms int64, required []int64) bool {
	if perms&discordgo.PermissionAdministrator != 0 {
		return true
	}
	for _, p := range required {
		if perms&p != 0 {
			return true
		}
	}
	return false
}

func MissingPermissionsMessage(required []int64) string {
	allowed := make([]string, 0, len(required))
	for _, p := range required {
		name := PermissionNames[p]
		if name == "" {
			name = fmt.Sprintf("0x%x", p)
		}
		allowed = append(allowed, name)
	}
	return fmt.Sprintf(
		"You need at least one of the following permissions to run this command:\n`%s`",
		strings.Join(allowed, "`, `"),
	)
}
