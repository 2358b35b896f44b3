package taunt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/command"
	st "github.com/keshon/clan-taunt/internal/storagetypes"

	"github.com/bwmarrin/discordgo"
)

type TauntStatsCommand struct {
	svc *Service
}

func (c *TauntStatsCommand) Name() string             { return "taunt-stats" }
func (c *TauntStatsCommand) Description() string      { return "Show clan scores and your taunts left today" }
func (c *TauntStatsCommand) Group() string            { return "taunt" }
func (c *TauntStatsCommand) Category() string         { return category }
func (c *TauntStatsCommand) UserPermissions() []int64 { return []int64{} }

func (c *TauntStatsCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *TauntStatsCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := context.Session
	event := context.Event

	scores, err := context.Storage.GetClanScores(event.GuildID)
	if err != nil {
		return err
	}
	roles, err := guildRoles(session, event.GuildID)
	if err != nil {
		return err
	}
	member, err := newGuildMember(event.Member, roles)
	if err != nil {
		return err
	}
	remaining, err := c.svc.Quota.Remaining(interactionContext(context.Ctx), event.GuildID, member)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Clan Scores",
		Description: formatScores(scores),
		Color:       bot.EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: formatRemaining(remaining)},
	}
	return bot.RespondEmbedEphemeral(session, event, embed)
}

// formatScores lists clans by answered taunts, most first.
func formatScores(scores map[string]st.ClanScore) string {
	if len(scores) == 0 {
		return "No taunts yet."
	}
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := scores[names[i]], scores[names[j]]
		if a.Answered != b.Answered {
			return a.Answered > b.Answered
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	for _, name := range names {
		s := scores[name]
		sb.WriteString(fmt.Sprintf("**%s** - sent %d, answered %d\n", name, s.Sent, s.Answered))
	}
	return sb.String()
}

func formatRemaining(remaining int) string {
	switch {
	case remaining < 0:
		return "You can answer as many taunts as you like."
	case remaining == 1:
		return "You can answer 1 more taunt today."
	default:
		return fmt.Sprintf("You can answer %d more taunts today.", remaining)
	}
}
