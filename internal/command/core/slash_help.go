package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/command"
	"github.com/keshon/clan-taunt/internal/config"

	"github.com/bwmarrin/discordgo"
)

type HelpCommand struct {
	registry *command.Registry
}

func (c *HelpCommand) Name() string             { return "help" }
func (c *HelpCommand) Description() string      { return "Get a list of available commands" }
func (c *HelpCommand) Group() string            { return "core" }
func (c *HelpCommand) Category() string         { return "🕯️ Information" }
func (c *HelpCommand) UserPermissions() []int64 { return []int64{} }

func (c *HelpCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
	}
}

func (c *HelpCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       config.AppName + " Help",
		Description: buildHelpByCategory(c.registry.GetAll()),
		Color:       bot.EmbedColor,
	}
	return bot.RespondEmbedEphemeral(context.Session, context.Event, embed)
}

func buildHelpByCategory(all []command.Command) string {
	categoryMap := make(map[string][]command.Command)
	for _, cmd := range all {
		meta, ok := command.Root(cmd).(command.DiscordMeta)
		if !ok {
			continue
		}
		cat := meta.Category()
		categoryMap[cat] = append(categoryMap[cat], cmd)
	}

	cats := make([]string, 0, len(categoryMap))
	for cat := range categoryMap {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := config.CategoryWeights[cats[i]], config.CategoryWeights[cats[j]]
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for _, cat := range cats {
		sb.WriteString(fmt.Sprintf("**%s**\n", cat))
		cmds := categoryMap[cat]
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
		for _, cmd := range cmds {
			sb.WriteString(fmt.Sprintf("`%s` - %s\n", cmd.Name(), cmd.Description()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Register adds /help, listing the commands of registry.
func Register(registry *command.Registry, mws ...command.Middleware) {
	command.RegisterCommand(&HelpCommand{registry: registry}, mws...)
}
