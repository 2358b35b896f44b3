package taunt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/clan"
	"github.com/keshon/clan-taunt/internal/command"

	"github.com/bwmarrin/discordgo"
)

type ManageClansCommand struct {
	svc *Service
}

func (c *ManageClansCommand) Name() string        { return "manage-clans" }
func (c *ManageClansCommand) Description() string { return "List, add or remove clans" }
func (c *ManageClansCommand) Group() string       { return "taunt" }
func (c *ManageClansCommand) Category() string    { return "⚙️ Settings" }
func (c *ManageClansCommand) UserPermissions() []int64 {
	return []int64{discordgo.PermissionManageRoles}
}

func (c *ManageClansCommand) SlashDefinition() *discordgo.ApplicationCommand {
	nameOption := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Clan name, matching its role",
			Required:    true,
		},
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show the clans of this server",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add a clan",
				Options:     nameOption,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Remove a clan",
				Options:     nameOption,
			},
		},
	}
}

func (c *ManageClansCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := context.Session
	event := context.Event
	guildID := event.GuildID

	data := event.ApplicationCommandData()
	if len(data.Options) == 0 {
		return bot.RespondEmbedEphemeral(session, event, bot.EmbedDescription("No subcommand provided. Use `list`, `add`, or `remove`."))
	}
	sub := data.Options[0]

	name := ""
	for _, opt := range sub.Options {
		if opt.Name == "name" {
			name = opt.StringValue()
		}
	}

	clans, err := c.svc.clans(context.Storage, guildID)
	if err != nil {
		return err
	}

	var updated []string
	switch sub.Name {
	case "list":
		return bot.RespondEmbedEphemeral(session, event, bot.EmbedDescription(formatClanList(clans)))
	case "add":
		updated, err = clan.Add(clans, name)
	case "remove":
		updated, err = clan.Remove(clans, name)
	default:
		return bot.RespondEmbedEphemeral(session, event, bot.EmbedDescription("Unknown subcommand."))
	}

	if errors.Is(err, clan.ErrClanExists) || errors.Is(err, clan.ErrUnknownClan) {
		return bot.RespondEmbedEphemeral(session, event, bot.EmbedDescription(clanErrorMessage(err, name)))
	}
	if err != nil {
		return err
	}

	if err := context.Storage.SetClans(guildID, updated); err != nil {
		return fmt.Errorf("failed to save clans: %w", err)
	}
	return bot.RespondEmbedEphemeral(session, event, bot.EmbedDescription(formatClanList(updated)))
}

func formatClanList(clans []string) string {
	if len(clans) == 0 {
		return "No clans configured."
	}
	return "Clans: **" + strings.Join(clans, "**, **") + "**"
}

func clanErrorMessage(err error, name string) string {
	display := clan.DisplayName(name)
	switch {
	case display == "":
		return "A clan needs a name."
	case errors.Is(err, clan.ErrClanExists):
		return fmt.Sprintf("**%s** is already a clan.", display)
	default:
		return fmt.Sprintf("**%s** is not a clan.", display)
	}
}
