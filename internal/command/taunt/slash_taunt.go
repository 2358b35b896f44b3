package taunt

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/clan"
	"github.com/keshon/clan-taunt/internal/command"
	"github.com/keshon/clan-taunt/internal/taunt"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const msgInactive = "This taunt is no longer active."

type TauntCommand struct {
	svc *Service
}

func (c *TauntCommand) Name() string             { return "taunt" }
func (c *TauntCommand) Description() string      { return "Challenge another clan to a fight" }
func (c *TauntCommand) Group() string            { return "taunt" }
func (c *TauntCommand) Category() string         { return category }
func (c *TauntCommand) UserPermissions() []int64 { return []int64{} }

func (c *TauntCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "clan",
				Description:  "The clan to taunt",
				Required:     true,
				Autocomplete: true,
			},
		},
	}
}

func (c *TauntCommand) Run(ctx interface{}) error {
	context, ok := ctx.(*command.SlashInteractionContext)
	if !ok {
		return nil
	}

	session := context.Session
	event := context.Event
	guildID := event.GuildID

	dir, roles, err := c.svc.directory(session, context.Storage, guildID)
	if err != nil {
		return err
	}
	sender, err := newGuildMember(event.Member, roles)
	if err != nil {
		return err
	}

	target := ""
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Name == "clan" {
			target = opt.StringValue()
		}
	}

	sendingClan, answeringClan, problem := resolveClans(dir, sender, target)
	if problem != "" {
		return bot.RespondEmbedEphemeral(session, event, bot.EmbedDescription(problem))
	}

	rng := newRand()
	menu := taunt.NewMenu(taunt.MenuConfig{
		ID:            uuid.NewString(),
		Sender:        sender,
		SendingClan:   sendingClan,
		AnsweringClan: answeringClan,
		Question:      taunt.NewQuestion(rng),
		Rand:          rng,
	}, taunt.Deps{
		Clans: dir,
		Quota: c.svc.Quota.ForGuild(guildID),
		Taunter: &executor{
			guildID: guildID,
			store:   context.Storage,
			now:     time.Now,
		},
		Editor: &messageEditor{s: session, limiter: c.svc.Limiter},
	})

	// registered before posting so an instant answer finds it
	c.svc.Menus.Add(menu)

	embed := tauntEmbed(sender, dir.Mention(sendingClan), dir.Mention(answeringClan))
	msg, err := bot.RespondWithComponents(session, event, embed, menuComponents(menu))
	if err != nil {
		c.svc.Menus.Remove(menu.ID())
		return fmt.Errorf("failed to post taunt: %w", err)
	}
	menu.SetMessage(taunt.MessageRef{ChannelID: msg.ChannelID, MessageID: msg.ID})

	c.svc.Metrics.TauntSent()
	if err := context.Storage.AddTauntSent(guildID, sendingClan); err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Failed to count sent taunt")
	}

	log.Info().
		Str("guild_id", guildID).
		Str("menu_id", menu.ID()).
		Str("from", sendingClan).
		Str("to", answeringClan).
		Msg("Taunt posted")
	return nil
}

// Autocomplete suggests the guild's clans for the clan option.
func (c *TauntCommand) Autocomplete(ctx *command.AutocompleteInteractionContext) error {
	event := ctx.Event
	typed := ""
	for _, opt := range event.ApplicationCommandData().Options {
		if opt.Focused && opt.Name == "clan" {
			typed = opt.StringValue()
		}
	}

	clans, err := c.svc.clans(ctx.Storage, event.GuildID)
	if err != nil {
		return err
	}
	return ctx.Session.InteractionRespond(event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: clanChoices(clans, typed)},
	})
}

func (c *TauntCommand) MatchComponent(customID string) bool {
	_, ok := taunt.MenuID(customID)
	return ok
}

func (c *TauntCommand) Component(ctx *command.ComponentInteractionContext) error {
	session := ctx.Session
	event := ctx.Event
	data := event.MessageComponentData()

	id, _ := taunt.MenuID(data.CustomID)
	menu, err := c.svc.Menus.Get(id)
	if errors.Is(err, taunt.ErrMenuNotFound) {
		if rerr := bot.RespondEmbedEphemeral(session, event, bot.EmbedDescription(msgInactive)); rerr != nil {
			return rerr
		}
		ed := &messageEditor{s: session, limiter: c.svc.Limiter}
		return ed.stripComponents(interactionContext(ctx.Ctx), event.Message)
	}
	if err != nil {
		return err
	}

	roles, err := guildRoles(session, event.GuildID)
	if err != nil {
		return err
	}
	responder, err := newGuildMember(event.Member, roles)
	if err != nil {
		return err
	}

	value := ""
	if len(data.Values) > 0 {
		value = data.Values[0]
	}

	outcome, err := menu.Handle(interactionContext(ctx.Ctx), taunt.Selection{
		Responder: responder,
		Value:     value,
		Reply:     &interactionResponder{s: session, e: event},
	})
	if outcome != taunt.OutcomeNone {
		c.svc.Metrics.Selection(outcome.String())
	}

	log.Info().
		Str("guild_id", event.GuildID).
		Str("menu_id", id).
		Str("user_id", responder.ID()).
		Stringer("outcome", outcome).
		Msg("Taunt selection handled")
	return err
}

// maxChoices is the most suggestions Discord accepts for one option.
const maxChoices = 25

// clanChoices returns the clans whose name contains typed, case-insensitively,
// sorted and with clans starting with typed first.
func clanChoices(clans []string, typed string) []*discordgo.ApplicationCommandOptionChoice {
	typed = strings.ToLower(strings.TrimSpace(typed))
	var prefixed, rest []string
	seen := make(map[string]bool, len(clans))
	for _, c := range clans {
		name := clan.DisplayName(c)
		lower := strings.ToLower(name)
		if name == "" || seen[lower] || !strings.Contains(lower, typed) {
			continue
		}
		seen[lower] = true
		if strings.HasPrefix(lower, typed) {
			prefixed = append(prefixed, name)
		} else {
			rest = append(rest, name)
		}
	}
	slices.Sort(prefixed)
	slices.Sort(rest)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, maxChoices)
	for _, name := range append(prefixed, rest...) {
		if len(choices) == maxChoices {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: name, Value: name})
	}
	return choices
}

// resolveClans checks that the sender belongs to a clan and that target is
// another known clan. problem is the message to show when it is not.
func resolveClans(dir *clan.Directory, sender taunt.Member, target string) (sending, answering, problem string) {
	sending, ok := dir.ClanOf(sender)
	if !ok {
		return "", "", "You need to be in a clan to taunt."
	}
	answering, ok = dir.Lookup(target)
	if !ok {
		return "", "", fmt.Sprintf("Unknown clan **%s**. Clans: %s", strings.TrimSpace(target), strings.Join(dir.Names(), ", "))
	}
	if answering == sending {
		return "", "", "You can't taunt your own clan."
	}
	return sending, answering, ""
}

func tauntEmbed(sender taunt.Member, sendingClan, answeringClan string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Taunt!",
		Description: fmt.Sprintf("%s of %s taunts %s!\nAnswer correctly to enter the fight.", sender.Mention(), sendingClan, answeringClan),
		Color:       bot.EmbedColor,
	}
}

func menuComponents(menu *taunt.Menu) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(menu.Options()))
	for _, v := range menu.Options() {
		label := strconv.Itoa(v)
		options = append(options, discordgo.SelectMenuOption{Label: label, Value: label})
	}
	minValues := 1
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    taunt.CustomID(menu.ID()),
					Placeholder: menu.Question().Placeholder(),
					MinValues:   &minValues,
					MaxValues:   1,
					Options:     options,
				},
			},
		},
	}
}
