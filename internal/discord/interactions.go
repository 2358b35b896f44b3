package discord

import (
	"context"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

const msgFailed = "Something went wrong. Please try again."

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(b.ctx, b.cfg.InteractionTimeout)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name := i.ApplicationCommandData().Name
		c := b.registry.Get(name)
		if c == nil {
			log.Warn().Str("command", name).Msg("Unknown command")
			return
		}
		inv := &command.Invocation{Data: &command.SlashInteractionContext{
			Ctx:     ctx,
			Session: s,
			Event:   i,
			Storage: b.storage,
		}}
		b.run(s, i, c, inv)

	case discordgo.InteractionApplicationCommandAutocomplete:
		name := i.ApplicationCommandData().Name
		c := b.registry.Get(name)
		if c == nil {
			return
		}
		inv := &command.Invocation{Data: &command.AutocompleteInteractionContext{
			Ctx:     ctx,
			Session: s,
			Event:   i,
			Storage: b.storage,
		}}
		// suggestions cannot carry an error reply
		if err := c.Run(ctx, inv); err != nil {
			log.Warn().Err(err).Str("command", name).Msg("Autocomplete failed")
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		c := command.FindComponentHandler(b.registry, customID)
		if c == nil {
			log.Warn().Str("custom_id", customID).Msg("No matching component handler")
			return
		}
		inv := &command.Invocation{Data: &command.ComponentInteractionContext{
			Ctx:     ctx,
			Session: s,
			Event:   i,
			Storage: b.storage,
		}}
		b.run(s, i, c, inv)

	default:
		log.Debug().Int("type", int(i.Type)).Msg("Unhandled interaction type")
	}
}

// run executes c and answers with a generic error when it fails. The reply
// fails harmlessly if the command already responded.
func (b *Bot) run(s *discordgo.Session, i *discordgo.InteractionCreate, c command.Command, inv *command.Invocation) {
	ctx := b.ctx
	switch v := inv.Data.(type) {
	case *command.SlashInteractionContext:
		ctx = v.Ctx
	case *command.ComponentInteractionContext:
		ctx = v.Ctx
	}

	if err := c.Run(ctx, inv); err != nil {
		log.Error().Err(err).Str("command", c.Name()).Msg("Error running command")
		if rerr := bot.RespondEmbedEphemeral(s, i, bot.EmbedDescription(msgFailed)); rerr != nil {
			log.Debug().Err(rerr).Msg("Could not send error reply")
		}
	}
}
