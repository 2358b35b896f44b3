package discord

import (
	"context"
	"fmt"

	"github.com/keshon/clan-taunt/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

func (b *Bot) appID() (string, error) {
	if b.dg.State != nil && b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	user, err := b.dg.User("@me")
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// registerCommands brings the guild's commands in line with the registry,
// touching only commands whose definition hash changed.
func (b *Bot) registerCommands(ctx context.Context, guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return fmt.Errorf("failed to resolve application id: %w", err)
	}

	existing, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	wanted := slashDefinitions(b.registry.GetAll())
	plan := planRegistration(existing, wanted, b.cache.load(guildID))

	for _, old := range plan.remove {
		log.Info().Str("guild_id", guildID).Str("command", old.Name).Msg("Deleting obsolete command")
		if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
			log.Error().Err(err).Str("guild_id", guildID).Str("command", old.Name).Msg("Failed to delete command")
		}
	}

	for _, def := range plan.upsert {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Error().Err(err).Str("guild_id", guildID).Str("command", def.Name).Msg("Can't create command")
			delete(plan.hashes, def.Name)
			continue
		}
		log.Info().Str("guild_id", guildID).Str("command", def.Name).Msg("Command created")
	}

	if err := b.cache.save(guildID, plan.hashes); err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Failed to save command hashes")
	}
	return nil
}

type registrationPlan struct {
	remove []*discordgo.ApplicationCommand
	upsert []*discordgo.ApplicationCommand
	// hashes are the definition hashes once the plan is applied.
	hashes map[string]string
}

func planRegistration(existing, wanted []*discordgo.ApplicationCommand, cached map[string]string) registrationPlan {
	plan := registrationPlan{hashes: make(map[string]string, len(wanted))}

	wantedNames := make(map[string]bool, len(wanted))
	for _, def := range wanted {
		wantedNames[def.Name] = true
	}
	present := make(map[string]bool, len(existing))
	for _, old := range existing {
		present[old.Name] = true
		if !wantedNames[old.Name] {
			plan.remove = append(plan.remove, old)
		}
	}

	for _, def := range wanted {
		h := hashCommand(def)
		plan.hashes[def.Name] = h
		if !present[def.Name] || cached[def.Name] != h {
			plan.upsert = append(plan.upsert, def)
		}
	}
	return plan
}

func slashDefinitions(cmds []command.Command) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range cmds {
		sp, ok := command.Root(c).(command.SlashProvider)
		if !ok {
			continue
		}
		def := sp.SlashDefinition()
		if def == nil {
			continue
		}
		if def.Type == 0 {
			def.Type = discordgo.ChatApplicationCommand
		}
		defs = append(defs, def)
	}
	return defs
}
