package taunt

import (
	"context"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/taunt"

	"github.com/bwmarrin/discordgo"
)

// interactionResponder answers a component interaction.
type interactionResponder struct {
	s *discordgo.Session
	e *discordgo.InteractionCreate
}

var _ taunt.Responder = (*interactionResponder)(nil)

func (r *interactionResponder) Error(_ context.Context, msg string) error {
	return bot.RespondEmbedEphemeral(r.s, r.e, bot.EmbedDescription(msg))
}

// Announce replies publicly. Only users are pinged, never clan roles.
func (r *interactionResponder) Announce(_ context.Context, msg string) error {
	return r.s.InteractionRespond(r.e.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers},
			},
		},
	})
}
