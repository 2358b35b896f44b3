package taunt

import (
	"context"
	"fmt"

	"github.com/keshon/clan-taunt/internal/bot"
	"github.com/keshon/clan-taunt/internal/taunt"
	"github.com/keshon/clan-taunt/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
)

// messageEditor rewrites the posted menu message without its dropdown.
type messageEditor struct {
	s       *discordgo.Session
	limiter *retrylimit.AdaptiveLimiter
}

var _ taunt.MessageEditor = (*messageEditor)(nil)

func (ed *messageEditor) Disable(ctx context.Context, ref taunt.MessageRef, description string) error {
	var msg *discordgo.Message
	err := retrylimit.WithRetryMax(ctx, func() error {
		var err error
		msg, err = ed.s.ChannelMessage(ref.ChannelID, ref.MessageID)
		return err
	}, ed.limiter, 3)
	if err != nil {
		return fmt.Errorf("fetch message %s: %w", ref.MessageID, err)
	}

	edit := disabledEdit(ref, msg.Embeds, description)
	err = retrylimit.WithRetryMax(ctx, func() error {
		_, err := ed.s.ChannelMessageEditComplex(edit)
		return err
	}, ed.limiter, 3)
	if err != nil {
		return fmt.Errorf("edit message %s: %w", ref.MessageID, err)
	}
	return nil
}

// disabledEdit keeps the first embed with a new description and drops every
// component.
func disabledEdit(ref taunt.MessageRef, embeds []*discordgo.MessageEmbed, description string) *discordgo.MessageEdit {
	embed := bot.EmbedDescription(description)
	if len(embeds) > 0 && embeds[0] != nil {
		copied := *embeds[0]
		copied.Description = description
		embed = &copied
	}
	out := []*discordgo.MessageEmbed{embed}
	components := []discordgo.MessageComponent{}
	return &discordgo.MessageEdit{
		ID:         ref.MessageID,
		Channel:    ref.ChannelID,
		Embeds:     &out,
		Components: &components,
	}
}

// stripComponents removes the dropdown from a message whose menu is gone,
// leaving its embeds untouched.
func (ed *messageEditor) stripComponents(ctx context.Context, msg *discordgo.Message) error {
	if msg == nil || len(msg.Components) == 0 {
		return nil
	}
	components := []discordgo.MessageComponent{}
	return retrylimit.WithRetryMax(ctx, func() error {
		_, err := ed.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			ID:         msg.ID,
			Channel:    msg.ChannelID,
			Components: &components,
		})
		return err
	}, ed.limiter, 3)
}
