package taunt

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/clan-taunt/internal/storage"
	st "github.com/keshon/clan-taunt/internal/storagetypes"
	"github.com/keshon/clan-taunt/internal/taunt"

	"github.com/rs/zerolog/log"
)

// executor scores the fight and announces it. The responder's daily answer
// was already reserved by the menu's quota check.
type executor struct {
	guildID string
	store   *storage.Storage
	now     func() time.Time
}

var _ taunt.Taunter = (*executor)(nil)

func (x *executor) Execute(ctx context.Context, t taunt.Taunt) error {
	record := st.TauntRecord{
		SenderID:      t.Sender.ID(),
		ResponderID:   t.Responder.ID(),
		SenderClan:    t.SenderClan,
		ResponderClan: t.ResponderClan,
		AnsweredAt:    x.now().UTC(),
	}
	if err := x.store.RecordTaunt(x.guildID, record); err != nil {
		log.Warn().Err(err).Str("guild_id", x.guildID).Msg("Failed to record taunt")
	}

	return t.Reply.Announce(ctx, announcement(t))
}

func announcement(t taunt.Taunt) string {
	return fmt.Sprintf("⚔️ %s of **%s** answered the taunt from %s of **%s**!",
		t.Responder.Mention(), t.ResponderClan, t.Sender.Mention(), t.SenderClan)
}
