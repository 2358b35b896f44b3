package taunt

import "context"

// Member is a chat user as a taunt sees it. Platform adapters wrap their own
// user and member types behind it.
type Member interface {
	ID() string
	Mention() string
	// Roles returns the names of the member's roles.
	Roles() []string
}

// ClanDirectory maps members to clans.
type ClanDirectory interface {
	// ClanOf returns the display name of the member's clan.
	ClanOf(m Member) (string, bool)
	// Mention renders a clan so it can be shown to users.
	Mention(clan string) string
}

// Decision is the result of a quota check.
type Decision struct {
	Allowed bool
	Limit   int
}

// QuotaChecker decides whether a member may still answer taunts today. An
// allowed decision has already spent one of the member's answers.
type QuotaChecker interface {
	Allow(ctx context.Context, m Member) (Decision, error)
}

// Taunt is what gets executed once a challenge is answered.
type Taunt struct {
	Sender        Member
	Responder     Member
	SenderClan    string
	ResponderClan string
	Reply         Responder
}

// Taunter performs the side effects of an answered taunt.
type Taunter interface {
	Execute(ctx context.Context, t Taunt) error
}

// MessageRef points at the message that carries a menu.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// MessageEditor rewrites a menu message and strips its components.
type MessageEditor interface {
	Disable(ctx context.Context, ref MessageRef, description string) error
}

// Responder answers the interaction that carried a selection.
type Responder interface {
	// Error shows msg only to the interacting user.
	Error(ctx context.Context, msg string) error
	// Announce replies publicly.
	Announce(ctx context.Context, msg string) error
}
