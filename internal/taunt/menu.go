// Package taunt implements the arithmetic challenge that guards a taunt between
// two clans: a dropdown of candidate answers and the menu that owns it.
package taunt

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const (
	msgAlreadyAnswered = "This taunt has already been answered."
	msgWrongAnswer     = "That's not right."
	msgQuotaExceeded   = "You can only respond to %d taunts each day!"
	msgWrongClan       = "This taunt is for %s!"
	msgEnteredFight    = "%s entered the fight against %s!"
)

var ErrMenuNotFound = errors.New("taunt menu not found")

type State int

const (
	StateActive State = iota
	StateAnswered
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateAnswered:
		return "answered"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome is how a single selection was resolved.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeTaunted
	OutcomeWrongAnswer
	OutcomeQuotaExceeded
	OutcomeAlreadyAnswered
	OutcomeWrongClan
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTaunted:
		return "taunted"
	case OutcomeWrongAnswer:
		return "wrong_answer"
	case OutcomeQuotaExceeded:
		return "quota_exceeded"
	case OutcomeAlreadyAnswered:
		return "already_answered"
	case OutcomeWrongClan:
		return "wrong_clan"
	default:
		return "none"
	}
}

// Deps are the collaborators a menu calls out to.
type Deps struct {
	Clans   ClanDirectory
	Quota   QuotaChecker
	Taunter Taunter
	Editor  MessageEditor
}

type MenuConfig struct {
	ID            string
	Sender        Member
	SendingClan   string
	AnsweringClan string
	Question      Question
	// Rand shuffles the options. A time-seeded source is used when nil.
	Rand *rand.Rand
}

// Selection is one pick from the dropdown.
type Selection struct {
	Responder Member
	Value     string
	Reply     Responder
}

// Menu is a single taunt challenge. It is safe for concurrent use: selections
// are handled one at a time, so at most one of them can fire the taunt.
type Menu struct {
	id            string
	sender        Member
	sendingClan   string
	answeringClan string
	question      Question
	options       []int
	deps          Deps

	mu         sync.Mutex
	state      State
	answeredBy Member
	message    MessageRef

	stopOnce sync.Once
	onStop   func()
}

func NewMenu(cfg MenuConfig, deps Deps) *Menu {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Menu{
		id:            cfg.ID,
		sender:        cfg.Sender,
		sendingClan:   cfg.SendingClan,
		answeringClan: cfg.AnsweringClan,
		question:      cfg.Question,
		options:       cfg.Question.Options(rng),
		deps:          deps,
		state:         StateActive,
	}
}

func (m *Menu) ID() string            { return m.id }
func (m *Menu) Question() Question    { return m.question }
func (m *Menu) Sender() Member        { return m.sender }
func (m *Menu) SendingClan() string   { return m.sendingClan }
func (m *Menu) AnsweringClan() string { return m.answeringClan }

// Options returns the choices in display order.
func (m *Menu) Options() []int {
	out := make([]int, len(m.options))
	copy(out, m.options)
	return out
}

func (m *Menu) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// AnsweredBy returns the member who answered, or nil while the menu is active.
func (m *Menu) AnsweredBy() Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.answeredBy
}

// SetMessage records where the menu was posted so it can be edited later.
func (m *Menu) SetMessage(ref MessageRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.message = ref
}

// Handle runs the access guard and then resolves the selection.
func (m *Menu) Handle(ctx context.Context, sel Selection) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateAnswered {
		if err := sel.Reply.Error(ctx, msgAlreadyAnswered); err != nil {
			return OutcomeAlreadyAnswered, fmt.Errorf("reply: %w", err)
		}
		// should already be disabled
		return OutcomeAlreadyAnswered, m.disable(ctx)
	}

	responderClan, ok := m.deps.Clans.ClanOf(sel.Responder)
	if !ok || responderClan != m.answeringClan {
		msg := fmt.Sprintf(msgWrongClan, m.deps.Clans.Mention(m.answeringClan))
		return OutcomeWrongClan, replyError(ctx, sel.Reply, msg)
	}

	choice, ok := ParseChoice(sel.Value)
	if !ok || choice != m.question.Answer() {
		return OutcomeWrongAnswer, replyError(ctx, sel.Reply, msgWrongAnswer)
	}

	decision, err := m.deps.Quota.Allow(ctx, sel.Responder)
	if err != nil {
		return OutcomeNone, fmt.Errorf("check quota: %w", err)
	}
	if !decision.Allowed {
		return OutcomeQuotaExceeded, replyError(ctx, sel.Reply, fmt.Sprintf(msgQuotaExceeded, decision.Limit))
	}

	// The answer is spent once the quota allowed it: a failing taunt must not
	// leave the menu open for a second charge.
	m.state = StateAnswered
	m.answeredBy = sel.Responder

	err = m.deps.Taunter.Execute(ctx, Taunt{
		Sender:        m.sender,
		Responder:     sel.Responder,
		SenderClan:    m.sendingClan,
		ResponderClan: responderClan,
		Reply:         sel.Reply,
	})
	if err != nil {
		return OutcomeNone, errors.Join(fmt.Errorf("execute taunt: %w", err), m.disable(ctx))
	}
	return OutcomeTaunted, m.disable(ctx)
}

// disable stops listening and strips the dropdown from the posted message.
// Callers hold m.mu.
func (m *Menu) disable(ctx context.Context) error {
	m.state = StateAnswered
	m.stop()

	if m.message.MessageID == "" || m.answeredBy == nil {
		return nil
	}

	desc := fmt.Sprintf(msgEnteredFight, m.answeredBy.Mention(), m.sendingClan)
	if err := m.deps.Editor.Disable(ctx, m.message, desc); err != nil {
		return fmt.Errorf("disable menu %s: %w", m.id, err)
	}
	return nil
}

func (m *Menu) stop() {
	m.stopOnce.Do(func() {
		if m.onStop != nil {
			m.onStop()
		}
	})
}

func replyError(ctx context.Context, r Responder, msg string) error {
	if err := r.Error(ctx, msg); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}
