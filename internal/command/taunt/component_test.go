package taunt

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/keshon/clan-taunt/internal/clan"
	"github.com/keshon/clan-taunt/internal/command"
	"github.com/keshon/clan-taunt/internal/quota"
	"github.com/keshon/clan-taunt/internal/taunt"
	"github.com/keshon/clan-taunt/pkg/retrylimit"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentRequest struct {
	method string
	path   string
	body   string
}

// fakeDiscord answers REST calls made through a session's HTTP client.
type fakeDiscord struct {
	mu       sync.Mutex
	requests []sentRequest
}

func (f *fakeDiscord) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, sentRequest{method: req.Method, path: req.URL.Path, body: string(body)})
	f.mu.Unlock()

	status, payload := http.StatusOK, "{}"
	if strings.HasSuffix(req.URL.Path, "/callback") {
		status, payload = http.StatusNoContent, ""
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(payload)),
		Request:    req,
	}, nil
}

func (f *fakeDiscord) sent() []sentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentRequest(nil), f.requests...)
}

func newFakeSession(t *testing.T) (*discordgo.Session, *fakeDiscord) {
	t.Helper()
	s, err := discordgo.New("Bot test")
	require.NoError(t, err)
	fake := &fakeDiscord{}
	s.Client = &http.Client{Transport: fake}
	return s, fake
}

func TestComponentOnUnknownMenuRepliesAndStripsDropdown(t *testing.T) {
	s, fake := newFakeSession(t)
	svc := &Service{
		Menus:   taunt.NewRegistry(),
		Limiter: retrylimit.NewAdaptiveLimiter(100, 1, 100, 1, 0.5),
	}
	cmd := &TauntCommand{svc: svc}

	event := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "i1",
		Token:   "tok",
		Type:    discordgo.InteractionMessageComponent,
		GuildID: "g1",
		Data:    discordgo.MessageComponentInteractionData{CustomID: taunt.CustomID("gone")},
		Message: &discordgo.Message{
			ID:         "m1",
			ChannelID:  "c1",
			Components: menuComponents(testMenu()),
		},
	}}

	err := cmd.Component(&command.ComponentInteractionContext{Ctx: context.Background(), Session: s, Event: event})
	require.NoError(t, err)

	reqs := fake.sent()
	require.Len(t, reqs, 2)

	assert.Equal(t, http.MethodPost, reqs[0].method)
	assert.True(t, strings.HasSuffix(reqs[0].path, "/interactions/i1/tok/callback"), reqs[0].path)
	assert.Contains(t, reqs[0].body, "This taunt is no longer active.")
	assert.Contains(t, reqs[0].body, `"flags":64`)

	assert.Equal(t, http.MethodPatch, reqs[1].method)
	assert.True(t, strings.HasSuffix(reqs[1].path, "/channels/c1/messages/m1"), reqs[1].path)
	assert.Contains(t, reqs[1].body, `"components":[]`)
	assert.NotContains(t, reqs[1].body, `"embeds"`)
}

func TestComponentOnUnknownMenuWithoutDropdownOnlyReplies(t *testing.T) {
	s, fake := newFakeSession(t)
	cmd := &TauntCommand{svc: &Service{Menus: taunt.NewRegistry()}}

	event := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "i1",
		Token:   "tok",
		Type:    discordgo.InteractionMessageComponent,
		Data:    discordgo.MessageComponentInteractionData{CustomID: taunt.CustomID("gone")},
		Message: &discordgo.Message{ID: "m1", ChannelID: "c1"},
	}}

	require.NoError(t, cmd.Component(&command.ComponentInteractionContext{Session: s, Event: event}))
	assert.Len(t, fake.sent(), 1)
}

func testMenu() *taunt.Menu {
	return taunt.NewMenu(taunt.MenuConfig{
		ID:            "gone",
		Sender:        member("1", "Red"),
		SendingClan:   "Red",
		AnsweringClan: "Blue",
		Question:      taunt.Question{A: 6, B: 7},
		Rand:          rand.New(rand.NewSource(1)),
	}, taunt.Deps{})
}

// flakyReply fails the first announcements it is asked to send.
type flakyReply struct {
	recordingReply
	failures int
}

func (r *flakyReply) Announce(ctx context.Context, msg string) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("discord unavailable")
	}
	return r.recordingReply.Announce(ctx, msg)
}

func TestFailedAnnouncementChargesAndScoresOnce(t *testing.T) {
	store := newTestStorage(t)
	checker := quota.NewChecker(store, 5, nil)
	ctx := context.Background()

	menu := taunt.NewMenu(taunt.MenuConfig{
		ID:            "m1",
		Sender:        member("1", "Red"),
		SendingClan:   "Red",
		AnsweringClan: "Blue",
		Question:      taunt.Question{A: 6, B: 7},
		Rand:          rand.New(rand.NewSource(1)),
	}, taunt.Deps{
		Clans:   clan.NewDirectory([]string{"Red", "Blue"}, nil),
		Quota:   checker.ForGuild("g1"),
		Taunter: &executor{guildID: "g1", store: store, now: time.Now},
	})

	responder := member("2", "Blue")
	reply := &flakyReply{failures: 1}

	outcome, err := menu.Handle(ctx, taunt.Selection{Responder: responder, Value: "42", Reply: reply})
	assert.ErrorContains(t, err, "discord unavailable")
	assert.Equal(t, taunt.OutcomeNone, outcome)
	assert.Equal(t, taunt.StateAnswered, menu.State())

	outcome, err = menu.Handle(ctx, taunt.Selection{Responder: responder, Value: "42", Reply: reply})
	require.NoError(t, err)
	assert.Equal(t, taunt.OutcomeAlreadyAnswered, outcome)
	assert.Empty(t, reply.announced)

	remaining, err := checker.Remaining(ctx, "g1", responder)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)

	log, err := store.GetTauntLog("g1")
	require.NoError(t, err)
	assert.Len(t, log, 1)

	scores, err := store.GetClanScores("g1")
	require.NoError(t, err)
	assert.Equal(t, 1, scores["Blue"].Answered)
}

func TestClanChoices(t *testing.T) {
	names := func(choices []*discordgo.ApplicationCommandOptionChoice) []string {
		out := make([]string, 0, len(choices))
		for _, c := range choices {
			out = append(out, c.Name)
		}
		return out
	}

	clans := []string{"red dragons", "Blue", "bluebell", "Amber", "blue"}
	assert.Equal(t, []string{"Amber", "Blue", "Bluebell", "Red Dragons"}, names(clanChoices(clans, "")))
	assert.Equal(t, []string{"Blue", "Bluebell"}, names(clanChoices(clans, " BL")))
	assert.Equal(t, []string{"Red Dragons", "Amber"}, names(clanChoices(clans, "r")))
	assert.Empty(t, clanChoices(clans, "green"))

	many := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		many = append(many, "Clan "+strconv.Itoa(i))
	}
	assert.Len(t, clanChoices(many, ""), maxChoices)
}

func TestAutocompleteSuggestsGuildClans(t *testing.T) {
	s, fake := newFakeSession(t)
	store := newTestStorage(t)
	require.NoError(t, store.SetClans("g1", []string{"Red", "Blue", "Black"}))
	cmd := &TauntCommand{svc: &Service{DefaultClans: []string{"Green"}}}

	event := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "i1",
		Token:   "tok",
		Type:    discordgo.InteractionApplicationCommandAutocomplete,
		GuildID: "g1",
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "taunt",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "clan", Type: discordgo.ApplicationCommandOptionString, Value: "bl", Focused: true},
			},
		},
	}}

	err := cmd.Autocomplete(&command.AutocompleteInteractionContext{Session: s, Event: event, Storage: store})
	require.NoError(t, err)

	reqs := fake.sent()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].body, `"type":8`)
	assert.Contains(t, reqs[0].body, `"name":"Black"`)
	assert.Contains(t, reqs[0].body, `"name":"Blue"`)
	assert.NotContains(t, reqs[0].body, "Red")
	assert.NotContains(t, reqs[0].body, "Green")
}

func TestTauntClanOptionAutocompletes(t *testing.T) {
	def := (&TauntCommand{}).SlashDefinition()
	require.Len(t, def.Options, 1)
	assert.True(t, def.Options[0].Autocomplete)
}
