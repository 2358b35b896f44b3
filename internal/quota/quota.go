// Package quota enforces the daily limit on how many taunts a member may answer.
package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/clan-taunt/internal/taunt"
)

var ErrNoStore = errors.New("quota store not configured")

// Store keeps per-member answer counters bucketed by day.
type Store interface {
	Count(ctx context.Context, guildID, userID, day string) (int, error)
	Increment(ctx context.Context, guildID, userID, day string) (int, error)
	// IncrementWithin increments only while the counter is below limit and
	// reports whether it did. Check and increment are atomic.
	IncrementWithin(ctx context.Context, guildID, userID, day string, limit int) (int, bool, error)
}

// Day returns the UTC calendar day that t falls into.
func Day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Checker applies the daily limit. A limit of zero or less disables it.
type Checker struct {
	store  Store
	limit  int
	bypass []string
	now    func() time.Time
}

func NewChecker(store Store, limit int, bypassRoles []string) *Checker {
	return &Checker{
		store:  store,
		limit:  limit,
		bypass: bypassRoles,
		now:    time.Now,
	}
}

func (c *Checker) Limit() int { return c.limit }

// Bypasses reports whether the member holds a role that lifts the limit.
func (c *Checker) Bypasses(m taunt.Member) bool {
	for _, role := range m.Roles() {
		for _, b := range c.bypass {
			if strings.EqualFold(role, b) {
				return true
			}
		}
	}
	return false
}

// Remaining returns how many taunts the member may still answer today,
// or -1 when no limit applies.
func (c *Checker) Remaining(ctx context.Context, guildID string, m taunt.Member) (int, error) {
	if c.limit <= 0 || c.Bypasses(m) {
		return -1, nil
	}
	if c.store == nil {
		return 0, ErrNoStore
	}
	used, err := c.store.Count(ctx, guildID, m.ID(), Day(c.now()))
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return max(0, c.limit-used), nil
}

// Consume records one answered taunt for the member.
func (c *Checker) Consume(ctx context.Context, guildID, userID string) error {
	if c.store == nil {
		return ErrNoStore
	}
	if _, err := c.store.Increment(ctx, guildID, userID, Day(c.now())); err != nil {
		return fmt.Errorf("increment answers: %w", err)
	}
	return nil
}

// Reserve spends one of the member's answers for today if any are left.
// Unlimited and bypassing members are always granted one; their answers are
// still counted when a store is configured.
func (c *Checker) Reserve(ctx context.Context, guildID string, m taunt.Member) (bool, error) {
	if c.limit <= 0 || c.Bypasses(m) {
		if c.store == nil {
			return true, nil
		}
		return true, c.Consume(ctx, guildID, m.ID())
	}
	if c.store == nil {
		return false, ErrNoStore
	}
	_, ok, err := c.store.IncrementWithin(ctx, guildID, m.ID(), Day(c.now()), c.limit)
	if err != nil {
		return false, fmt.Errorf("reserve answer: %w", err)
	}
	return ok, nil
}

// ForGuild scopes the checker to one guild so menus can use it.
func (c *Checker) ForGuild(guildID string) taunt.QuotaChecker {
	return guildChecker{c: c, guildID: guildID}
}

type guildChecker struct {
	c       *Checker
	guildID string
}

// Allow reserves the answer when the member is under the limit, so two
// menus answered at once cannot both slip past it.
func (g guildChecker) Allow(ctx context.Context, m taunt.Member) (taunt.Decision, error) {
	ok, err := g.c.Reserve(ctx, g.guildID, m)
	if err != nil {
		return taunt.Decision{}, err
	}
	return taunt.Decision{Allowed: ok, Limit: g.c.limit}, nil
}
