package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func newMemStore() *memStore { return &memStore{counts: map[string]int{}} }

func (s *memStore) Count(_ context.Context, guildID, userID, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[guildID+"/"+userID+"/"+day], s.err
}

func (s *memStore) Increment(_ context.Context, guildID, userID, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	k := guildID + "/" + userID + "/" + day
	s.counts[k]++
	return s.counts[k], nil
}

func (s *memStore) IncrementWithin(_ context.Context, guildID, userID, day string, limit int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, false, s.err
	}
	k := guildID + "/" + userID + "/" + day
	if s.counts[k] >= limit {
		return s.counts[k], false, nil
	}
	s.counts[k]++
	return s.counts[k], true, nil
}

type member struct {
	id    string
	roles []string
}

func (m member) ID() string      { return m.id }
func (m member) Mention() string { return "<@" + m.id + ">" }
func (m member) Roles() []string { return m.roles }

func TestDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := time.Date(2026, 3, 2, 1, 30, 0, 0, loc)
	assert.Equal(t, "2026-03-01", Day(ts))
}

func TestCheckerLimit(t *testing.T) {
	store := newMemStore()
	c := NewChecker(store, 2, []string{"Eagle Eyes"})
	c.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()
	g := c.ForGuild("g1")
	m := member{id: "u1"}

	for i := 0; i < 2; i++ {
		d, err := g.Allow(ctx, m)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2, d.Limit)
	}

	d, err := g.Allow(ctx, m)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	remaining, err := c.Remaining(ctx, "g1", m)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	// other guilds keep their own counters
	d, err = c.ForGuild("g2").Allow(ctx, m)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	// a new day resets the counter
	c.now = func() time.Time { return time.Date(2026, 10, 20, 0, 0, 1, 0, time.UTC) }
	d, err = g.Allow(ctx, m)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestCheckerBypassRole(t *testing.T) {
	store := newMemStore()
	c := NewChecker(store, 1, []string{"Eagle Eyes"})
	ctx := context.Background()
	m := member{id: "u1", roles: []string{"Red", "eagle eyes"}}

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Consume(ctx, "g1", "u1"))
	}

	d, err := c.ForGuild("g1").Allow(ctx, m)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	remaining, err := c.Remaining(ctx, "g1", m)
	require.NoError(t, err)
	assert.Equal(t, -1, remaining)
}

func TestCheckerAllowIsAtomic(t *testing.T) {
	c := NewChecker(newMemStore(), 3, nil)
	g := c.ForGuild("g1")
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := g.Allow(ctx, member{id: "u1"})
			assert.NoError(t, err)
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, allowed)
}

func TestCheckerUnlimited(t *testing.T) {
	c := NewChecker(nil, 0, nil)
	d, err := c.ForGuild("g1").Allow(context.Background(), member{id: "u1"})
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestCheckerErrors(t *testing.T) {
	ctx := context.Background()

	c := NewChecker(nil, 3, nil)
	_, err := c.ForGuild("g1").Allow(ctx, member{id: "u1"})
	assert.ErrorIs(t, err, ErrNoStore)
	assert.ErrorIs(t, c.Consume(ctx, "g1", "u1"), ErrNoStore)

	store := newMemStore()
	store.err = errors.New("boom")
	c = NewChecker(store, 3, nil)
	_, err = c.ForGuild("g1").Allow(ctx, member{id: "u1"})
	assert.ErrorContains(t, err, "boom")
}

func TestRedisKeyAndExpiry(t *testing.T) {
	assert.Equal(t, "taunt:quota:g1:u1:2026-10-19", redisKey("g1", "u1", "2026-10-19"))

	exp, err := expiresAt("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 20, 1, 0, 0, 0, time.UTC), exp)

	_, err = expiresAt("yesterday")
	assert.Error(t, err)
}
