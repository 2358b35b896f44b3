package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	st "github.com/keshon/clan-taunt/internal/storagetypes"

	"github.com/keshon/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestQuotaCounters(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	n, err := s.Count(ctx, "g1", "u1", "2026-10-19")
	require.NoError(t, err)
	assert.Zero(t, n)

	for want := 1; want <= 3; want++ {
		n, err = s.Increment(ctx, "g1", "u1", "2026-10-19")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	n, err = s.Count(ctx, "g1", "u1", "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// a new day starts over
	n, err = s.Increment(ctx, "g1", "u1", "2026-10-20")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Count(ctx, "g1", "u1", "2026-10-19")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIncrementWithinStopsAtLimit(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for want := 1; want <= 2; want++ {
		n, ok, err := s.IncrementWithin(ctx, "g1", "u1", "2026-10-19", 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, want, n)
	}

	n, ok, err := s.IncrementWithin(ctx, "g1", "u1", "2026-10-19", 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, n)

	// yesterday's counter does not count against today
	n, ok, err = s.IncrementWithin(ctx, "g1", "u1", "2026-10-20", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestIncrementWithinConcurrent(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	const limit = 3

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := s.IncrementWithin(ctx, "g1", "u1", "2026-10-19", limit)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, limit, granted)
	n, err := s.Count(ctx, "g1", "u1", "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, limit, n)
}

func TestCloseFlushesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")
	ctx := context.Background()

	s, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetClans("g1", []string{"Red", "Blue"}))
	_, err = s.Increment(ctx, "g1", "u1", "2026-10-19")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Close() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}

	s, err = New(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clans, set, err := s.GetClans("g1")
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, []string{"Red", "Blue"}, clans)

	n, err := s.Count(ctx, "g1", "u1", "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWritesAfterCloseFail(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.AddTauntSent("g1", "Red"), datastore.ErrClosed)
	_, err = s.Increment(context.Background(), "g1", "u1", "2026-10-19")
	assert.ErrorIs(t, err, datastore.ErrClosed)
}

func TestClearStaleQuotas(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	_, err := s.Increment(ctx, "g1", "u1", "2026-10-18")
	require.NoError(t, err)
	_, err = s.Increment(ctx, "g1", "u2", "2026-10-19")
	require.NoError(t, err)
	_, err = s.Increment(ctx, "g2", "u1", "2026-10-17")
	require.NoError(t, err)

	removed, err := s.ClearStaleQuotas("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	n, err := s.Count(ctx, "g1", "u2", "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClans(t *testing.T) {
	s := newTestStorage(t)

	clans, set, err := s.GetClans("g1")
	require.NoError(t, err)
	assert.False(t, set)
	assert.Empty(t, clans)

	require.NoError(t, s.SetClans("g1", []string{"Red", "Blue"}))
	clans, set, err = s.GetClans("g1")
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, []string{"Red", "Blue"}, clans)

	require.NoError(t, s.SetClans("g1", nil))
	clans, set, err = s.GetClans("g1")
	require.NoError(t, err)
	assert.True(t, set, "an emptied list still overrides the defaults")
	assert.Empty(t, clans)
}

func TestTauntScoresAndLog(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AddTauntSent("g1", "Red"))
	require.NoError(t, s.AddTauntSent("g1", "Red"))

	for i := 0; i < tauntLogLimit+5; i++ {
		require.NoError(t, s.RecordTaunt("g1", st.TauntRecord{
			SenderID:      "u1",
			ResponderID:   "u2",
			SenderClan:    "Red",
			ResponderClan: "Blue",
			AnsweredAt:    time.Now(),
		}))
	}

	scores, err := s.GetClanScores("g1")
	require.NoError(t, err)
	assert.Equal(t, st.ClanScore{Sent: 2}, scores["Red"])
	assert.Equal(t, st.ClanScore{Answered: tauntLogLimit + 5}, scores["Blue"])

	log, err := s.GetTauntLog("g1")
	require.NoError(t, err)
	assert.Len(t, log, tauntLogLimit)
}

func TestCommandHistoryIsCapped(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+3; i++ {
		require.NoError(t, s.SetCommand("g1", "c1", "general", "Guild", "u1", "user", "taunt"))
	}

	history, err := s.GetCommandsHistory("g1")
	require.NoError(t, err)
	assert.Len(t, history, commandHistoryLimit)
	assert.Equal(t, "taunt", history[0].Command)
}
