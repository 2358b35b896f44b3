// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"sync"

	st "github.com/keshon/clan-taunt/internal/storagetypes"

	"github.com/keshon/datastore"
)

const (
	commandHistoryLimit int = 20
	tauntLogLimit       int = 20
)

type Storage struct {
	ds     *datastore.DataStore
	cancel context.CancelFunc
	mu     sync.Mutex // serializes read-modify-write of guild records
}

// New opens the datastore at filePath. The autosave loop stops when ctx is
// done or Close is called, whichever comes first.
func New(ctx context.Context, filePath string) (*Storage, error) {
	ctx, cancel := context.WithCancel(ctx)
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		cancel()
		return nil, err
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close stops autosave and flushes the store to disk.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

// getOrCreateGuildRecord returns a copy of the guild's record; callers
// persist changes with putGuildRecord. Callers hold s.mu.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*st.Record, error) {
	var record st.Record
	found, err := s.ds.Get(guildID, &record)
	if err != nil {
		return nil, fmt.Errorf("error reading guild %s: %w", guildID, err)
	}
	normalize(&record)

	if !found {
		if err := s.putGuildRecord(guildID, &record); err != nil {
			return nil, err
		}
	}
	return &record, nil
}

func (s *Storage) putGuildRecord(guildID string, record *st.Record) error {
	if err := s.ds.Set(guildID, record); err != nil {
		return fmt.Errorf("error saving guild %s: %w", guildID, err)
	}
	return nil
}

func normalize(record *st.Record) {
	if record.TauntAnswers == nil {
		record.TauntAnswers = map[string]st.DailyCount{}
	}
	if record.ClanScores == nil {
		record.ClanScores = map[string]st.ClanScore{}
	}
	if len(record.CommandsHistory) > commandHistoryLimit {
		record.CommandsHistory = record.CommandsHistory[len(record.CommandsHistory)-commandHistoryLimit:]
	}
	if len(record.TauntLog) > tauntLogLimit {
		record.TauntLog = record.TauntLog[len(record.TauntLog)-tauntLogLimit:]
	}
}

// update loads the guild record, applies fn and stores the result unless fn fails.
func (s *Storage) update(guildID string, fn func(*st.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	if err := fn(record); err != nil {
		return err
	}
	return s.putGuildRecord(guildID, record)
}

func (s *Storage) view(guildID string) (*st.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateGuildRecord(guildID)
}
