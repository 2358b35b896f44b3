package storage

import (
	"context"
	"fmt"

	"github.com/keshon/clan-taunt/internal/quota"
	st "github.com/keshon/clan-taunt/internal/storagetypes"
)

var _ quota.Store = (*Storage)(nil)

// Count returns how many taunts the user answered on day.
func (s *Storage) Count(_ context.Context, guildID, userID, day string) (int, error) {
	record, err := s.view(guildID)
	if err != nil {
		return 0, err
	}
	entry, ok := record.TauntAnswers[userID]
	if !ok || entry.Day != day {
		return 0, nil
	}
	return entry.Count, nil
}

// Increment bumps the user's counter for day, starting over when the stored day differs.
func (s *Storage) Increment(_ context.Context, guildID, userID, day string) (int, error) {
	var count int
	err := s.update(guildID, func(record *st.Record) error {
		entry := record.TauntAnswers[userID]
		if entry.Day != day {
			entry = st.DailyCount{Day: day}
		}
		entry.Count++
		record.TauntAnswers[userID] = entry
		count = entry.Count
		return nil
	})
	return count, err
}

// IncrementWithin bumps the user's counter for day only while it is below
// limit. It returns the resulting count and whether the increment happened.
func (s *Storage) IncrementWithin(_ context.Context, guildID, userID, day string, limit int) (int, bool, error) {
	var (
		count int
		ok    bool
	)
	err := s.update(guildID, func(record *st.Record) error {
		entry := record.TauntAnswers[userID]
		if entry.Day != day {
			entry = st.DailyCount{Day: day}
		}
		count = entry.Count
		if count >= limit {
			return nil
		}
		entry.Count++
		record.TauntAnswers[userID] = entry
		count, ok = entry.Count, true
		return nil
	})
	return count, ok, err
}

// AddTauntSent counts a taunt posted by clan.
func (s *Storage) AddTauntSent(guildID, clan string) error {
	return s.update(guildID, func(record *st.Record) error {
		score := record.ClanScores[clan]
		score.Sent++
		record.ClanScores[clan] = score
		return nil
	})
}

// RecordTaunt logs an answered taunt and credits the responding clan.
func (s *Storage) RecordTaunt(guildID string, taunt st.TauntRecord) error {
	return s.update(guildID, func(record *st.Record) error {
		record.TauntLog = append(record.TauntLog, taunt)
		if len(record.TauntLog) > tauntLogLimit {
			record.TauntLog = record.TauntLog[len(record.TauntLog)-tauntLogLimit:]
		}

		score := record.ClanScores[taunt.ResponderClan]
		score.Answered++
		record.ClanScores[taunt.ResponderClan] = score
		return nil
	})
}

func (s *Storage) GetClanScores(guildID string) (map[string]st.ClanScore, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.ClanScores, nil
}

func (s *Storage) GetTauntLog(guildID string) ([]st.TauntRecord, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.TauntLog, nil
}

// ClearStaleQuotas drops answer counters that belong to a day other than today.
// It returns how many counters were removed.
func (s *Storage) ClearStaleQuotas(today string) (int, error) {
	removed := 0
	for _, guildID := range s.ds.Keys() {
		err := s.update(guildID, func(record *st.Record) error {
			for userID, entry := range record.TauntAnswers {
				if entry.Day != today {
					delete(record.TauntAnswers, userID)
					removed++
				}
			}
			return nil
		})
		if err != nil {
			return removed, fmt.Errorf("error clearing quotas for guild %s: %w", guildID, err)
		}
	}
	return removed, nil
}
