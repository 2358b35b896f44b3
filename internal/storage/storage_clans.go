package storage

import (
	st "github.com/keshon/clan-taunt/internal/storagetypes"
)

// GetClans returns the guild's clan list and whether one was ever set.
func (s *Storage) GetClans(guildID string) ([]string, bool, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, false, err
	}
	return record.Clans, record.Clans != nil, nil
}

func (s *Storage) SetClans(guildID string, clans []string) error {
	return s.update(guildID, func(record *st.Record) error {
		record.Clans = append([]string{}, clans...)
		return nil
	})
}
