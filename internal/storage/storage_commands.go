package storage

import (
	"time"

	st "github.com/keshon/clan-taunt/internal/storagetypes"
)

// SetCommand appends a command execution to the guild's history.
func (s *Storage) SetCommand(guildID, channelID, channelName, guildName, userID, username, command string) error {
	return s.update(guildID, func(record *st.Record) error {
		record.CommandsHistory = append(record.CommandsHistory, st.CommandHistory{
			ChannelID:   channelID,
			ChannelName: channelName,
			GuildName:   guildName,
			UserID:      userID,
			Username:    username,
			Command:     command,
			Datetime:    time.Now(),
		})
		if len(record.CommandsHistory) > commandHistoryLimit {
			record.CommandsHistory = record.CommandsHistory[len(record.CommandsHistory)-commandHistoryLimit:]
		}
		return nil
	})
}

func (s *Storage) GetCommandsHistory(guildID string) ([]st.CommandHistory, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistory, nil
}
