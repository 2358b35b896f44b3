package storagetypes

import (
	"time"
)

type CommandHistory struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

// DailyCount is a per-member counter that resets when Day changes.
type DailyCount struct {
	Day   string `json:"day"` // YYYY-MM-DD, UTC
	Count int    `json:"count"`
}

type TauntRecord struct {
	SenderID      string    `json:"sender_id"`
	ResponderID   string    `json:"responder_id"`
	SenderClan    string    `json:"sender_clan"`
	ResponderClan string    `json:"responder_clan"`
	AnsweredAt    time.Time `json:"answered_at"`
}

type ClanScore struct {
	Sent     int `json:"sent"`
	Answered int `json:"answered"`
}

type Record struct {
	Clans           []string              `json:"clans"`
	TauntAnswers    map[string]DailyCount `json:"taunt_answers"` // key = userID
	TauntLog        []TauntRecord         `json:"taunt_log"`
	ClanScores      map[string]ClanScore  `json:"clan_scores"` // key = clan display name
	CommandsHistory []CommandHistory      `json:"commands_history"`
}
