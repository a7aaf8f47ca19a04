package domain

import "time"

// User - стабильная идентичность, выдается auth-сервисом.
// Движок комнат оперирует только ID.
type User struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Wins        int       `db:"wins" json:"wins"`
	GamesPlayed int       `db:"games_played" json:"games_played"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type ChatMessage struct {
	ID        int64     `db:"id" json:"id"`
	RoomCode  string    `db:"room_code" json:"room_code"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// MatchResult - итог завершенной партии для истории.
// WinnerID nil при ничьей или викторине без единоличного лидера.
type MatchResult struct {
	RoomCode   string        `json:"room_code"`
	Variant    Variant       `json:"variant"`
	WinnerID   *int64        `json:"winner_id,omitempty"`
	Scores     map[int64]int `json:"scores"`
	FinishedAt time.Time     `json:"finished_at"`
}
