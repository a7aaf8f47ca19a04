package domain

import "time"

type GameState string

const (
	StateWaiting  GameState = "waiting"
	StatePlaying  GameState = "playing"
	StateFinished GameState = "finished"
)

type Variant string

const (
	VariantTicTacToe Variant = "tictactoe"
	VariantQuiz      Variant = "quiz"
)

// вместимость комнаты фиксирована типом игры
func (v Variant) MaxPlayers() int {
	switch v {
	case VariantTicTacToe:
		return 2
	case VariantQuiz:
		return 4
	}
	return 0
}

func (v Variant) Valid() bool {
	return v == VariantTicTacToe || v == VariantQuiz
}

// Player - участник комнаты. Ready имеет смысл только в waiting.
// При обрыве соединения участник остается в списке (Connected=false),
// удаление только через явный leave.
type Player struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Ready     bool   `json:"ready"`
	Score     int    `json:"score"`
	Spectator bool   `json:"spectator"`
	Connected bool   `json:"connected"`
}

// Room - корень агрегата и одновременно форма документа в хранилище.
// HostID всегда идентификатор, никогда не вложенная запись.
type Room struct {
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	Variant    Variant   `json:"variant"`
	Private    bool      `json:"private"`
	HostID     int64     `json:"host_id"`
	Players    []*Player `json:"players"`
	State      GameState `json:"state"`
	Game       *GameData `json:"game,omitempty"`
	MaxPlayers int       `json:"max_players"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Room) Player(userID int64) *Player {
	for _, p := range r.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// активные участники (не зрители) в порядке входа
func (r *Room) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.Spectator {
			out = append(out, p)
		}
	}
	return out
}

// активные и подключенные - именно они должны ответить в раунде
func (r *Room) ActiveConnected() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.Spectator && p.Connected {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) RemovePlayer(userID int64) {
	for i, p := range r.Players {
		if p.UserID == userID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return
		}
	}
}

// Clone делает глубокую копию для асинхронной записи в хранилище,
// чтобы не держать блокировку комнаты на время I/O
func (r *Room) Clone() *Room {
	cp := *r
	cp.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		pc := *p
		cp.Players[i] = &pc
	}
	if r.Game != nil {
		cp.Game = r.Game.Clone()
	}
	return &cp
}
