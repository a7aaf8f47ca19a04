package domain

import "time"

// GameData - размеченное объединение, ровно одно поле не nil в
// зависимости от Variant. Движки двух игр не видят чужих полей.
type GameData struct {
	Variant   Variant         `json:"variant"`
	TicTacToe *TicTacToeState `json:"tictactoe,omitempty"`
	Quiz      *QuizState      `json:"quiz,omitempty"`
}

func (g *GameData) Clone() *GameData {
	cp := *g
	if g.TicTacToe != nil {
		tt := *g.TicTacToe
		tt.Marks = make(map[int64]string, len(g.TicTacToe.Marks))
		for k, v := range g.TicTacToe.Marks {
			tt.Marks[k] = v
		}
		tt.Order = append([]int64(nil), g.TicTacToe.Order...)
		cp.TicTacToe = &tt
	}
	if g.Quiz != nil {
		q := *g.Quiz
		q.Questions = append([]Question(nil), g.Quiz.Questions...)
		q.Answers = append([]Answer(nil), g.Quiz.Answers...)
		cp.Quiz = &q
	}
	return &cp
}

// TicTacToeState - поле 3x3, ход хранится как id игрока.
// Непустая клетка никогда не перезаписывается.
type TicTacToeState struct {
	Board  [9]string        `json:"board"`
	Turn   int64            `json:"turn"`
	Winner int64            `json:"winner,omitempty"`
	Marks  map[int64]string `json:"marks"`
	Order  []int64          `json:"order"`
	Draw   bool             `json:"draw,omitempty"`
}

type QuizPhase string

const (
	PhaseAwaitingStart  QuizPhase = "awaiting_start"
	PhaseQuestionActive QuizPhase = "question_active"
	PhaseResultsDisplay QuizPhase = "results_display"
	PhaseFinished       QuizPhase = "finished"
)

type Question struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// Answer - ответ игрока в раунде. ElapsedMs считается сервером
// от момента выдачи вопроса, клиентскому времени не доверяем.
type Answer struct {
	UserID    int64 `json:"user_id"`
	Round     int   `json:"round"`
	Option    int   `json:"option"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// QuizState - состояние викторины. Round только растет,
// не больше одного Answer на пару (игрок, раунд).
type QuizState struct {
	Questions []Question `json:"questions"`
	Round     int        `json:"round"`
	Phase     QuizPhase  `json:"phase"`
	IssuedAt  time.Time  `json:"issued_at"`
	Answers   []Answer   `json:"answers"`
}
