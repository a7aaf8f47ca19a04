package room

import (
	"github.com/Krishit-Shah/multi-game/internal/domain"
	"github.com/Krishit-Shah/multi-game/internal/game"
)

// Event - исходящее уведомление подписчикам комнаты
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Broadcaster доставляет события всем соединениям, подписанным
// на комнату. Реализация не должна блокировать вызывающего.
type Broadcaster interface {
	BroadcastRoom(code string, ev Event)
}

// snapshotPayload - проекция комнаты для клиентов.
// Секреты (правильные ответы викторины) в нее не попадают.
func snapshotPayload(r *domain.Room) map[string]any {
	players := make([]map[string]any, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, map[string]any{
			"user_id":   p.UserID,
			"username":  p.Username,
			"ready":     p.Ready,
			"score":     p.Score,
			"spectator": p.Spectator,
			"connected": p.Connected,
		})
	}
	return map[string]any{
		"code":        r.Code,
		"name":        r.Name,
		"variant":     r.Variant,
		"private":     r.Private,
		"host_id":     r.HostID,
		"state":       r.State,
		"max_players": r.MaxPlayers,
		"players":     players,
		"game":        gamePayload(r.Game),
	}
}

func gamePayload(g *domain.GameData) any {
	if g == nil {
		return nil
	}
	switch {
	case g.TicTacToe != nil:
		return boardPayload(g.TicTacToe)
	case g.Quiz != nil:
		// вопросы и ответы наружу не отдаем, только позицию в игре
		return map[string]any{
			"variant":      g.Variant,
			"phase":        g.Quiz.Phase,
			"round":        g.Quiz.Round,
			"total_rounds": len(g.Quiz.Questions),
		}
	}
	return nil
}

func boardPayload(s *domain.TicTacToeState) map[string]any {
	return map[string]any{
		"variant": domain.VariantTicTacToe,
		"board":   s.Board,
		"turn":    s.Turn,
		"winner":  s.Winner,
		"draw":    s.Draw,
		"marks":   s.Marks,
	}
}

func scoresPayload(r *domain.Room) map[int64]int {
	scores := make(map[int64]int, len(r.Players))
	for _, p := range r.Players {
		if !p.Spectator {
			scores[p.UserID] = p.Score
		}
	}
	return scores
}

func questionPayload(s *domain.QuizState, limitSeconds int) map[string]any {
	q := s.Questions[s.Round]
	return map[string]any{
		"round":         s.Round,
		"total_rounds":  len(s.Questions),
		"prompt":        q.Prompt,
		"options":       q.Options,
		"limit_seconds": limitSeconds,
	}
}

func answerKeyPayload(s *domain.QuizState) []game.AnswerKeyEntry {
	return game.AnswerKey(s)
}
