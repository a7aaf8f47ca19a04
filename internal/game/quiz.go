package game

import (
	"time"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

const (
	// очки за правильный ответ и бонус за быстрый
	CorrectPoints = 10
	FastBonus     = 5
)

// NewQuiz создает викторину в фазе ожидания первого вопроса
func NewQuiz(questions []domain.Question) *domain.QuizState {
	return &domain.QuizState{
		Questions: questions,
		Round:     0,
		Phase:     domain.PhaseAwaitingStart,
	}
}

// SubmitAnswer записывает ответ. Дубликаты и устаревшие раунды
// молча игнорируются - клиент мог ретрансмитить.
// Возвращает true если ответ принят.
func SubmitAnswer(s *domain.QuizState, playerID int64, round, option int, elapsed time.Duration) bool {
	if s.Phase != domain.PhaseQuestionActive || round != s.Round {
		return false
	}
	if option < 0 || option >= len(s.Questions[s.Round].Options) {
		return false
	}
	for _, a := range s.Answers {
		if a.UserID == playerID && a.Round == round {
			return false
		}
	}
	s.Answers = append(s.Answers, domain.Answer{
		UserID:    playerID,
		Round:     round,
		Option:    option,
		ElapsedMs: elapsed.Milliseconds(),
	})
	return true
}

// AllAnswered - ответили ли все перечисленные игроки в текущем раунде
func AllAnswered(s *domain.QuizState, playerIDs []int64) bool {
	if len(playerIDs) == 0 {
		return false
	}
	for _, id := range playerIDs {
		if !hasAnswer(s, id, s.Round) {
			return false
		}
	}
	return true
}

func hasAnswer(s *domain.QuizState, playerID int64, round int) bool {
	for _, a := range s.Answers {
		if a.UserID == playerID && a.Round == round {
			return true
		}
	}
	return false
}

// RoundAnswers - ответы текущего раунда
func RoundAnswers(s *domain.QuizState, round int) []domain.Answer {
	out := make([]domain.Answer, 0, len(s.Answers))
	for _, a := range s.Answers {
		if a.Round == round {
			out = append(out, a)
		}
	}
	return out
}

// Missing - активные игроки, не ответившие в раунде
func Missing(s *domain.QuizState, round int, playerIDs []int64) []int64 {
	var out []int64
	for _, id := range playerIDs {
		if !hasAnswer(s, id, round) {
			out = append(out, id)
		}
	}
	return out
}

// ScoreRound начисляет очки за текущий раунд: +10 за правильный
// вариант, +5 если серверное время ответа не превышает fastLimit
// (включительно). Не ответившие не получают ничего.
func ScoreRound(s *domain.QuizState, fastLimit time.Duration) map[int64]int {
	points := make(map[int64]int)
	correct := s.Questions[s.Round].Correct
	for _, a := range RoundAnswers(s, s.Round) {
		if a.Option != correct {
			continue
		}
		pts := CorrectPoints
		if a.ElapsedMs <= fastLimit.Milliseconds() {
			pts += FastBonus
		}
		points[a.UserID] = pts
	}
	return points
}

// AnswerKeyEntry - строка финальной сводки по раунду
type AnswerKeyEntry struct {
	Round   int      `json:"round"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// AnswerKey - полный ключ ответов для финального сообщения
func AnswerKey(s *domain.QuizState) []AnswerKeyEntry {
	key := make([]AnswerKeyEntry, len(s.Questions))
	for i, q := range s.Questions {
		key[i] = AnswerKeyEntry{Round: i, Prompt: q.Prompt, Options: q.Options, Correct: q.Correct}
	}
	return key
}
