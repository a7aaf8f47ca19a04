package room

import (
	"context"
	"time"

	"github.com/Krishit-Shah/multi-game/internal/domain"
	"github.com/Krishit-Shah/multi-game/internal/game"
	"github.com/Krishit-Shah/multi-game/internal/logger"
	"github.com/Krishit-Shah/multi-game/internal/metrics"
)

// issueQuestion выдает текущий вопрос: фиксирует момент выдачи,
// взводит таймаут раунда и рассылает вопрос без правильного
// варианта. Вызывается под rm.mu.
func (m *Manager) issueQuestion(rm *Room) {
	s := rm.state.Game.Quiz
	rm.timers.CancelAll()

	s.Phase = domain.PhaseQuestionActive
	s.IssuedAt = m.clock.Now()
	logger.Info("question issued", "code", rm.state.Code, "round", s.Round)

	rm.timers.Schedule(timerQuestion, time.Duration(m.cfg.QuestionSeconds)*time.Second, func(epoch int64) {
		m.onQuestionTimeout(rm, epoch)
	})
	m.broadcast(rm, Event{Type: "question", Payload: questionPayload(s, m.cfg.QuestionSeconds)})
	m.persist(rm)
}

// SubmitAnswer принимает ответ игрока. Время ответа считается
// сервером от момента выдачи - клиентским таймингам не доверяем.
// Дубликат молча игнорируется; раунд вне фазы вопроса - stale.
// Когда ответили все активные подключенные, раунд обрабатывается
// сразу, опережая таймаут.
func (m *Manager) SubmitAnswer(ctx context.Context, code string, userID int64, round, option int) error {
	rm, err := m.get(ctx, code)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	s := rm.state

	p := s.Player(userID)
	if p == nil {
		return ErrNotMember
	}
	if s.State != domain.StatePlaying || s.Game == nil || s.Game.Quiz == nil {
		return game.ErrGameNotActive
	}
	q := s.Game.Quiz
	if q.Phase != domain.PhaseQuestionActive || round != q.Round {
		return game.ErrStaleRound
	}
	if p.Spectator {
		return game.ErrGameNotActive
	}
	if option < 0 || option >= len(q.Questions[q.Round].Options) {
		return game.ErrBadOption
	}

	elapsed := m.clock.Since(q.IssuedAt)
	if !game.SubmitAnswer(q, userID, round, option, elapsed) {
		// повторная отправка того же раунда - ретрансмит, не ошибка
		return nil
	}
	metrics.AnswersSubmitted.Inc()
	logger.Debug("answer accepted", "code", code, "user", userID, "round", round, "elapsed_ms", elapsed.Milliseconds())

	if game.AllAnswered(q, activeIDs(s)) {
		m.processRound(rm, false)
	}
	return nil
}

func activeIDs(s *domain.Room) []int64 {
	active := s.ActiveConnected()
	ids := make([]int64, len(active))
	for i, p := range active {
		ids[i] = p.UserID
	}
	return ids
}

// onQuestionTimeout - таймаут раунда; устаревшая эпоха значит,
// что раунд уже обработан по общему ответу
func (m *Manager) onQuestionTimeout(rm *Room, epoch int64) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if epoch != rm.timers.Epoch() {
		return
	}
	s := rm.state
	if s.State != domain.StatePlaying || s.Game == nil || s.Game.Quiz == nil {
		return
	}
	if s.Game.Quiz.Phase != domain.PhaseQuestionActive {
		return
	}
	m.processRound(rm, true)
}

// processRound закрывает раунд: снимает таймаут, начисляет очки,
// рассылает разбор и взводит паузу показа результатов.
// Вызывается под rm.mu - либо по общему ответу, либо по таймауту.
func (m *Manager) processRound(rm *Room, timedOut bool) {
	s := rm.state
	q := s.Game.Quiz
	rm.timers.CancelAll()

	ids := activeIDs(s)
	if timedOut {
		if missing := game.Missing(q, q.Round, ids); len(missing) > 0 {
			m.broadcast(rm, Event{Type: "round_skipped", Payload: map[string]any{
				"round":   q.Round,
				"missing": missing,
			}})
		}
	}

	points := game.ScoreRound(q, time.Duration(m.cfg.FastAnswerSeconds)*time.Second)
	for _, p := range s.Players {
		if pts, ok := points[p.UserID]; ok {
			p.Score += pts
		}
	}
	q.Phase = domain.PhaseResultsDisplay
	logger.Info("round processed", "code", s.Code, "round", q.Round, "timed_out", timedOut, "answers", len(game.RoundAnswers(q, q.Round)))

	rm.timers.Schedule(timerAdvance, time.Duration(m.cfg.ResultsSeconds)*time.Second, func(epoch int64) {
		m.onAdvance(rm, epoch)
	})
	m.broadcast(rm, Event{Type: "round_result", Payload: map[string]any{
		"round":   q.Round,
		"correct": q.Questions[q.Round].Correct,
		"answers": game.RoundAnswers(q, q.Round),
		"points":  points,
		"scores":  scoresPayload(s),
	}})
	m.persist(rm)
}

// onAdvance - конец паузы результатов: следующий вопрос или финал
func (m *Manager) onAdvance(rm *Room, epoch int64) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if epoch != rm.timers.Epoch() {
		return
	}
	s := rm.state
	if s.State != domain.StatePlaying || s.Game == nil || s.Game.Quiz == nil {
		return
	}
	q := s.Game.Quiz
	if q.Phase != domain.PhaseResultsDisplay {
		return
	}

	if q.Round+1 < len(q.Questions) {
		q.Round++
		m.issueQuestion(rm)
		return
	}
	m.finishQuiz(rm)
}

// finishQuiz завершает викторину: финальные счета плюс полный ключ
// ответов за все раунды. Комната остается пригодной для чата.
// Вызывается под rm.mu.
func (m *Manager) finishQuiz(rm *Room) {
	s := rm.state
	q := s.Game.Quiz
	rm.timers.CancelAll()

	q.Phase = domain.PhaseFinished
	s.State = domain.StateFinished

	winnerID := topScorer(s)
	payload := map[string]any{
		"variant":    s.Variant,
		"scores":     scoresPayload(s),
		"answer_key": answerKeyPayload(q),
	}
	if winnerID != nil {
		payload["winner"] = *winnerID
	}
	m.broadcast(rm, Event{Type: "game_finished", Payload: payload})
	m.recordResult(rm, winnerID)
	logger.Info("quiz finished", "code", s.Code, "rounds", len(q.Questions))
	m.persist(rm)
}

// единоличный лидер по очкам, nil при дележе первого места
func topScorer(s *domain.Room) *int64 {
	var best *int64
	bestScore := -1
	tied := false
	for _, p := range s.Players {
		if p.Spectator {
			continue
		}
		switch {
		case p.Score > bestScore:
			id := p.UserID
			best = &id
			bestScore = p.Score
			tied = false
		case p.Score == bestScore:
			tied = true
		}
	}
	if tied || bestScore <= 0 {
		return nil
	}
	return best
}

// recomputeQuizRound пересчитывает раунд после ухода или обрыва:
// пустой активный состав сразу завершает игру, состав с полным
// набором ответов обрабатывается немедленно. Вызывается под rm.mu.
func (m *Manager) recomputeQuizRound(rm *Room) {
	q := rm.state.Game.Quiz
	if q.Phase != domain.PhaseQuestionActive {
		return
	}
	ids := activeIDs(rm.state)
	if len(ids) == 0 {
		m.finishQuiz(rm)
		return
	}
	if game.AllAnswered(q, ids) {
		m.processRound(rm, false)
	}
}
