package room

import (
	"context"
	"time"

	"github.com/Krishit-Shah/multi-game/internal/domain"
	"github.com/Krishit-Shah/multi-game/internal/game"
	"github.com/Krishit-Shah/multi-game/internal/logger"
	"github.com/Krishit-Shah/multi-game/internal/metrics"
)

// бонус победителю настольной игры
const winBonus = 10

// Join подключает пользователя к комнате. Для уже состоящего в ней
// это реконнект: место, готовность и счет сохранены с момента обрыва.
// Вход в идущую или законченную партию дает место зрителя.
func (m *Manager) Join(ctx context.Context, code string, userID int64, username string) error {
	rm, err := m.get(ctx, code)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	s := rm.state

	if p := s.Player(userID); p != nil {
		p.Connected = true
		p.Username = username
		logger.Info("player reconnected", "code", code, "user", userID)
		m.broadcast(rm, Event{Type: "player_reconnected", Payload: map[string]any{"user_id": userID}})
		m.broadcast(rm, Event{Type: "room_snapshot", Payload: snapshotPayload(s)})
		m.persist(rm)
		return nil
	}

	if len(s.Players) >= s.MaxPlayers {
		return ErrRoomFull
	}
	s.Players = append(s.Players, &domain.Player{
		UserID:    userID,
		Username:  username,
		Connected: true,
		Spectator: s.State != domain.StateWaiting,
	})
	logger.Info("player joined", "code", code, "user", userID, "players", len(s.Players))

	m.broadcast(rm, Event{Type: "player_joined", Payload: map[string]any{"user_id": userID, "username": username}})
	m.broadcast(rm, Event{Type: "room_snapshot", Payload: snapshotPayload(s)})

	// новичок не готов, условие все-готовы пересчитывается
	if s.State == domain.StateWaiting {
		m.reevaluateCountdown(rm)
	}
	m.persist(rm)
	return nil
}

// Leave - явный выход: участник удаляется из комнаты.
// Выход активного игрока из идущей настольной партии - техническое
// поражение в пользу оставшегося.
func (m *Manager) Leave(ctx context.Context, code string, userID int64) error {
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
	wasActive := !p.Spectator
	s.RemovePlayer(userID)
	logger.Info("player left", "code", code, "user", userID, "players", len(s.Players))

	if len(s.Players) == 0 {
		m.destroy(rm)
		return nil
	}

	// хост всегда текущий участник
	if s.HostID == userID {
		s.HostID = s.Players[0].UserID
	}

	m.broadcast(rm, Event{Type: "player_left", Payload: map[string]any{"user_id": userID}})

	if s.State == domain.StatePlaying && wasActive && s.Game != nil {
		switch {
		case s.Game.TicTacToe != nil:
			m.forfeitBoard(rm, userID)
		case s.Game.Quiz != nil:
			m.recomputeQuizRound(rm)
		}
	}
	if s.State == domain.StateWaiting {
		m.reevaluateCountdown(rm)
	}

	m.broadcast(rm, Event{Type: "room_snapshot", Payload: snapshotPayload(s)})
	m.persist(rm)
	return nil
}

// Disconnect - обрыв соединения. Участник остается в комнате
// оффлайн; середина раунда викторины пересчитывается без него.
func (m *Manager) Disconnect(code string, userID int64) {
	m.mu.RLock()
	rm, ok := m.rooms[code]
	m.mu.RUnlock()
	if !ok {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	s := rm.state

	p := s.Player(userID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	logger.Info("player disconnected", "code", code, "user", userID)

	m.broadcast(rm, Event{Type: "player_disconnected", Payload: map[string]any{"user_id": userID}})

	if s.State == domain.StateWaiting {
		m.reevaluateCountdown(rm)
	}
	if s.State == domain.StatePlaying && s.Game != nil && s.Game.Quiz != nil {
		m.recomputeQuizRound(rm)
	}
	m.persist(rm)
}

// ToggleReady переключает готовность; имеет смысл только в waiting
func (m *Manager) ToggleReady(ctx context.Context, code string, userID int64) error {
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
	if s.State != domain.StateWaiting || p.Spectator {
		return game.ErrGameNotActive
	}
	p.Ready = !p.Ready

	m.broadcast(rm, Event{Type: "ready_state", Payload: map[string]any{"user_id": userID, "ready": p.Ready}})
	m.reevaluateCountdown(rm)
	m.persist(rm)
	return nil
}

// ApplyMove применяет ход настольной игры. Любой отказ не меняет
// состояние и уходит только инициатору.
func (m *Manager) ApplyMove(ctx context.Context, code string, userID int64, row, col int) error {
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
	if s.State != domain.StatePlaying || s.Game == nil || s.Game.TicTacToe == nil {
		return game.ErrGameNotActive
	}
	if p.Spectator {
		return game.ErrNotYourTurn
	}

	out, err := game.ApplyMove(s.Game.TicTacToe, userID, row, col)
	if err != nil {
		return err
	}
	metrics.MovesApplied.Inc()

	var winnerID *int64
	if out.Finished {
		s.State = domain.StateFinished
		if out.Winner != 0 {
			p.Score += winBonus
			winnerID = &out.Winner
		}
	}

	// броадкаст до долговременной записи: свой ход виден сразу
	m.broadcast(rm, Event{Type: "move_applied", Payload: map[string]any{
		"board":  boardPayload(s.Game.TicTacToe),
		"state":  s.State,
		"scores": scoresPayload(s),
	}})
	if out.Finished {
		rm.timers.CancelAll()
		m.broadcast(rm, Event{Type: "game_finished", Payload: map[string]any{
			"variant": s.Variant,
			"winner":  s.Game.TicTacToe.Winner,
			"draw":    s.Game.TicTacToe.Draw,
			"scores":  scoresPayload(s),
		}})
		m.recordResult(rm, winnerID)
		logger.Info("board game finished", "code", code, "winner", s.Game.TicTacToe.Winner, "draw", out.Draw)
	}
	m.persist(rm)
	return nil
}

// forfeitBoard завершает настольную партию в пользу оставшегося
// активного игрока; вызывается под rm.mu после удаления ушедшего
func (m *Manager) forfeitBoard(rm *Room, leftID int64) {
	s := rm.state
	rm.timers.CancelAll()
	s.State = domain.StateFinished

	var winnerID *int64
	for _, p := range s.ActivePlayers() {
		s.Game.TicTacToe.Winner = p.UserID
		p.Score += winBonus
		id := p.UserID
		winnerID = &id
		break
	}

	m.broadcast(rm, Event{Type: "game_finished", Payload: map[string]any{
		"variant": s.Variant,
		"winner":  s.Game.TicTacToe.Winner,
		"reason":  "opponent_left",
		"scores":  scoresPayload(s),
	}})
	m.recordResult(rm, winnerID)
	logger.Info("board game forfeited", "code", s.Code, "left", leftID)
}

// Restart возвращает комнату в waiting: игра сбрасывается, флаги
// готовности снимаются, зрители становятся игроками, накопленные
// счета сохраняются. Во время идущей партии доступно только хосту.
func (m *Manager) Restart(ctx context.Context, code string, userID int64) error {
	rm, err := m.get(ctx, code)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	s := rm.state

	if s.Player(userID) == nil {
		return ErrNotMember
	}
	if s.State == domain.StatePlaying && s.HostID != userID {
		return ErrRestartForbidden
	}

	rm.timers.CancelAll()
	rm.countdown = 0
	s.State = domain.StateWaiting
	s.Game = nil
	for _, p := range s.Players {
		p.Ready = false
		p.Spectator = false
	}
	logger.Info("room reset", "code", code, "by", userID)

	m.broadcast(rm, Event{Type: "room_snapshot", Payload: snapshotPayload(s)})
	m.persist(rm)
	return nil
}

// Chat пересылает сообщение комнате и сохраняет его как есть
func (m *Manager) Chat(ctx context.Context, code string, userID int64, username, text string) error {
	rm, err := m.get(ctx, code)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.state.Player(userID) == nil {
		return ErrNotMember
	}
	now := m.clock.Now()
	m.broadcast(rm, Event{Type: "chat", Payload: map[string]any{
		"user_id":  userID,
		"username": username,
		"text":     text,
		"at":       now.UnixMilli(),
	}})

	if m.chat != nil {
		msg := &domain.ChatMessage{
			RoomCode:  code,
			UserID:    userID,
			Username:  username,
			Text:      text,
			CreatedAt: now,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.chat.SaveMessage(ctx, msg); err != nil {
				logger.Warn("chat save failed", "code", code, "error", err)
			}
		}()
	}
	return nil
}

// FailGame - аварийный откат: комната возвращается в waiting,
// участники просят re-ready. Комната никогда не остается в
// неопределенном playing.
func (m *Manager) FailGame(code string, reason string) {
	m.mu.RLock()
	rm, ok := m.rooms[code]
	m.mu.RUnlock()
	if !ok {
		return
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	s := rm.state
	if s.State != domain.StatePlaying {
		return
	}

	rm.timers.CancelAll()
	rm.countdown = 0
	s.State = domain.StateWaiting
	s.Game = nil
	for _, p := range s.Players {
		p.Ready = false
	}
	logger.Error("game ended early", "code", code, "reason", reason)

	m.broadcast(rm, Event{Type: "game_aborted", Payload: map[string]any{"reason": reason}})
	m.broadcast(rm, Event{Type: "room_snapshot", Payload: snapshotPayload(s)})
	m.persist(rm)
}

// startGame инициализирует GameData и переводит комнату в playing.
// Вызывается под rm.mu по истечении отсчета готовности.
func (m *Manager) startGame(rm *Room) {
	s := rm.state
	rm.timers.CancelAll()
	rm.countdown = 0

	switch s.Variant {
	case domain.VariantTicTacToe:
		active := s.ActivePlayers()
		ids := make([]int64, len(active))
		for i, p := range active {
			ids[i] = p.UserID
		}
		s.Game = &domain.GameData{
			Variant:   s.Variant,
			TicTacToe: game.NewTicTacToe(ids),
		}
	case domain.VariantQuiz:
		questions, err := game.SampleQuestions(m.cfg.QuestionsPerGame)
		if err != nil {
			// фатально для партии, но не для комнаты: откат в waiting
			logger.Error("quiz init failed", "code", s.Code, "error", err)
			for _, p := range s.Players {
				p.Ready = false
			}
			m.broadcast(rm, Event{Type: "game_aborted", Payload: map[string]any{"reason": "init_failed"}})
			return
		}
		s.Game = &domain.GameData{
			Variant: s.Variant,
			Quiz:    game.NewQuiz(questions),
		}
	}

	s.State = domain.StatePlaying
	metrics.GamesStarted.WithLabelValues(string(s.Variant)).Inc()
	logger.Info("game started", "code", s.Code, "variant", s.Variant)

	m.broadcast(rm, Event{Type: "game_started", Payload: map[string]any{
		"variant": s.Variant,
		"game":    gamePayload(s.Game),
	}})

	if s.Variant == domain.VariantQuiz {
		m.issueQuestion(rm)
	}
	m.persist(rm)
}
