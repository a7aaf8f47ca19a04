package room

import (
	"testing"
	"time"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

func TestCountdown_ArmsWhenAllReady(t *testing.T) {
	e := newEnv(t, Config{})
	code := e.createRoom(domain.VariantTicTacToe)
	e.join(code, 1)
	e.join(code, 2)
	e.ready(code, 1)

	if e.bc.count("countdown_tick") != 0 {
		t.Fatalf("отсчет не должен взводиться, пока готовы не все")
	}

	e.ready(code, 2)
	ev, ok := e.bc.last("countdown_tick")
	if !ok {
		t.Fatalf("отсчет должен взвестись по готовности всех")
	}
	if ev.Payload.(map[string]any)["remaining"].(int) != e.m.cfg.CountdownSeconds {
		t.Fatalf("первый тик должен объявить полный отсчет: %+v", ev.Payload)
	}
}

func TestCountdown_CompletesAndStartsGame(t *testing.T) {
	e := newEnv(t, Config{})
	code := e.createRoom(domain.VariantTicTacToe)
	e.join(code, 1)
	e.join(code, 2)
	e.ready(code, 1)
	e.ready(code, 2)

	e.tickCountdown(code, e.m.cfg.CountdownSeconds)
	e.waitUntil(func() bool {
		return e.state(code).State == domain.StatePlaying
	}, "переход в playing")

	s := e.state(code)
	if s.Game == nil || s.Game.TicTacToe == nil {
		t.Fatalf("игра не инициализирована: %+v", s.Game)
	}
	tt := s.Game.TicTacToe
	for i, c := range tt.Board {
		if c != "" {
			t.Fatalf("партия начинается с пустого поля, клетка %d = %q", i, c)
		}
	}
	if tt.Turn != 1 {
		t.Fatalf("первым ходит вошедший первым, получили %d", tt.Turn)
	}
	if e.bc.count("game_started") != 1 {
		t.Fatalf("ожидалось ровно одно событие game_started, %d", e.bc.count("game_started"))
	}
}

func TestCountdown_CancelledOnUnready(t *testing.T) {
	e := newEnv(t, Config{})
	code := e.createRoom(domain.VariantTicTacToe)
	e.join(code, 1)
	e.join(code, 2)
	e.ready(code, 1)
	e.ready(code, 2)

	// два тика прошло, затем игрок передумал
	e.tickCountdown(code, 2)
	e.ready(code, 2)

	if e.bc.count("countdown_cancelled") != 1 {
		t.Fatalf("ожидалась отмена отсчета")
	}

	// снятый отсчет не дотикивает до старта
	e.clock.Advance(time.Duration(e.m.cfg.CountdownSeconds) * time.Second)
	time.Sleep(20 * time.Millisecond)
	if e.bc.count("game_started") != 0 {
		t.Fatalf("партия не должна стартовать после отмены")
	}
	if s := e.state(code); s.State != domain.StateWaiting {
		t.Fatalf("комната должна остаться в ожидании: %s", s.State)
	}
}

func TestCountdown_CancelledOnDisconnect(t *testing.T) {
	e := newEnv(t, Config{})
	code := e.createRoom(domain.VariantTicTacToe)
	e.join(code, 1)
	e.join(code, 2)
	e.ready(code, 1)
	e.ready(code, 2)

	e.m.Disconnect(code, 2)

	if e.bc.count("countdown_cancelled") != 1 {
		t.Fatalf("обрыв готового игрока должен снять отсчет")
	}
}

func TestCountdown_JoinBreaksAllReady(t *testing.T) {
	e := newEnv(t, Config{})
	code := e.createRoom(domain.VariantQuiz)
	e.join(code, 1)
	e.join(code, 2)
	e.ready(code, 1)
	e.ready(code, 2)

	if e.bc.count("countdown_tick") == 0 {
		t.Fatalf("отсчет должен был взвестись")
	}

	// новичок не готов - условие все-готовы рушится
	e.join(code, 3)
	if e.bc.count("countdown_cancelled") != 1 {
		t.Fatalf("вход нового игрока должен снять отсчет")
	}

	// после его готовности отсчет взводится заново, с полного значения
	e.ready(code, 3)
	ev, _ := e.bc.last("countdown_tick")
	if ev.Payload.(map[string]any)["remaining"].(int) != e.m.cfg.CountdownSeconds {
		t.Fatalf("повторное взведение начинается с полного отсчета: %+v", ev.Payload)
	}
}

func TestCountdown_SinglePlayerNeverArms(t *testing.T) {
	e := newEnv(t, Config{})
	code := e.createRoom(domain.VariantTicTacToe)
	e.join(code, 1)
	e.ready(code, 1)

	e.clock.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if e.bc.count("countdown_tick") != 0 || e.bc.count("game_started") != 0 {
		t.Fatalf("один готовый игрок не взводит отсчет")
	}
}
