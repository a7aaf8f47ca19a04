package room

import (
	"time"

	"github.com/Krishit-Shah/multi-game/internal/domain"
	"github.com/Krishit-Shah/multi-game/internal/logger"
)

// reevaluateCountdown пересчитывает условие все-готовы. Вызывается
// под rm.mu на каждом входе, выходе, обрыве и переключении
// готовности, пока комната в waiting.
//
// Взведение: не меньше двух активных подключенных игроков и все они
// готовы. Вход нового игрока отсчет не перезапускает - новичок не
// готов, условие рушится и отсчет снимается.
func (m *Manager) reevaluateCountdown(rm *Room) {
	ready := allReady(rm.state)

	switch {
	case ready && rm.countdown == 0:
		rm.countdown = m.cfg.CountdownSeconds
		logger.Info("countdown armed", "code", rm.state.Code, "seconds", rm.countdown)
		m.scheduleCountdownTick(rm)
		m.broadcast(rm, Event{Type: "countdown_tick", Payload: map[string]any{"remaining": rm.countdown}})

	case !ready && rm.countdown > 0:
		rm.countdown = 0
		rm.timers.CancelAll()
		logger.Info("countdown cancelled", "code", rm.state.Code)
		m.broadcast(rm, Event{Type: "countdown_cancelled"})
	}
}

func allReady(s *domain.Room) bool {
	active := s.ActiveConnected()
	if len(active) < 2 {
		return false
	}
	for _, p := range active {
		if !p.Ready {
			return false
		}
	}
	return true
}

func (m *Manager) scheduleCountdownTick(rm *Room) {
	rm.timers.Schedule(timerCountdown, time.Second, func(epoch int64) {
		m.onCountdownTick(rm, epoch)
	})
}

// onCountdownTick - секундный тик отсчета. Устаревшая эпоха
// означает, что отсчет был снят после срабатывания таймера.
func (m *Manager) onCountdownTick(rm *Room, epoch int64) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if epoch != rm.timers.Epoch() {
		return
	}
	if rm.state.State != domain.StateWaiting || rm.countdown == 0 {
		return
	}

	rm.countdown--
	if rm.countdown == 0 {
		m.startGame(rm)
		return
	}
	// следующий тик ставится до броадкаста текущего
	m.scheduleCountdownTick(rm)
	m.broadcast(rm, Event{Type: "countdown_tick", Payload: map[string]any{"remaining": rm.countdown}})
}
