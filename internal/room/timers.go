package room

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Krishit-Shah/multi-game/internal/metrics"
)

// назначения таймеров комнаты
const (
	timerCountdown = "countdown"
	timerQuestion  = "question"
	timerAdvance   = "advance"
)

// Registry владеет всеми отложенными колбэками одной комнаты.
// Каждый колбэк получает эпоху, зафиксированную при постановке;
// исполнитель обязан сверить ее с текущей уже под блокировкой
// комнаты - так уже выстреливший, но еще не обработанный таймер
// становится no-op после CancelAll.
type Registry struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	epoch  int64
	timers map[string]clockwork.Timer
}

func NewRegistry(clock clockwork.Clock) *Registry {
	return &Registry{
		clock:  clock,
		timers: make(map[string]clockwork.Timer),
	}
}

// Schedule ставит таймер, снимая прежний с тем же назначением
func (t *Registry) Schedule(purpose string, d time.Duration, fn func(epoch int64)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if old, ok := t.timers[purpose]; ok {
		old.Stop()
	}
	epoch := t.epoch
	t.timers[purpose] = t.clock.AfterFunc(d, func() {
		metrics.TimersFired.Inc()
		fn(epoch)
	})
	metrics.TimersScheduled.Inc()
}

func (t *Registry) Cancel(purpose string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, ok := t.timers[purpose]; ok {
		timer.Stop()
		delete(t.timers, purpose)
		metrics.TimersCancelled.Inc()
	}
}

// CancelAll снимает все таймеры комнаты и поднимает эпоху.
// Вызывается перед каждым переходом стадии, до постановки нового
// таймера - дубликаты и опоздавшие срабатывания исключены структурно.
func (t *Registry) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for purpose, timer := range t.timers {
		timer.Stop()
		delete(t.timers, purpose)
		metrics.TimersCancelled.Inc()
	}
	t.epoch++
}

func (t *Registry) Epoch() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch
}
