package room

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("не дождались: %s", msg)
}

func TestRegistry_ScheduleFires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(clock)

	var fired atomic.Int64
	reg.Schedule(timerQuestion, 5*time.Second, func(epoch int64) {
		fired.Store(epoch + 1)
	})

	clock.Advance(4 * time.Second)
	time.Sleep(10 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("таймер выстрелил раньше срока")
	}

	clock.Advance(time.Second)
	waitFor(t, func() bool { return fired.Load() != 0 }, "срабатывание таймера")
	// колбэк получил эпоху момента постановки
	if fired.Load() != 1 {
		t.Fatalf("ожидалась эпоха 0, получили %d", fired.Load()-1)
	}
}

func TestRegistry_CancelAllStopsTimersAndBumpsEpoch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(clock)

	var fired atomic.Int64
	reg.Schedule(timerQuestion, time.Second, func(int64) { fired.Add(1) })
	reg.Schedule(timerAdvance, time.Second, func(int64) { fired.Add(1) })

	before := reg.Epoch()
	reg.CancelAll()
	if reg.Epoch() != before+1 {
		t.Fatalf("CancelAll должен поднять эпоху: %d -> %d", before, reg.Epoch())
	}

	clock.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("снятые таймеры не должны срабатывать, %d", fired.Load())
	}
}

func TestRegistry_StaleEpochDetectable(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(clock)

	var got atomic.Int64
	got.Store(-1)
	reg.Schedule(timerCountdown, time.Second, func(epoch int64) { got.Store(epoch) })

	// эпоха зафиксирована при постановке; перестановка через
	// CancelAll делает ее устаревшей
	reg.CancelAll()
	reg.Schedule(timerCountdown, time.Second, func(epoch int64) { got.Store(epoch) })

	clock.Advance(time.Second)
	waitFor(t, func() bool { return got.Load() != -1 }, "срабатывание таймера")
	if got.Load() != reg.Epoch() {
		t.Fatalf("живой колбэк несет текущую эпоху: %d != %d", got.Load(), reg.Epoch())
	}
}

func TestRegistry_ScheduleReplacesSamePurpose(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(clock)

	var first, second atomic.Int64
	reg.Schedule(timerQuestion, time.Second, func(int64) { first.Add(1) })
	reg.Schedule(timerQuestion, time.Second, func(int64) { second.Add(1) })

	clock.Advance(time.Second)
	waitFor(t, func() bool { return second.Load() == 1 }, "срабатывание замены")
	time.Sleep(10 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("замененный таймер того же назначения не должен срабатывать")
	}
}

func TestRegistry_Cancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(clock)

	var fired atomic.Int64
	reg.Schedule(timerQuestion, time.Second, func(int64) { fired.Add(1) })
	reg.Cancel(timerQuestion)

	clock.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("снятый таймер не должен срабатывать")
	}
	// Cancel точечный и эпоху не трогает
	if reg.Epoch() != 0 {
		t.Fatalf("Cancel не должен менять эпоху: %d", reg.Epoch())
	}
}
