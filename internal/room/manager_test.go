package room

import (
	"context"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

// fakeStore - хранилище документов комнат в памяти
type fakeStore struct {
	mu   sync.Mutex
	docs map[string]*domain.Room
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*domain.Room)}
}

func (f *fakeStore) Load(ctx context.Context, code string) (*domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[code]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (f *fakeStore) Upsert(ctx context.Context, r *domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[r.Code] = r
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, code)
	return nil
}

func (f *fakeStore) PublicCodes(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var codes []string
	for code, doc := range f.docs {
		if !doc.Private && doc.State == domain.StateWaiting {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

func (f *fakeStore) state(code string) domain.GameState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc, ok := f.docs[code]; ok {
		return doc.State
	}
	return ""
}

func TestManager_RestoreFromStore(t *testing.T) {
	store := newFakeStore()
	clock := clockwork.NewFakeClock()
	e := &env{
		t:     t,
		ctx:   context.Background(),
		clock: clock,
		bc:    &fakeBroadcaster{},
	}
	e.m = NewManager(Config{}, clock, e.bc, store, nil, nil)

	code := e.startBoard()

	// запись асинхронная, дожидаемся снимка идущей партии
	e.waitUntil(func() bool { return store.state(code) == domain.StatePlaying }, "запись снимка")

	// новый процесс: комнаты в памяти нет, документ поднимается
	// из хранилища, прерванная партия не продолжается
	m2 := NewManager(Config{}, clock, &fakeBroadcaster{}, store, nil, nil)
	s, err := m2.State(e.ctx, code)
	if err != nil {
		t.Fatalf("комната не восстановилась: %v", err)
	}
	if s.State != domain.StateWaiting || s.Game != nil {
		t.Fatalf("восстановленная комната всегда в ожидании: %s game=%v", s.State, s.Game)
	}
	if len(s.Players) != 2 {
		t.Fatalf("состав должен сохраниться: %d", len(s.Players))
	}
	for _, p := range s.Players {
		if p.Ready || p.Connected {
			t.Fatalf("готовность и подключенность после рестарта сброшены: %+v", p)
		}
	}
}

func TestManager_ListPublicRestoresFromIndex(t *testing.T) {
	store := newFakeStore()
	clock := clockwork.NewFakeClock()
	bc := &fakeBroadcaster{}
	e := &env{t: t, ctx: context.Background(), clock: clock, bc: bc}
	e.m = NewManager(Config{}, clock, bc, store, nil, nil)

	code := e.createRoom(domain.VariantTicTacToe)
	e.waitUntil(func() bool { return store.state(code) == domain.StateWaiting }, "запись документа")

	// холодный процесс: комнат в памяти нет, список поднимается
	// через индекс публичных кодов
	m2 := NewManager(Config{}, clock, &fakeBroadcaster{}, store, nil, nil)
	list := m2.ListPublic(e.ctx)
	if len(list) != 1 || list[0].Code != code {
		t.Fatalf("список после рестарта должен восстановиться из индекса: %+v", list)
	}

	// повторный вызов обслуживается уже из памяти
	if list := m2.ListPublic(e.ctx); len(list) != 1 {
		t.Fatalf("восстановленная комната должна остаться в списке: %+v", list)
	}
}

func TestManager_DestroyRemovesDocument(t *testing.T) {
	store := newFakeStore()
	clock := clockwork.NewFakeClock()
	bc := &fakeBroadcaster{}
	e := &env{t: t, ctx: context.Background(), clock: clock, bc: bc}
	e.m = NewManager(Config{}, clock, bc, store, nil, nil)

	code := e.createRoom(domain.VariantTicTacToe)
	e.waitUntil(func() bool { return store.state(code) != "" }, "запись документа")

	// хост - участник с момента создания, его выход опустошает комнату
	if err := e.m.Leave(e.ctx, code, 1); err != nil {
		t.Fatalf("выход отвергнут: %v", err)
	}
	e.waitUntil(func() bool { return store.state(code) == "" }, "удаление документа")
}

func TestSnapshot_HidesQuizSecrets(t *testing.T) {
	e := newEnv(t, Config{})
	code := e.startQuiz(1, 2)

	snap, err := e.m.Snapshot(e.ctx, code)
	if err != nil {
		t.Fatalf("снимок недоступен: %v", err)
	}
	g, ok := snap["game"].(map[string]any)
	if !ok {
		t.Fatalf("снимок идущей викторины должен содержать позицию: %+v", snap["game"])
	}
	if _, leak := g["questions"]; leak {
		t.Fatalf("вопросы не должны попадать в снимок")
	}
	if g["round"].(int) != 0 || g["total_rounds"].(int) != e.m.cfg.QuestionsPerGame {
		t.Fatalf("позиция в игре: %+v", g)
	}
}

func TestQuestionPayload_OmitsCorrect(t *testing.T) {
	e := newEnv(t, Config{})
	e.startQuiz(1, 2)

	ev, ok := e.bc.last("question")
	if !ok {
		t.Fatalf("вопрос не разослан")
	}
	payload := ev.Payload.(map[string]any)
	if _, leak := payload["correct"]; leak {
		t.Fatalf("правильный вариант не должен уходить клиентам")
	}
	if payload["prompt"] == "" || len(payload["options"].([]string)) != 4 {
		t.Fatalf("вопрос должен нести текст и варианты: %+v", payload)
	}
}
