package room

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Krishit-Shah/multi-game/internal/domain"
	"github.com/Krishit-Shah/multi-game/internal/game"
	"github.com/Krishit-Shah/multi-game/internal/logger"
	"github.com/Krishit-Shah/multi-game/internal/metrics"
)

// ошибки уровня комнаты, уходят только инициатору
var (
	ErrRoomNotFound     = &game.Reject{Code: "room_not_found", Message: "room not found"}
	ErrRoomFull         = &game.Reject{Code: "room_full", Message: "room is full"}
	ErrNotMember        = &game.Reject{Code: "not_member", Message: "not a member of this room"}
	ErrRestartForbidden = &game.Reject{Code: "restart_forbidden", Message: "only the host can restart an active game"}
	ErrBadVariant       = &game.Reject{Code: "bad_variant", Message: "unknown game variant"}
)

// RoomStore - долговременное хранилище документов комнат.
// Запись асинхронная, память остается авторитетной.
type RoomStore interface {
	Load(ctx context.Context, code string) (*domain.Room, error)
	Upsert(ctx context.Context, r *domain.Room) error
	Delete(ctx context.Context, code string) error
	PublicCodes(ctx context.Context) ([]string, error)
}

// ResultSink принимает итоги завершенных партий
type ResultSink interface {
	SaveResult(ctx context.Context, res *domain.MatchResult) error
}

// ChatStore сохраняет сообщения чата; движок их не интерпретирует
type ChatStore interface {
	SaveMessage(ctx context.Context, m *domain.ChatMessage) error
}

type Config struct {
	CountdownSeconds  int
	QuestionSeconds   int
	ResultsSeconds    int
	FastAnswerSeconds int
	QuestionsPerGame  int
}

func (c Config) withDefaults() Config {
	if c.CountdownSeconds <= 0 {
		c.CountdownSeconds = 5
	}
	if c.QuestionSeconds <= 0 {
		c.QuestionSeconds = 20
	}
	if c.ResultsSeconds <= 0 {
		c.ResultsSeconds = 5
	}
	if c.FastAnswerSeconds <= 0 {
		c.FastAnswerSeconds = 5
	}
	if c.QuestionsPerGame <= 0 {
		c.QuestionsPerGame = 5
	}
	return c
}

// Room - рантайм живой комнаты: авторитетное состояние, его
// эксклюзивная секция и реестр таймеров. Все мутации - ходы,
// ответы, готовность, обрывы, срабатывания таймеров - проходят
// через mu, поэтому для клиентов выглядят сериализованными.
type Room struct {
	mu        sync.Mutex
	state     *domain.Room
	timers    *Registry
	countdown int // оставшиеся секунды, 0 = не взведен
}

// Manager - владелец всех живых комнат процесса.
// Операции разных комнат не конкурируют между собой.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	cfg     Config
	clock   clockwork.Clock
	bc      Broadcaster
	store   RoomStore  // опционально
	results ResultSink // опционально
	chat    ChatStore  // опционально
}

func NewManager(cfg Config, clock clockwork.Clock, bc Broadcaster, store RoomStore, results ResultSink, chat ChatStore) *Manager {
	return &Manager{
		rooms:   make(map[string]*Room),
		cfg:     cfg.withDefaults(),
		clock:   clock,
		bc:      bc,
		store:   store,
		results: results,
		chat:    chat,
	}
}

// алфавит кодов без неоднозначных символов (0/O, 1/I)
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// CreateRoom создает комнату в waiting с хостом как первым участником.
// Хост считается оффлайн до подключения по вебсокету.
func (m *Manager) CreateRoom(ctx context.Context, host *domain.User, name string, variant domain.Variant, private bool) (*domain.Room, error) {
	if !variant.Valid() {
		return nil, ErrBadVariant
	}
	if name == "" {
		name = host.Username + "'s room"
	}

	m.mu.Lock()
	code := generateCode()
	for _, taken := m.rooms[code]; taken; _, taken = m.rooms[code] {
		code = generateCode()
	}
	state := &domain.Room{
		Code:    code,
		Name:    name,
		Variant: variant,
		Private: private,
		HostID:  host.ID,
		Players: []*domain.Player{{
			UserID:   host.ID,
			Username: host.Username,
		}},
		State:      domain.StateWaiting,
		MaxPlayers: variant.MaxPlayers(),
		CreatedAt:  m.clock.Now(),
	}
	rm := &Room{state: state, timers: NewRegistry(m.clock)}
	m.rooms[code] = rm
	m.mu.Unlock()

	metrics.ActiveRooms.Inc()
	logger.Info("room created", "code", code, "variant", variant, "host", host.ID)

	rm.mu.Lock()
	m.persist(rm)
	rm.mu.Unlock()
	return state.Clone(), nil
}

// get возвращает рантайм комнаты, при промахе пытаясь поднять
// документ из хранилища. Восстановленная комната всегда в waiting:
// таймеры прерванной партии невосстановимы.
func (m *Manager) get(ctx context.Context, code string) (*Room, error) {
	m.mu.RLock()
	rm, ok := m.rooms[code]
	m.mu.RUnlock()
	if ok {
		return rm, nil
	}
	if m.store == nil {
		return nil, ErrRoomNotFound
	}

	state, err := m.store.Load(ctx, code)
	if err != nil {
		logger.Error("room load failed", "code", code, "error", err)
		return nil, ErrRoomNotFound
	}
	if state == nil {
		return nil, ErrRoomNotFound
	}

	// после рестарта процесса игра не продолжается
	state.State = domain.StateWaiting
	state.Game = nil
	for _, p := range state.Players {
		p.Ready = false
		p.Connected = false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.rooms[code]; ok {
		return existing, nil
	}
	rm = &Room{state: state, timers: NewRegistry(m.clock)}
	m.rooms[code] = rm
	metrics.ActiveRooms.Inc()
	logger.Info("room restored from store", "code", code)
	return rm, nil
}

// RoomSummary - строка публичного списка комнат
type RoomSummary struct {
	Code       string           `json:"code"`
	Name       string           `json:"name"`
	Variant    domain.Variant   `json:"variant"`
	State      domain.GameState `json:"state"`
	Players    int              `json:"players"`
	MaxPlayers int              `json:"max_players"`
}

// ListPublic - открытые комнаты, ожидающие игроков. Холодный
// процесс сперва поднимает кандидатов из индекса хранилища.
func (m *Manager) ListPublic(ctx context.Context) []RoomSummary {
	if m.store != nil {
		codes, err := m.store.PublicCodes(ctx)
		if err != nil {
			logger.Warn("public index load failed", "error", err)
		}
		for _, code := range codes {
			m.mu.RLock()
			_, ok := m.rooms[code]
			m.mu.RUnlock()
			if !ok {
				// протухшая запись индекса - не ошибка списка
				if _, err := m.get(ctx, code); err != nil {
					logger.Debug("public room restore failed", "code", code, "error", err)
				}
			}
		}
	}

	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, rm := range m.rooms {
		rooms = append(rooms, rm)
	}
	m.mu.RUnlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, rm := range rooms {
		rm.mu.Lock()
		s := rm.state
		if !s.Private && s.State == domain.StateWaiting {
			out = append(out, RoomSummary{
				Code:       s.Code,
				Name:       s.Name,
				Variant:    s.Variant,
				State:      s.State,
				Players:    len(s.Players),
				MaxPlayers: s.MaxPlayers,
			})
		}
		rm.mu.Unlock()
	}
	return out
}

// Snapshot - проекция комнаты для HTTP
func (m *Manager) Snapshot(ctx context.Context, code string) (map[string]any, error) {
	rm, err := m.get(ctx, code)
	if err != nil {
		return nil, err
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return snapshotPayload(rm.state), nil
}

// State возвращает копию состояния комнаты (для тестов и отладки)
func (m *Manager) State(ctx context.Context, code string) (*domain.Room, error) {
	rm, err := m.get(ctx, code)
	if err != nil {
		return nil, err
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.state.Clone(), nil
}

// broadcast шлет событие всем подписчикам; вызывается под rm.mu,
// доставка неблокирующая
func (m *Manager) broadcast(rm *Room, ev Event) {
	m.bc.BroadcastRoom(rm.state.Code, ev)
	metrics.BroadcastsSent.Inc()
}

// persist пишет снимок в хранилище асинхронно, после броадкаста.
// Ошибка записи логируется и не доходит до игроков: память
// остается авторитетной. Вызывается под rm.mu.
func (m *Manager) persist(rm *Room) {
	if m.store == nil {
		return
	}
	snap := rm.state.Clone()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.Upsert(ctx, snap); err != nil {
			logger.Warn("room upsert failed", "code", snap.Code, "error", err)
		}
	}()
}

// recordResult сохраняет итог партии; вызывается под rm.mu
func (m *Manager) recordResult(rm *Room, winnerID *int64) {
	if m.results == nil {
		return
	}
	res := &domain.MatchResult{
		RoomCode:   rm.state.Code,
		Variant:    rm.state.Variant,
		WinnerID:   winnerID,
		Scores:     scoresPayload(rm.state),
		FinishedAt: m.clock.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.results.SaveResult(ctx, res); err != nil {
			logger.Warn("match result save failed", "code", res.RoomCode, "error", err)
		}
	}()
}

// destroy убирает комнату: все таймеры сняты, документ удален.
// Вызывается под rm.mu.
func (m *Manager) destroy(rm *Room) {
	code := rm.state.Code
	rm.timers.CancelAll()
	m.broadcast(rm, Event{Type: "room_destroyed"})

	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
	metrics.ActiveRooms.Dec()

	if m.store != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := m.store.Delete(ctx, code); err != nil {
				logger.Warn("room delete failed", "code", code, "error", err)
			}
		}()
	}
	logger.Info("room destroyed", "code", code)
}
