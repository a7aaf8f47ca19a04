package ws

import (
	"encoding/json"
	"sync"

	"github.com/Krishit-Shah/multi-game/internal/logger"
	"github.com/Krishit-Shah/multi-game/internal/metrics"
	"github.com/Krishit-Shah/multi-game/internal/room"
)

// Hub - реестр живых соединений: идентичность -> соединения и
// подписки комнат. Реализует room.Broadcaster.
type Hub struct {
	mu     sync.RWMutex
	engine *room.Manager

	clients map[string]*Client            // id соединения -> клиент
	byUser  map[int64]map[string]*Client  // пользователь -> его соединения
	rooms   map[string]map[string]*Client // код комнаты -> подписчики
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
		byUser:  make(map[int64]map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
	}
}

// SetEngine связывает хаб с движком комнат после создания обоих
func (h *Hub) SetEngine(m *room.Manager) {
	h.engine = m
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[string]*Client)
	}
	h.byUser[c.UserID][c.ID] = c
	h.mu.Unlock()

	metrics.ConnectedClients.Inc()
	logger.Info("client connected", "user", c.UserID, "conn", c.ID)
}

// Unregister снимает соединение; если это было последнее соединение
// пользователя в его комнате - движку сообщается обрыв
func (h *Hub) Unregister(c *Client) {
	code := c.currentRoom()

	h.mu.Lock()
	if _, ok := h.clients[c.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.ID)
	if conns := h.byUser[c.UserID]; conns != nil {
		delete(conns, c.ID)
		if len(conns) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	lastInRoom := false
	if code != "" {
		if subs := h.rooms[code]; subs != nil {
			delete(subs, c.ID)
			if len(subs) == 0 {
				delete(h.rooms, code)
			}
			lastInRoom = true
			for _, other := range subs {
				if other.UserID == c.UserID {
					lastInRoom = false
					break
				}
			}
		}
	}
	h.mu.Unlock()

	metrics.ConnectedClients.Dec()
	logger.Info("client disconnected", "user", c.UserID, "conn", c.ID)

	if lastInRoom && h.engine != nil {
		h.engine.Disconnect(code, c.UserID)
	}
}

func (h *Hub) Subscribe(code string, c *Client) {
	h.mu.Lock()
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[string]*Client)
	}
	h.rooms[code][c.ID] = c
	h.mu.Unlock()
	c.setRoom(code)
}

func (h *Hub) Unsubscribe(c *Client) {
	code := c.currentRoom()
	if code == "" {
		return
	}
	h.mu.Lock()
	if subs := h.rooms[code]; subs != nil {
		delete(subs, c.ID)
		if len(subs) == 0 {
			delete(h.rooms, code)
		}
	}
	h.mu.Unlock()
	c.setRoom("")
}

// BroadcastRoom доставляет событие всем подписчикам комнаты.
// Вызывается движком под блокировкой комнаты, поэтому не блокирует:
// переполненный буфер клиента означает пропуск события.
func (h *Hub) BroadcastRoom(code string, ev room.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("event marshal failed", "type", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	subs := make([]*Client, 0, len(h.rooms[code]))
	for _, c := range h.rooms[code] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	for _, c := range subs {
		select {
		case c.Send <- data:
		default:
			logger.Warn("broadcast dropped", "user", c.UserID, "type", ev.Type, "code", code)
		}
	}
}
