package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Krishit-Shah/multi-game/internal/logger"
	"github.com/Krishit-Shah/multi-game/internal/room"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 50 * time.Second
	maxMessageSize = 4096
)

// Client - одно вебсокет-соединение аутентифицированного
// пользователя. Пользователь может держать несколько соединений.
type Client struct {
	ID       string
	UserID   int64
	Username string
	Conn     *websocket.Conn
	Send     chan []byte

	hub *Hub

	mu   sync.Mutex
	room string // код текущей комнаты, "" если не подписан
}

func NewClient(userID int64, username string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		Username: username,
		Conn:     conn,
		Send:     make(chan []byte, 64),
		hub:      hub,
	}
}

func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) currentRoom() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

func (c *Client) setRoom(code string) {
	c.mu.Lock()
	c.room = code
	c.mu.Unlock()
}

// read
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debug("ws read closed", "user", c.UserID, "error", err)
			return
		}
		c.hub.Dispatch(c, msg)
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "user", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// send ставит событие в очередь соединения; медленного клиента
// не ждем, событие отбрасывается
func (c *Client) send(ev room.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("event marshal failed", "type", ev.Type, "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		logger.Warn("send buffer full, dropping event", "user", c.UserID, "type", ev.Type)
	}
}

func (c *Client) sendError(code, message string) {
	c.send(room.Event{Type: "error", Payload: map[string]string{
		"code":    code,
		"message": message,
	}})
}
