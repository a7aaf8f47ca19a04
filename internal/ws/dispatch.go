package ws

import (
	"context"
	"encoding/json"
	"errors"
	"runtime/debug"
	"strings"

	"github.com/Krishit-Shah/multi-game/internal/game"
	"github.com/Krishit-Shah/multi-game/internal/logger"
	"github.com/Krishit-Shah/multi-game/internal/room"
)

type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatch разбирает действие игрока и передает его движку.
// Никакое действие не роняет процесс: паника конвертируется в
// откат партии с уведомлением комнаты.
func (h *Hub) Dispatch(c *Client, raw []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("action panic", "user", c.UserID, "panic", rec, "stack", string(debug.Stack()))
			c.sendError("internal", "internal error")
			if code := c.currentRoom(); code != "" {
				h.engine.FailGame(code, "internal error")
			}
		}
	}()

	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("bad_message", "malformed message")
		return
	}
	ctx := context.Background()

	switch msg.Type {
	case "join_room":
		var p struct {
			Code string `json:"code"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Code == "" {
			c.sendError("bad_message", "room code required")
			return
		}
		p.Code = strings.ToUpper(p.Code)
		// переход между комнатами: старую считаем обрывом, не выходом
		if cur := c.currentRoom(); cur != "" && cur != p.Code {
			h.Unsubscribe(c)
			h.engine.Disconnect(cur, c.UserID)
		}
		// подписка только после принятого входа: отвергнутый не должен
		// видеть броадкасты комнаты
		if err := h.engine.Join(ctx, p.Code, c.UserID, c.Username); err != nil {
			c.reject(err)
			return
		}
		h.Subscribe(p.Code, c)
		// броадкаст собственного входа прошел до подписки - снимок лично
		if snap, err := h.engine.Snapshot(ctx, p.Code); err == nil {
			c.send(room.Event{Type: "room_snapshot", Payload: snap})
		}

	case "leave_room":
		code := c.currentRoom()
		if code == "" {
			c.sendError("not_in_room", "join a room first")
			return
		}
		h.Unsubscribe(c)
		if err := h.engine.Leave(ctx, code, c.UserID); err != nil {
			c.reject(err)
		}

	case "toggle_ready":
		h.roomAction(c, func(code string) error {
			return h.engine.ToggleReady(ctx, code, c.UserID)
		})

	case "move":
		var p struct {
			Row int `json:"row"`
			Col int `json:"col"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.sendError("bad_message", "malformed move")
			return
		}
		h.roomAction(c, func(code string) error {
			return h.engine.ApplyMove(ctx, code, c.UserID, p.Row, p.Col)
		})

	case "answer":
		var p struct {
			Round  int `json:"round"`
			Option int `json:"option"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.sendError("bad_message", "malformed answer")
			return
		}
		h.roomAction(c, func(code string) error {
			return h.engine.SubmitAnswer(ctx, code, c.UserID, p.Round, p.Option)
		})

	case "restart_game":
		h.roomAction(c, func(code string) error {
			return h.engine.Restart(ctx, code, c.UserID)
		})

	case "chat":
		var p struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil || strings.TrimSpace(p.Text) == "" {
			return
		}
		h.roomAction(c, func(code string) error {
			return h.engine.Chat(ctx, code, c.UserID, c.Username, p.Text)
		})

	default:
		c.sendError("unknown_type", "unknown message type: "+msg.Type)
	}
}

func (h *Hub) roomAction(c *Client, fn func(code string) error) {
	code := c.currentRoom()
	if code == "" {
		c.sendError("not_in_room", "join a room first")
		return
	}
	if err := fn(code); err != nil {
		c.reject(err)
	}
}

// reject доставляет отказ только инициатору
func (c *Client) reject(err error) {
	var rej *game.Reject
	if errors.As(err, &rej) {
		c.sendError(rej.Code, rej.Message)
		return
	}
	logger.Error("action failed", "user", c.UserID, "error", err)
	c.sendError("internal", "internal error")
}
