package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Krishit-Shah/multi-game/internal/domain"
	"github.com/Krishit-Shah/multi-game/internal/game"
	"github.com/Krishit-Shah/multi-game/internal/room"
)

// CreateRoom создает комнату; создатель становится хостом.
// Живое членство дальше идет через вебсокет.
func (h *Handler) CreateRoom(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		Name    string `json:"name"`
		Variant string `json:"variant"`
		Private bool   `json:"private"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByID(ctx, userID)
	if err != nil || user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	created, err := h.Rooms.CreateRoom(ctx, user, strings.TrimSpace(req.Name), domain.Variant(req.Variant), req.Private)
	if err != nil {
		var rej *game.Reject
		if errors.As(err, &rej) {
			c.JSON(http.StatusBadRequest, gin.H{"error": rej.Message, "code": rej.Code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// список открытых комнат, ожидающих игроков
func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Rooms.ListPublic(c.Request.Context())})
}

func (h *Handler) GetRoom(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))
	snap, err := h.Rooms.Snapshot(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// история чата комнаты, новые в конце
func (h *Handler) GetChat(c *gin.Context) {
	code := strings.ToUpper(c.Param("code"))

	limit := 50
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	messages, err := h.Chat.ListByRoom(c.Request.Context(), code, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if messages == nil {
		messages = []*domain.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
