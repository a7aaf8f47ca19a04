package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Krishit-Shah/multi-game/internal/repository"
	"github.com/Krishit-Shah/multi-game/internal/room"
)

// Handler несет зависимости HTTP-слоя
type Handler struct {
	DB    *pgxpool.Pool
	Users *repository.UserRepository
	Chat  *repository.ChatRepository
	Rooms *room.Manager
}

func NewHandler(db *pgxpool.Pool, users *repository.UserRepository, chat *repository.ChatRepository, rooms *room.Manager) *Handler {
	return &Handler{DB: db, Users: users, Chat: chat, Rooms: rooms}
}

// идентичность кладет в контекст auth middleware
func getUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
