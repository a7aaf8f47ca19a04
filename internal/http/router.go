package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Krishit-Shah/multi-game/internal/http/handlers"
	"github.com/Krishit-Shah/multi-game/internal/http/middleware"
	"github.com/Krishit-Shah/multi-game/internal/ws"
)

// RegisterRoutes собирает HTTP-поверхность сервиса
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, wsh *ws.WSHandler, rdb *redis.Client, version string) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/guest", middleware.RateLimit(rdb, 10, time.Minute), h.GuestLogin)
		api.GET("/rooms", h.ListRooms)
		api.GET("/rooms/:code", h.GetRoom)
		api.GET("/rooms/:code/chat", h.GetChat)
		api.GET("/leaderboard", h.GetLeaderboard)

		authed := api.Group("", middleware.Auth())
		{
			authed.GET("/me", h.Me)
			authed.POST("/rooms", h.CreateRoom)
		}
	}

	r.GET("/ws", wsh.HandleWS())
}
