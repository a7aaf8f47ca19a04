package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krishit-Shah/multi-game/internal/domain"
)

// топ игроков по победам
func (h *Handler) GetLeaderboard(c *gin.Context) {
	top, err := h.Users.GetTopByWins(c.Request.Context(), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}
	if top == nil {
		top = []*domain.User{}
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}
