package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Krishit-Shah/multi-game/internal/repository"
	"github.com/Krishit-Shah/multi-game/internal/service"
)

// GuestLogin выдает гостевую идентичность и JWT.
// Занятое имя получает короткий uuid-суффикс.
func (h *Handler) GuestLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username must be 1-32 characters"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.CreateGuest(ctx, username)
	if errors.Is(err, repository.ErrUsernameTaken) {
		user, err = h.Users.CreateGuest(ctx, username+"_"+uuid.NewString()[:4])
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}

	token, err := service.IssueJWT(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// профиль текущего пользователя
func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
