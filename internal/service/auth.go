package service

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Krishit-Shah/multi-game/internal/logger"
)

var (
	jwtSecret []byte

	ErrInvalidToken = errors.New("invalid token")
)

const tokenTTL = 7 * 24 * time.Hour

type claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// InitJWT задает секрет подписи; пустой секрет - фатально
func InitJWT(secret string) {
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

// IssueJWT выдает токен гостевой идентичности
func IssueJWT(userID int64, username string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	return t.SignedString(jwtSecret)
}

// ParseJWT проверяет подпись и срок, возвращает идентичность
func ParseJWT(tokenStr string) (int64, string, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidToken
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, "", ErrInvalidToken
	}
	return userID, c.Username, nil
}
