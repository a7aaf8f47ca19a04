package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Krishit-Shah/multi-game/internal/logger"
)

// Connect открывает пул соединений и проверяет его пингом
func Connect(databaseURL string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("db connect failed", "error", err)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("db ping failed", "error", err)
	}

	logger.Info("db connected")
	return pool
}
