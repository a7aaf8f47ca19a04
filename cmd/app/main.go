package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Krishit-Shah/multi-game/internal/config"
	"github.com/Krishit-Shah/multi-game/internal/db"
	httpServer "github.com/Krishit-Shah/multi-game/internal/http"
	"github.com/Krishit-Shah/multi-game/internal/http/handlers"
	"github.com/Krishit-Shah/multi-game/internal/logger"
	"github.com/Krishit-Shah/multi-game/internal/repository"
	"github.com/Krishit-Shah/multi-game/internal/room"
	"github.com/Krishit-Shah/multi-game/internal/service"
	"github.com/Krishit-Shah/multi-game/internal/store"
	"github.com/Krishit-Shah/multi-game/internal/ws"
)

// Version устанавливается при сборке
var Version = "dev"

func main() {
	cfg := config.Load()

	logger.Init(cfg.LogLevel, cfg.LogFormat == "json")
	log := logger.Get()

	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	var roomStore room.RoomStore
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// комнаты переживут без долговременной копии, но не рестарт
			log.Warn("redis unavailable, room persistence disabled", "error", err)
			rdb = nil
		} else {
			roomStore = store.NewRoomStore(rdb)
		}
		cancel()
	}

	userRepo := repository.NewUserRepository(dbPool)
	chatRepo := repository.NewChatRepository(dbPool)
	matchRepo := repository.NewMatchRepository(dbPool)
	results := service.NewResultService(userRepo, matchRepo)

	hub := ws.NewHub()
	manager := room.NewManager(room.Config{
		CountdownSeconds:  cfg.CountdownSeconds,
		QuestionSeconds:   cfg.QuestionSeconds,
		ResultsSeconds:    cfg.ResultsSeconds,
		FastAnswerSeconds: cfg.FastAnswerSeconds,
		QuestionsPerGame:  cfg.QuestionsPerGame,
	}, clockwork.NewRealClock(), hub, roomStore, results, chatRepo)
	hub.SetEngine(manager)

	r := gin.Default()

	// CORS для прода и связи фронта с бэкендом(разные домены)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandler(dbPool, userRepo, chatRepo, manager)
	wsh := ws.NewWSHandler(hub)
	httpServer.RegisterRoutes(r, h, wsh, rdb, Version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		log.Info("server started", "port", cfg.AppPort, "version", Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
