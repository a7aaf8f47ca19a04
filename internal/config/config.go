package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	AllowedOrigin string
	LogLevel      string
	LogFormat     string

	// тюнинг движка комнат
	CountdownSeconds  int
	QuestionSeconds   int
	QuestionsPerGame  int
	FastAnswerSeconds int
	ResultsSeconds    int
}

// Load читает .env (если есть) и переменные окружения
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),

		CountdownSeconds:  getEnvInt("COUNTDOWN_SECONDS", 5),
		QuestionSeconds:   getEnvInt("QUESTION_SECONDS", 20),
		QuestionsPerGame:  getEnvInt("QUESTIONS_PER_GAME", 5),
		FastAnswerSeconds: getEnvInt("FAST_ANSWER_SECONDS", 5),
		ResultsSeconds:    getEnvInt("RESULTS_SECONDS", 5),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
