package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	ListenAddr string

	DBDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	GeminiBaseURL string
	GeminiAPIKey  string
	GeminiModel   string
}

func Load() Config {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			"localhost", "user", "password", "seoulmatedb", "5432",
		)
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	geminiBaseURL := os.Getenv("GEMINI_BASE_URL")
	if geminiBaseURL == "" {
		geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash"
	}

	return Config{
		ListenAddr: listenAddr,
		DBDSN:      dsn,

		RedisAddr:     redisAddr,
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		JWTSecret: secret,

		GeminiBaseURL: geminiBaseURL,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   geminiModel,
	}
}
