package config

import (
	"os"
	"strconv"

	"github.com/sudosnarky/lifequest-app/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	DBMaxConns  int
	JWTSecret   string
	LogLevel    string
	LogJSON     bool

	// Redis rate limiter; empty addr disables it (limiter fails open)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Rate limits (requests per window, window in seconds)
	APIRateLimit   int
	APIRateWindow  int
	AuthRateLimit  int
	AuthRateWindow int

	// In-process scheduler for the daily/weekly quest reset sweeps
	ResetCronEnabled bool
}

// Load reads configuration from the environment, with .env support for
// development. Missing required variables are fatal.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		DBMaxConns:  envInt("DB_MAX_CONNS", 0),
		JWTSecret:   jwtSecret,
		LogLevel:    envString("LOG_LEVEL", "info"),
		LogJSON:     os.Getenv("LOG_JSON") == "true",

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		APIRateLimit:   envInt("API_RATE_LIMIT", 60),
		APIRateWindow:  envInt("API_RATE_WINDOW_SECONDS", 60),
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow: envInt("AUTH_RATE_WINDOW_SECONDS", 60),

		ResetCronEnabled: os.Getenv("RESET_CRON_ENABLED") == "true",
	}
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
