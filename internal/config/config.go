package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Server
	Port        string
	FrontendURL string

	// Database (optional, enables game history)
	DatabaseURL    string
	MigrateOnStart bool
	MigrationsDir  string

	// Redis (optional, enables stats and leaderboards)
	RedisURL       string
	ResultTTLHours int

	// Game Settings
	TickIntervalMs     int
	TurnTimeoutSeconds int
	MaxPlayersPerRoom  int

	// WebSocket
	WSReadLimitBytes    int
	WSMessagesPerSecond int
	WSMessageBurst      int

	// Security
	JWTSecret         string
	RequireAuth       bool
	SessionTimeoutMin int
	AdminTokenHash    string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),
		MigrationsDir:  getEnv("MIGRATIONS_DIR", "migrations"),

		// Redis
		RedisURL:       getEnv("REDIS_URL", ""),
		ResultTTLHours: getEnvInt("RESULT_TTL_HOURS", 24),

		// Game Settings
		TickIntervalMs:     getEnvInt("TICK_INTERVAL_MS", 16),
		TurnTimeoutSeconds: getEnvInt("TURN_TIMEOUT_SECONDS", 0),
		MaxPlayersPerRoom:  getEnvInt("MAX_PLAYERS_PER_ROOM", 4),

		// WebSocket
		WSReadLimitBytes:    getEnvInt("WS_READ_LIMIT_BYTES", 65536),
		WSMessagesPerSecond: getEnvInt("WS_MESSAGES_PER_SECOND", 20),
		WSMessageBurst:      getEnvInt("WS_MESSAGE_BURST", 40),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		RequireAuth:       getEnvBool("REQUIRE_AUTH", false),
		SessionTimeoutMin: getEnvInt("SESSION_TTL_MINUTES", 720),
		AdminTokenHash:    getEnv("ADMIN_TOKEN_HASH", ""),
	}
}

func (c *Config) IsProduction() bool { return c.Environment == "production" }

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTimeoutMin) * time.Minute
}

func (c *Config) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
