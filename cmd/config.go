package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/joho/godotenv"
)

// Config carries everything the process needs at startup. Values come from
// the environment, optionally seeded from a .env file.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	CustomerBotToken string
	CourierBotToken  string
	AdminBotToken    string

	// AdminChat is the chat that receives new-order announcements and
	// delivery confirmations, typically a group chat with a negative id.
	AdminChat kernel.ActorID

	SessionTTL          time.Duration
	RateLimitPoints     int
	RateLimitWindow     time.Duration
	RateLimitBlock      time.Duration
	PendingOrderTimeout time.Duration

	ServiceArea kernel.Bounds
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func LoadConfig() (Config, error) {
	_ = godotenv.Load(".env")

	adminChat, err := envInt64("ADMIN_CHAT_ID")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort: envOr("HTTP_PORT", "8080"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "dispatch"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		CustomerBotToken: os.Getenv("CUSTOMER_BOT_TOKEN"),
		CourierBotToken:  os.Getenv("COURIER_BOT_TOKEN"),
		AdminBotToken:    os.Getenv("ADMIN_BOT_TOKEN"),

		AdminChat: kernel.ActorID(adminChat),

		SessionTTL:          envMinutes("SESSION_TTL_MINUTES", 30),
		RateLimitPoints:     envIntOr("RATE_LIMIT_POINTS", 20),
		RateLimitWindow:     envMinutes("RATE_LIMIT_WINDOW_MINUTES", 1),
		RateLimitBlock:      envMinutes("RATE_LIMIT_BLOCK_MINUTES", 5),
		PendingOrderTimeout: envMinutes("PENDING_ORDER_TIMEOUT_MINUTES", 60),

		ServiceArea: kernel.DefaultBounds,
	}

	if cfg.CustomerBotToken == "" || cfg.CourierBotToken == "" || cfg.AdminBotToken == "" {
		return Config{}, fmt.Errorf("CUSTOMER_BOT_TOKEN, COURIER_BOT_TOKEN and ADMIN_BOT_TOKEN are required")
	}
	if err := cfg.ServiceArea.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DSN renders the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

func envIntOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envMinutes(key string, fallback int) time.Duration {
	return time.Duration(envIntOr(key, fallback)) * time.Minute
}
