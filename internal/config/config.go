package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the bot.
type Config struct {
	Telegram  TelegramConfig
	DB        DBConfig
	Redis     RedisConfig
	Kinopoisk KinopoiskConfig
	RateLimit RateLimitConfig
	Port      string
}

// TelegramConfig holds Telegram bot configuration.
type TelegramConfig struct {
	Token      string
	WebhookURL string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KinopoiskConfig holds Kinopoisk API configuration.
type KinopoiskConfig struct {
	APIKey  string
	BaseURL string
}

// RateLimitConfig holds per-user search rate limit settings.
type RateLimitConfig struct {
	MaxSearches int
	WindowSec   int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	maxSearches, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "20"))
	windowSec, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SEC", "60"))

	cfg := &Config{
		Telegram: TelegramConfig{
			Token:      token,
			WebhookURL: getEnv("WEBHOOK_URL", ""),
		},
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "moviesearch_bot"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kinopoisk: KinopoiskConfig{
			APIKey:  getEnv("KINOPOISK_API_KEY", ""),
			BaseURL: getEnv("KINOPOISK_BASE_URL", "https://api.kinopoisk.dev/v1.4"),
		},
		RateLimit: RateLimitConfig{
			MaxSearches: maxSearches,
			WindowSec:   windowSec,
		},
		Port: getEnv("SERVER_PORT", "8080"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
