// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// It is built once by Load and passed by reference to the components that need it.
type Config struct {
	Database    DatabaseConfig
	Server      ServerConfig
	Logging     LoggingConfig
	CORS        CORSConfig
	JWT         JWTConfig
	Stripe      StripeConfig
	Redis       RedisConfig
	SMTP        SMTPConfig
	Reminder    ReminderConfig
	FrontendURL string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// StripeConfig holds payment provider credentials
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SMTPConfig holds SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ReminderConfig holds lesson reminder scheduling settings
type ReminderConfig struct {
	Cron      string
	IdleAfter time.Duration
	Cooldown  time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional, real environment wins
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// Database configuration
	if cfg.Database.Host, err = requireEnv("DB_HOST"); err != nil {
		return nil, err
	}
	if cfg.Database.Port, err = intEnv("DB_PORT", ""); err != nil {
		return nil, err
	}
	if cfg.Database.User, err = requireEnv("DB_USER"); err != nil {
		return nil, err
	}
	if cfg.Database.Password, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.Database.DBName, err = requireEnv("DB_NAME"); err != nil {
		return nil, err
	}

	// Server configuration
	if cfg.Server.Port, err = intEnv("SERVER_PORT", "8080"); err != nil {
		return nil, err
	}

	cfg.Logging.Level = envOrDefault("LOG_LEVEL", "info")
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	if cfg.JWT.Secret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}
	if cfg.JWT.AccessTokenExpiry, err = durationEnv("JWT_ACCESS_TOKEN_EXPIRY", "1h"); err != nil {
		return nil, err
	}
	if cfg.JWT.RefreshTokenExpiry, err = durationEnv("JWT_REFRESH_TOKEN_EXPIRY", "168h"); err != nil {
		return nil, err
	}

	// Stripe keys are optional so the content API can run without payments configured
	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	cfg.Stripe.Currency = strings.ToLower(envOrDefault("STRIPE_CURRENCY", "eur"))

	cfg.FrontendURL = strings.TrimRight(envOrDefault("FRONTEND_URL", "http://localhost:3000"), "/")

	// Redis configuration (worker, scheduler and task enqueueing)
	cfg.Redis.Host = envOrDefault("REDIS_HOST", "localhost")
	if cfg.Redis.Port, err = intEnv("REDIS_PORT", "6379"); err != nil {
		return nil, err
	}
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = intEnv("REDIS_DB", "0"); err != nil {
		return nil, err
	}

	// SMTP configuration (worker)
	cfg.SMTP.Host = envOrDefault("SMTP_HOST", "localhost")
	if cfg.SMTP.Port, err = intEnv("SMTP_PORT", "587"); err != nil {
		return nil, err
	}
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")
	cfg.SMTP.From = envOrDefault("SMTP_FROM", "noreply@learncamera101.com")

	// Reminder configuration (scheduler)
	cfg.Reminder.Cron = envOrDefault("REMINDER_CRON", "0 9 * * *")
	if cfg.Reminder.IdleAfter, err = durationEnv("REMINDER_IDLE_AFTER", "72h"); err != nil {
		return nil, err
	}
	if cfg.Reminder.Cooldown, err = durationEnv("REMINDER_COOLDOWN", "168h"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the database connection string.
// An empty string is returned when no database host is configured.
func (c *Config) DSN() string {
	if c.Database.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&multiStatements=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// RedisAddr returns the host:port address of the Redis server
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func envOrDefault(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

// intEnv parses an integer variable. An empty default makes the variable required.
func intEnv(key, def string) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		if def == "" {
			return 0, fmt.Errorf("%s is required", key)
		}
		raw = def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func durationEnv(key, def string) (time.Duration, error) {
	value, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// parseOrigins splits a comma-separated origin list; empty input allows all origins
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for origin := range strings.SplitSeq(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
