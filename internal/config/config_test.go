package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "courses")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
		assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiry)
		assert.Equal(t, "eur", cfg.Stripe.Currency)
		assert.Equal(t, "0 9 * * *", cfg.Reminder.Cron)
		assert.Equal(t, 72*time.Hour, cfg.Reminder.IdleAfter)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	})

	t.Run("overrides", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("SERVER_PORT", "9000")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
		t.Setenv("STRIPE_CURRENCY", "USD")
		t.Setenv("FRONTEND_URL", "https://learn.example/")
		t.Setenv("REMINDER_IDLE_AFTER", "24h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 9000, cfg.Server.Port)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "usd", cfg.Stripe.Currency)
		assert.Equal(t, "https://learn.example", cfg.FrontendURL)
		assert.Equal(t, 24*time.Hour, cfg.Reminder.IdleAfter)
	})

	t.Run("missing required variable", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()
		assert.Nil(t, cfg)
		assert.EqualError(t, err, "JWT_SECRET is required")
	})

	t.Run("invalid port", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_PORT", "abc")

		_, err := Load()
		assert.ErrorContains(t, err, "invalid DB_PORT")
	})

	t.Run("invalid duration", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("REMINDER_COOLDOWN", "weekly")

		_, err := Load()
		assert.ErrorContains(t, err, "invalid REMINDER_COOLDOWN")
	})
}

func TestConfig_DSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host:     "db",
		Port:     3306,
		User:     "app",
		Password: "pw",
		DBName:   "courses",
	}}

	assert.Equal(t, "app:pw@tcp(db:3306)/courses?parseTime=true&charset=utf8mb4&multiStatements=true", cfg.DSN())
	assert.Empty(t, (&Config{}).DSN())
}
