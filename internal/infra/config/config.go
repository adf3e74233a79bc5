package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL     string
	TelegramToken   string
	AdminTelegramID int64
	HRChatID        int64
	LogLevel        string
	Environment     string

	CronSpecDigest        string
	DigestPeriodDays      int
	DigestNumberOfPeriods int
	// DigestCompanyEntities scopes the digest; empty means every entity.
	DigestCompanyEntities []string
}

// Load reads configuration from environment variables and .env file (if present).
// Only the database is mandatory here; RequireBot checks what the long-running service needs.
func Load() (*AppConfig, error) {
	// godotenv.Load does not override variables that are already set.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	if cfg.AdminTelegramID, err = optionalInt64("ADMIN_TELEGRAM_ID"); err != nil {
		return nil, err
	}
	if cfg.HRChatID, err = optionalInt64("HR_CHAT_ID"); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecDigest = os.Getenv("CRON_SPEC_DIGEST")
	if cfg.CronSpecDigest == "" {
		cfg.CronSpecDigest = "0 8 * * 1" // Mondays at 08:00
	}

	if cfg.DigestPeriodDays, err = positiveInt("DIGEST_PERIOD_DAYS", 30); err != nil {
		return nil, err
	}
	if cfg.DigestNumberOfPeriods, err = positiveInt("DIGEST_NUMBER_OF_PERIODS", 2); err != nil {
		return nil, err
	}

	for _, entity := range strings.Split(os.Getenv("DIGEST_COMPANY_ENTITIES"), ",") {
		if entity = strings.TrimSpace(entity); entity != "" {
			cfg.DigestCompanyEntities = append(cfg.DigestCompanyEntities, entity)
		}
	}

	return cfg, nil
}

// RequireBot validates the settings of the Telegram surface.
func (c *AppConfig) RequireBot() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is not set")
	}
	if c.AdminTelegramID == 0 {
		return fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	if c.HRChatID == 0 {
		return fmt.Errorf("HR_CHAT_ID is not set")
	}
	return nil
}

func optionalInt64(key string) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", key, v)
	}
	return v, nil
}
