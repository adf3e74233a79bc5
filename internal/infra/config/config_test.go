package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"DATABASE_URL", "TELEGRAM_TOKEN", "ADMIN_TELEGRAM_ID", "HR_CHAT_ID", "LOG_LEVEL", "ENVIRONMENT",
	"CRON_SPEC_DIGEST", "DIGEST_PERIOD_DAYS", "DIGEST_NUMBER_OF_PERIODS", "DIGEST_COMPANY_ENTITIES",
}

// isolate runs the test from an empty directory so no .env is picked up, and clears every key.
func isolate(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://hive@localhost/hive?sslmode=disable")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0 8 * * 1", cfg.CronSpecDigest)
	assert.Equal(t, 30, cfg.DigestPeriodDays)
	assert.Equal(t, 2, cfg.DigestNumberOfPeriods)
	assert.Empty(t, cfg.DigestCompanyEntities)
	assert.Error(t, cfg.RequireBot(), "the CLI runs without bot settings")
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	isolate(t)

	_, err := Load()

	assert.EqualError(t, err, "DATABASE_URL is not set")
}

func TestLoadParsesDigestAndBotSettings(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://hive@localhost/hive")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_TELEGRAM_ID", "1001")
	t.Setenv("HR_CHAT_ID", "-100200")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("DIGEST_PERIOD_DAYS", "7")
	t.Setenv("DIGEST_COMPANY_ENTITIES", " Hive Ltd, ,Hive GmbH ")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(-100200), cfg.HRChatID)
	assert.Equal(t, 7, cfg.DigestPeriodDays)
	assert.Equal(t, []string{"Hive Ltd", "Hive GmbH"}, cfg.DigestCompanyEntities)
	assert.NoError(t, cfg.RequireBot())
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://hive@localhost/hive")
	t.Setenv("DIGEST_NUMBER_OF_PERIODS", "0")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("DIGEST_NUMBER_OF_PERIODS", "")
	t.Setenv("ADMIN_TELEGRAM_ID", "admin")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	isolate(t)
	dir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_URL=postgres://from-dotenv\n"), 0o600))
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres://from-dotenv", cfg.DatabaseURL)
}
