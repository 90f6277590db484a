package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/storefront?sslmode=disable")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_KEY_HASH", "$2a$10$abcdefghijklmnopqrstuv")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 5, cfg.Pricing.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Pricing.BatchDelay)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Empty(t, cfg.SMTP.OrderTo)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("PRICING_BATCH_SIZE", "3")
	t.Setenv("PRICING_BATCH_DELAY", "1s")
	t.Setenv("ORDER_EMAIL_TO", "orders@supply.test, , sales@supply.test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 3, cfg.Pricing.BatchSize)
	assert.Equal(t, time.Second, cfg.Pricing.BatchDelay)
	assert.Equal(t, []string{"orders@supply.test", "sales@supply.test"}, cfg.SMTP.OrderTo)
}

func TestLoadRequiresSecrets(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "JWT_SECRET", "API_KEY_HASH"} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoadRejectsBadBatchSize(t *testing.T) {
	setRequired(t)
	t.Setenv("PRICING_BATCH_SIZE", "0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PRICING_BATCH_SIZE")
}

func TestLoadRequiresOrderInboxWithSMTP(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_HOST", "smtp.supply.test")
	t.Setenv("ORDER_EMAIL_TO", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDER_EMAIL_TO")

	t.Setenv("ORDER_EMAIL_TO", "orders@supply.test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "smtp.supply.test", cfg.SMTP.Host)
}
