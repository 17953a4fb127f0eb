package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casafunko/orders-service/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://casafunko.shop")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "orders")
	t.Setenv("MP_ACCESS_TOKEN", "TEST-TOKEN")
	t.Setenv("MP_API_TIMEOUT", "3s")
	t.Setenv("SHIPPING_REQUIRED", "true")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "https://casafunko.shop", cfg.App.BaseURL)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, "mercadopago", cfg.Payment.Provider)
	assert.Equal(t, "TEST-TOKEN", cfg.Payment.AccessToken)
	assert.Equal(t, 3*time.Second, cfg.Payment.APITimeout)
	assert.Equal(t, "COP", cfg.Payment.Currency)
	assert.True(t, cfg.Payment.ShippingRequired)

	// Webhook secret stays optional: its absence means testing mode.
	assert.Empty(t, cfg.Payment.WebhookSecret)
}
