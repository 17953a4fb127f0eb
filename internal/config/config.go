package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Port    string `envconfig:"APP_PORT" default:"8080"`
	BaseURL string `envconfig:"APP_BASE_URL" required:"true"`
}

type PostgresConfig struct {
	Host            string        `envconfig:"DB_HOST" required:"true"`
	Port            string        `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" required:"true"`
	Password        string        `envconfig:"DB_PASSWORD" required:"true"`
	DBName          string        `envconfig:"DB_NAME" required:"true"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns        int32         `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns        int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	MigrationsPath  string        `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
}

type PaymentConfig struct {
	// Provider selects the hosted-checkout gateway: mercadopago or wompi.
	Provider string `envconfig:"PAYMENT_PROVIDER" default:"mercadopago"`
	// AccessToken is required for session creation; its absence surfaces as a
	// server-configuration error at checkout time, not at boot.
	AccessToken string `envconfig:"MP_ACCESS_TOKEN"`
	// WebhookSecret missing means signature verification is skipped entirely
	// (testing mode).
	WebhookSecret    string        `envconfig:"MP_WEBHOOK_SECRET"`
	APITimeout       time.Duration `envconfig:"MP_API_TIMEOUT" default:"10s"`
	WompiPublicKey   string        `envconfig:"WOMPI_PUBLIC_KEY"`
	Currency         string        `envconfig:"CURRENCY" default:"COP"`
	ShippingRequired bool          `envconfig:"SHIPPING_REQUIRED" default:"false"`
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Payment  PaymentConfig
}

// Load reads an optional .env file and populates the config from the
// environment. Database settings and the app base URL are required; payment
// secrets are validated at point of use.
func Load(path string) (*Config, error) {
	if path != "" {
		_ = godotenv.Load(path)
	} else {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	return &cfg, nil
}
