package config

import (
	"log"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront API.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret  string
	SessionTTL time.Duration
	OTPTTL     time.Duration

	// APIKeyHash is the bcrypt hash of the static key the sync endpoints expect.
	APIKeyHash string

	Pricing PricingConfig
	SMTP    SMTPConfig
	SMS     SMSConfig
	Orders  OrdersConfig
}

// PricingConfig configures the external pricing API and the batch pacing.
type PricingConfig struct {
	BaseURL    string
	APIKey     string
	BatchSize  int
	BatchDelay time.Duration
	Timeout    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// OrderTo receives the seller copy of every submitted order.
	OrderTo []string
}

type SMSConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
}

type OrdersConfig struct {
	BaseURL string
	APIKey  string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("SESSION_TTL", 24*time.Hour)
	v.SetDefault("OTP_TTL", 10*time.Minute)
	v.SetDefault("PRICING_BATCH_SIZE", 5)
	v.SetDefault("PRICING_BATCH_DELAY", 250*time.Millisecond)
	v.SetDefault("PRICING_TIMEOUT", 10*time.Second)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMS_BASE_URL", "https://api.twilio.com/2010-04-01")

	cfg := &Config{
		Port:        v.GetString("APP_PORT"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		SessionTTL:  v.GetDuration("SESSION_TTL"),
		OTPTTL:      v.GetDuration("OTP_TTL"),
		APIKeyHash:  v.GetString("API_KEY_HASH"),
		Pricing: PricingConfig{
			BaseURL:    v.GetString("PRICING_API_URL"),
			APIKey:     v.GetString("PRICING_API_KEY"),
			BatchSize:  v.GetInt("PRICING_BATCH_SIZE"),
			BatchDelay: v.GetDuration("PRICING_BATCH_DELAY"),
			Timeout:    v.GetDuration("PRICING_TIMEOUT"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("MAIL_FROM"),
			OrderTo:  splitList(v.GetString("ORDER_EMAIL_TO")),
		},
		SMS: SMSConfig{
			BaseURL:    v.GetString("SMS_BASE_URL"),
			AccountSID: v.GetString("SMS_ACCOUNT_SID"),
			AuthToken:  v.GetString("SMS_AUTH_TOKEN"),
			From:       v.GetString("SMS_FROM"),
		},
		Orders: OrdersConfig{
			BaseURL: v.GetString("ORDER_API_URL"),
			APIKey:  v.GetString("ORDER_API_KEY"),
		},
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch {
	case c.DatabaseURL == "":
		return errMissing("DATABASE_URL")
	case c.JWTSecret == "":
		return errMissing("JWT_SECRET")
	case c.APIKeyHash == "":
		return errMissing("API_KEY_HASH")
	case c.Pricing.BatchSize <= 0:
		return errInvalid("PRICING_BATCH_SIZE")
	case c.SMTP.Host != "" && len(c.SMTP.OrderTo) == 0:
		// Every checkout would fail on the seller copy.
		return errMissing("ORDER_EMAIL_TO")
	}
	return nil
}

func errMissing(key string) error { return errors.Newf("config: %s is required", key) }

func errInvalid(key string) error { return errors.Newf("config: %s is invalid", key) }

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
