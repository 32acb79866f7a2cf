package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	BaseURL   string `env:"BASE_URL,  default=http://localhost:8080"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Session  SessionConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Postgres PostgresConfig

	Analytics AnalyticsConfig
	Credits   CreditsConfig
	Webhook   WebhookConfig
	Google    GoogleConfig
	Stripe    StripeConfig
	Mail      MailConfig
}

type SessionConfig struct {
	CookieName    string        `env:"SESSION_COOKIE_NAME, default=zecall_session"`
	TTL           time.Duration `env:"SESSION_TTL,         default=24h"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL,     default=1h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=zecall"`
}

// RedisConfig accepts either REDIS_URL (redis:// or rediss://) or the
// discrete REDIS_* settings.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Username string `env:"REDIS_USERNAME"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	TLS      bool   `env:"REDIS_TLS,      default=false"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN, default=postgres://localhost:5432/zecall?sslmode=disable"`
}

// AnalyticsConfig points at the microservice that owns credit balances.
type AnalyticsConfig struct {
	URL        string        `env:"ANALYTICS_URL,         default=http://localhost:8000"`
	APIKey     string        `env:"ANALYTICS_API_KEY"`
	Timeout    time.Duration `env:"ANALYTICS_TIMEOUT,     default=10s"`
	MaxRetries int           `env:"ANALYTICS_MAX_RETRIES, default=2"`
}

type CreditsConfig struct {
	CostPerSecond float64 `env:"CALL_COST_PER_SECOND, default=0.01"`
}

// WebhookConfig guards the call-status webhook. An empty Secret disables the
// bearer check.
type WebhookConfig struct {
	Secret  string `env:"WEBHOOK_SECRET"`
	Workers int    `env:"WEBHOOK_WORKERS, default=4"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GMAIL_REDIRECT_URL"`
}

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

// MailConfig selects the transactional mailer. SES is used when From is set.
// Static AWS keys are optional; the default credential chain is used otherwise.
type MailConfig struct {
	From               string `env:"MAIL_FROM"`
	SESRegion          string `env:"SES_REGION, default=us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// GmailRedirectURL defaults to the callback route on BaseURL.
func (c *Config) GmailRedirectURL() string {
	if c.Google.RedirectURL != "" {
		return c.Google.RedirectURL
	}
	return c.BaseURL + "/api/gmail/callback"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves configuration from an arbitrary lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	return &cfg, nil
}
