package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Email provider names accepted by EMAIL_PROVIDER.
const (
	EmailProviderNoop   = "noop"
	EmailProviderResend = "resend"
	EmailProviderSES    = "ses"
)

const devJWTSecret = "dev-only-insecure-jwt-secret"

// Config holds the process configuration read from the environment.
type Config struct {
	Port     string `envconfig:"PORT" default:"3000"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	DBPath   string `envconfig:"DB_PATH" default:"growfitness.db"`

	CORSOrigin  string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	JWTSecret           string        `envconfig:"JWT_SECRET"`
	JWTIssuer           string        `envconfig:"JWT_ISSUER" default:"growfitness"`
	JWTExpiresIn        time.Duration `envconfig:"JWT_EXPIRES_IN" default:"15m"`
	JWTRefreshExpires   time.Duration `envconfig:"JWT_REFRESH_EXPIRES_IN" default:"168h"`
	PasswordResetTTLSec int           `envconfig:"PASSWORD_RESET_TOKEN_EXPIRY" default:"3600"`

	EmailProvider string `envconfig:"EMAIL_PROVIDER" default:"noop"`
	EmailFrom     string `envconfig:"EMAIL_FROM" default:"Grow Fitness <no-reply@growfitness.com>"`
	ResendAPIKey  string `envconfig:"RESEND_API_KEY"`
	AWSRegion     string `envconfig:"AWS_REGION" default:"us-east-1"`

	WhatsAppAPIURL  string `envconfig:"WHATSAPP_API_URL" default:"https://graph.facebook.com/v19.0"`
	WhatsAppToken   string `envconfig:"WHATSAPP_TOKEN"`
	WhatsAppPhoneID string `envconfig:"WHATSAPP_PHONE_ID"`

	RedisAddr         string        `envconfig:"REDIS_ADDR"`
	RedisPassword     string        `envconfig:"REDIS_PASSWORD"`
	DashboardCacheTTL time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"30s"`

	RateLimitPerSecond int           `envconfig:"RATE_LIMIT_PER_SECOND" default:"20"`
	OutboxInterval     time.Duration `envconfig:"OUTBOX_INTERVAL" default:"1m"`
	CSRFKey            string        `envconfig:"CSRF_KEY"`

	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@growfitness.com"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	SlowQueryMs   int `envconfig:"SLOW_QUERY_MS" default:"50"`
	SlowRequestMs int `envconfig:"SLOW_REQUEST_MS" default:"200"`
}

var (
	ErrMissingJWTSecret     = errors.New("JWT_SECRET is required in production")
	ErrUnknownEmailProvider = errors.New("EMAIL_PROVIDER must be one of: noop, resend, ses")
	ErrMissingResendKey     = errors.New("RESEND_API_KEY is required when EMAIL_PROVIDER=resend")
)

// Load reads an optional .env file and then the process environment.
// PRE: none
// POST: Returns a validated Config; JWTSecret falls back to a dev value outside production
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("dotenv_load_failed", "error", err)
	}
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks cross-field rules and applies development fallbacks.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return ErrMissingJWTSecret
		}
		c.JWTSecret = devJWTSecret
	}
	switch c.EmailProvider {
	case EmailProviderNoop, EmailProviderSES:
	case EmailProviderResend:
		if c.ResendAPIKey == "" {
			return ErrMissingResendKey
		}
	default:
		return ErrUnknownEmailProvider
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// SlogLevel maps LOG_LEVEL onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: JSON in production, text elsewhere.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
