package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// TestProcess_Defaults verifies envconfig defaults match the documented values.
func TestProcess_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGIN", "")
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Port != "3000" {
		t.Errorf("expected port 3000, got %s", c.Port)
	}
	if c.CORSOrigin != "http://localhost:5173" {
		t.Errorf("expected default CORS origin, got %s", c.CORSOrigin)
	}
	if c.JWTExpiresIn != 15*time.Minute {
		t.Errorf("expected 15m access TTL, got %s", c.JWTExpiresIn)
	}
	if c.AdminEmail != "admin@growfitness.com" {
		t.Errorf("expected default admin email, got %s", c.AdminEmail)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"dev without secret falls back", Config{Env: "development", EmailProvider: EmailProviderNoop}, nil},
		{"production without secret", Config{Env: "production", EmailProvider: EmailProviderNoop}, ErrMissingJWTSecret},
		{"resend without key", Config{JWTSecret: "s", EmailProvider: EmailProviderResend}, ErrMissingResendKey},
		{"unknown provider", Config{JWTSecret: "s", EmailProvider: "pigeon"}, ErrUnknownEmailProvider},
		{"ses ok", Config{JWTSecret: "s", EmailProvider: EmailProviderSES}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err == nil && tt.cfg.JWTSecret == "" {
				t.Error("expected JWTSecret to be populated")
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := (Config{LogLevel: in}).SlogLevel(); got != want {
			t.Errorf("SlogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
