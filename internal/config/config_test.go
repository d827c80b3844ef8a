package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "newsdesk", SSLMode: "disable"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		NATS:  NATSConfig{URL: "nats://localhost:4222"},
		Auth:  AuthConfig{JWTSecret: "secret", AccessTokenTTL: 15 * time.Minute, RefreshTokenTTL: 720 * time.Hour},
		WhatsApp: WhatsAppConfig{
			VerifyToken:   "verify",
			AccessToken:   "token",
			PhoneNumberID: "1234567890",
			APIBaseURL:    "https://graph.facebook.com/v19.0",
		},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_OK(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	c.DB.SSLMode = ""
	c.Auth.JWTIssuer = "newsdesk"
	c.Auth.JWTAudience = "newsdesk-api"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_RequiresWhatsAppCredentials(t *testing.T) {
	c := validConfig()
	c.WhatsApp.VerifyToken = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for missing WA_VERIFY_TOKEN")
	}
}

func TestApplyDefaults(t *testing.T) {
	c := validConfig()
	c.DB.SSLMode = ""
	c.Auth.AccessTokenTTL = 0
	c.Auth.RefreshTokenTTL = 0
	c.WhatsApp.APIBaseURL = ""
	c.applyDefaults()

	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Auth.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("access ttl default = %v", c.Auth.AccessTokenTTL)
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		t.Fatalf("refresh ttl default = %v", c.Auth.RefreshTokenTTL)
	}
	if c.WhatsApp.APIBaseURL == "" {
		t.Fatalf("expected api base url default")
	}
}
