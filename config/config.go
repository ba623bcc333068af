package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBUrl       string
	Environment string
	Port        string

	UpstreamAPIURL   string
	ShareBaseURL     string
	SessionizeAPIURL string
	DefaultTimezone  string
	RequestTimeout   time.Duration
	AllowedOrigins   []string

	// JWTSecret verifies upstream access tokens locally. When empty, each new
	// token is confirmed with the upstream API instead.
	JWTSecret string

	DraftIdleTTL      time.Duration
	DraftSucceededTTL time.Duration

	Email EmailConfig
}

// EmailConfig selects and configures the outbound mail provider.
type EmailConfig struct {
	Provider           string
	FromAddress        string
	FromName           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production the environment is authoritative and .env may not exist.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	return fromEnv(env, os.Getenv)
}

func fromEnv(env string, getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Environment:      env,
		DBUrl:            get("DATABASE_URL", ""),
		Port:             get("PORT", "8080"),
		UpstreamAPIURL:   get("UPSTREAM_API_URL", "http://localhost:8000"),
		ShareBaseURL:     get("SHARE_BASE_URL", "https://infinitebz.com"),
		SessionizeAPIURL: get("SESSIONIZE_API_URL", "https://sessionize.com/api/v2"),
		DefaultTimezone:  get("DEFAULT_TIMEZONE", get("TZ", "UTC")),
		AllowedOrigins:   splitList(getenv("CORS_ALLOWED_ORIGINS")),
		JWTSecret:        getenv("JWT_SECRET"),
		Email: EmailConfig{
			Provider:           strings.ToLower(get("EMAIL_PROVIDER", "noop")),
			FromAddress:        get("EMAIL_FROM_ADDRESS", ""),
			FromName:           get("EMAIL_FROM_NAME", "InfiniteBZ"),
			AWSRegion:          get("AWS_REGION", ""),
			AWSAccessKeyID:     get("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey: get("AWS_SECRET_ACCESS_KEY", ""),
		},
	}

	var errs []error
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(get(key, def))
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		case d <= 0:
			errs = append(errs, fmt.Errorf("%s: must be positive, got %s", key, d))
		}
		return d
	}
	cfg.RequestTimeout = duration("REQUEST_TIMEOUT", "10s")
	cfg.DraftIdleTTL = duration("DRAFT_IDLE_TTL", "2h")
	cfg.DraftSucceededTTL = duration("DRAFT_SUCCEEDED_TTL", "10m")
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_TIMEZONE: %w", err))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
