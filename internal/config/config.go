// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// JWTSigningSecret is the HMAC secret used to sign token claims. Required
	// at server startup; the server refuses to start without it.
	JWTSigningSecret string `mapstructure:"JWT_SIGNING_SECRET"`
	// TokenEncryptionKey is the urlsafe-base64 encoded 256-bit key for the
	// token envelope cipher. Required at server startup.
	TokenEncryptionKey string `mapstructure:"TOKEN_ENCRYPTION_KEY"`
	// AccessTokenTTL is the access token lifetime (e.g. "30m").
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// StrictSessionBinding rejects legacy tokens whose claims carry no
	// session id. Default false: such tokens still resolve to a user.
	StrictSessionBinding bool `mapstructure:"STRICT_SESSION_BINDING"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. localhost:4317).
	// Empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
// Presence of the signing secret and encryption key is enforced by the
// security constructors at server startup, not here, so cmd/migrate can run
// without them.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SIGNING_SECRET", "")
	v.SetDefault("TOKEN_ENCRYPTION_KEY", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("STRICT_SESSION_BINDING", false)
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	if cfg.AccessTokenTTL == "" {
		cfg.AccessTokenTTL = "30m"
	}
	if d, err := time.ParseDuration(cfg.AccessTokenTTL); err != nil || d <= 0 {
		return nil, errors.New("config: ACCESS_TOKEN_TTL must be a positive duration (e.g. 30m)")
	}

	return &cfg, nil
}

// AccessTTL parses AccessTokenTTL as a time.Duration. Load guarantees the
// value is a positive duration; a hand-built Config with an unset or invalid
// value falls back to 30m.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}
