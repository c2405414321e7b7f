package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Files     FilesConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Auth      AuthConfig
	Volumes   VolumesConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host      string `envconfig:"HOST" default:"localhost"`
	Port      string `envconfig:"PORT" default:"3000"`
	StaticDir string `envconfig:"STATIC_DIR" default:"./public"`
	// AllowedIPs restricts clients when non-empty. Loopback is always allowed.
	AllowedIPs  []string `envconfig:"ALLOWED_IPS" default:""`
	TLSCertFile string   `envconfig:"TLS_CERT_FILE" default:""`
	TLSKeyFile  string   `envconfig:"TLS_KEY_FILE" default:""`
}

// FilesConfig controls which part of the host filesystem is exposed.
// An empty Root exposes every volume.
type FilesConfig struct {
	Root string `envconfig:"FILES_ROOT" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds allowed browser origins. Empty means same-origin only; "*" allows every origin.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS"`
}

// AuthConfig holds bearer token settings. Auth is off unless explicitly enabled.
type AuthConfig struct {
	Enabled     bool          `envconfig:"AUTH_ENABLED" default:"false"`
	Secret      string        `envconfig:"AUTH_SECRET" default:""`
	TokenExpiry time.Duration `envconfig:"AUTH_TOKEN_EXPIRY" default:"2160h"`
}

// VolumesConfig holds volume usage caching settings.
type VolumesConfig struct {
	UsageTTL time.Duration `envconfig:"VOLUME_USAGE_TTL" default:"5s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "localhost",
			Port:      "3000",
			StaticDir: "./public",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Auth: AuthConfig{
			TokenExpiry: 90 * 24 * time.Hour,
		},
		Volumes: VolumesConfig{
			UsageTTL: 5 * time.Second,
		},
	}
}

// TLSEnabled reports whether both certificate and key are configured.
func (c *Config) TLSEnabled() bool {
	return c.Server.TLSCertFile != "" && c.Server.TLSKeyFile != ""
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
