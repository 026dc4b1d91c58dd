package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/edvin/crmpanel/internal/session"
)

const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

type Config struct {
	HTTPListenAddr    string `env:"HTTP_LISTEN_ADDR, default=:3001"`
	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR"`
	ServiceName       string `env:"SERVICE_NAME, default=crm-admin"`
	LogLevel          string `env:"LOG_LEVEL, default=info"`
	LogPretty         bool   `env:"LOG_PRETTY, default=false"`

	CRMAPIURL     string        `env:"CRM_API_URL, default=http://localhost:8080" validate:"url"`
	CRMAPITimeout time.Duration `env:"CRM_API_TIMEOUT, default=30s" validate:"gt=0"`
	CRMAPITLS     APITLSConfig

	Session SessionConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Backend      string        `env:"SESSION_BACKEND, default=cookie" validate:"oneof=cookie redis"`
	CookieName   string        `env:"SESSION_COOKIE_NAME, default=token" validate:"required"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL, default=24h" validate:"gt=0"`
}

// APITLSConfig holds optional TLS settings for the CRM API connection: a
// private CA, a client certificate, or both.
type APITLSConfig struct {
	CACert     string `env:"CRM_API_TLS_CA_CERT"`
	Cert       string `env:"CRM_API_TLS_CERT"`
	Key        string `env:"CRM_API_TLS_KEY"`
	ServerName string `env:"CRM_API_TLS_SERVER_NAME"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB, default=0" validate:"gte=0"`
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads the configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	var missing []string
	if c.CRMAPIURL == "" {
		missing = append(missing, "CRM_API_URL")
	}
	switch c.Session.Backend {
	case SessionBackendCookie:
		if c.Session.Secret == "" {
			missing = append(missing, "SESSION_SECRET")
		}
	case SessionBackendRedis:
		if c.Redis.Addr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if c.Session.Backend == SessionBackendCookie && len(c.Session.Secret) < session.MinSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", session.MinSecretLength)
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CookieOptions returns the session cookie settings.
func (c *Config) CookieOptions() session.CookieOptions {
	return session.CookieOptions{
		Name:   c.Session.CookieName,
		Path:   "/",
		Secure: c.Session.CookieSecure,
		TTL:    c.Session.TTL,
	}
}
