package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	minSessionSecretLen = 32
)

// Config is the process configuration. It is loaded once in main and handed
// to each collaborator explicitly; nothing reads the environment after startup.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	Database       DatabaseConfig
	Session        SessionConfig
	Bootstrap      BootstrapConfig

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig configures the Postgres pool. Only used when StorageBackend is "postgres".
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
}

// SessionConfig configures member session tokens and the session cookie.
type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	Issuer       string        `env:"SESSION_ISSUER" envDefault:"member-portal"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"true"`
}

// BootstrapConfig optionally seeds an admin member at startup when none with
// that email exists. Both fields must be set together.
type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// Enabled reports whether an admin should be seeded.
func (b BootstrapConfig) Enabled() bool {
	return b.AdminEmail != "" && b.AdminPassword != ""
}

// LoadFromEnv parses the environment into a Config and validates it.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.StorageBackend) {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Database.URL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORAGE_BACKEND=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be memory or postgres, got %q", c.StorageBackend))
	}

	if len(c.Session.Secret) < minSessionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Session.Issuer == "" {
		errs = append(errs, errors.New("SESSION_ISSUER must be non-empty"))
	}

	if (c.Bootstrap.AdminEmail == "") != (c.Bootstrap.AdminPassword == "") {
		errs = append(errs, errors.New("BOOTSTRAP_ADMIN_EMAIL and BOOTSTRAP_ADMIN_PASSWORD must be set together"))
	}

	return errors.Join(errs...)
}
