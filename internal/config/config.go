package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"golang.org/x/crypto/bcrypt"

	"matchTracker/internal/sqlbuild"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	HTTP     HTTPConfig     `koanf:"http"`
	Auth     AuthConfig     `koanf:"auth"`
	Session  SessionConfig  `koanf:"session"`
	Log      LogConfig      `koanf:"log"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"` // sqlite3 | postgres
	DSN             string        `koanf:"dsn"`    // file path for sqlite3, connection string for postgres
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address         string        `koanf:"address"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	TrustedProxies  []string      `koanf:"trusted_proxies"`  // IPs or CIDRs allowed to set X-Forwarded-For
	LoginRateLimit  int           `koanf:"login_rate_limit"` // requests per window per IP; 0 disables
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

// AuthConfig contains credential settings.
type AuthConfig struct {
	BcryptCost int `koanf:"bcrypt_cost"`
}

// SessionConfig contains session store and token settings.
type SessionConfig struct {
	Secret       string        `koanf:"secret"` // signs cookies and bearer tokens
	TTL          time.Duration `koanf:"ttl"`
	Store        string        `koanf:"store"`       // memory | badger
	BadgerPath   string        `koanf:"badger_path"` // directory for the badger store
	CookieName   string        `koanf:"cookie_name"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

const devSessionSecret = "dev-secret-change-me"

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          "sqlite3",
			DSN:             "matchtracker.db",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		HTTP: HTTPConfig{
			Address:         ":5000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
		Auth: AuthConfig{
			BcryptCost: bcrypt.DefaultCost,
		},
		Session: SessionConfig{
			TTL:        24 * time.Hour,
			Store:      "memory",
			BadgerPath: "sessions",
			CookieName: "session",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and environment
// variables (in increasing priority). A .env file in the working directory is
// read first if present. SESSION_SECRET is required.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a fixed SESSION_SECRET when none is set.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = devSessionSecret
	}
	return cfg, nil
}

func load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	for _, key := range []string{"http.cors_origins", "http.trusted_proxies"} {
		if v, ok := k.Get(key).(string); ok {
			if err := k.Set(key, splitList(v)); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKeys maps supported environment variables to config paths.
var envKeys = map[string]string{
	"DB_DRIVER":             "database.driver",
	"DB_DSN":                "database.dsn",
	"DB_PATH":               "database.dsn",
	"DB_MAX_OPEN_CONNS":     "database.max_open_conns",
	"DB_MAX_IDLE_CONNS":     "database.max_idle_conns",
	"DB_CONN_MAX_LIFETIME":  "database.conn_max_lifetime",
	"HTTP_ADDRESS":          "http.address",
	"HTTP_READ_TIMEOUT":     "http.read_timeout",
	"HTTP_WRITE_TIMEOUT":    "http.write_timeout",
	"CORS_ORIGINS":          "http.cors_origins",
	"TRUSTED_PROXIES":       "http.trusted_proxies",
	"LOGIN_RATE_LIMIT":      "http.login_rate_limit",
	"LOGIN_RATE_WINDOW":     "http.login_rate_window",
	"BCRYPT_COST":           "auth.bcrypt_cost",
	"SESSION_SECRET":        "session.secret",
	"SESSION_TTL":           "session.ttl",
	"SESSION_STORE":         "session.store",
	"SESSION_BADGER_PATH":   "session.badger_path",
	"SESSION_COOKIE_NAME":   "session.cookie_name",
	"SESSION_COOKIE_SECURE": "session.cookie_secure",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
}

// envKey returns the config path for an environment variable, or "" to skip it.
func envKey(name string) string {
	return envKeys[strings.ToUpper(name)]
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range []string{"config.yaml", "config.yml"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if _, err := sqlbuild.DialectFor(c.Database.Driver); err != nil {
		return err
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return errors.New("DB_DSN is required for the postgres driver")
	}
	switch c.Session.Store {
	case "memory", "badger":
	default:
		return fmt.Errorf("invalid SESSION_STORE %q (want memory or badger)", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	for _, p := range c.HTTP.TrustedProxies {
		if !validProxy(p) {
			return fmt.Errorf("invalid TRUSTED_PROXIES entry %q (want an IP or CIDR)", p)
		}
	}
	if c.HTTP.Address == "" {
		return errors.New("HTTP_ADDRESS must not be empty")
	}
	return nil
}

func validProxy(s string) bool {
	if _, err := netip.ParsePrefix(s); err == nil {
		return true
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	dsn := c.Database.DSN
	if c.Database.Driver == "postgres" {
		dsn = "*** (masked) ***"
	}
	return fmt.Sprintf("Config{DB: %s %s, HTTP: %s, Session: %s ttl=%s, Secret: *** (masked) ***}",
		c.Database.Driver, dsn, c.HTTP.Address, c.Session.Store, c.Session.TTL)
}
