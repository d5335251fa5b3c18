// Package config loads portplan settings from YAML with environment
// fallbacks.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "portplan.yaml"

// Store drivers.
const (
	DriverDir      = "dir"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the top-level YAML configuration.
type Config struct {
	ShipsDir string `yaml:"ships_dir"`
	Seed     uint64 `yaml:"seed"` // 0 = time-seeded random defaults
	Store    Store  `yaml:"store"`
	Server   Server `yaml:"server"`
	Log      Log    `yaml:"log"`
}

// Store selects where ship documents live.
type Store struct {
	Driver     string     `yaml:"driver"`
	SQLitePath string     `yaml:"sqlite_path"`
	Postgres   Connection `yaml:"postgres"`
}

// Connection holds PostgreSQL connection parameters.
type Connection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Server holds HTTP listener settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console | json
	File   string `yaml:"file"`   // append to this file instead of stderr
}

// DSN builds a PostgreSQL connection string.
func (c *Connection) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
	)
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	_ = cfg.validate()
	return cfg
}

// Load reads and parses a YAML config file. When path is DefaultPath and
// the file does not exist, defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnv fills in empty fields from environment variables.
// YAML values take precedence; env vars are used only as fallback.
func (c *Config) applyEnv() {
	if c.ShipsDir == "" {
		c.ShipsDir = envOr("PORTPLAN_SHIPS_DIR")
	}
	if c.Store.Driver == "" {
		c.Store.Driver = envOr("PORTPLAN_STORE")
	}
	if c.Server.Addr == "" {
		c.Server.Addr = envOr("PORTPLAN_ADDR")
	}
	if c.Log.Level == "" {
		c.Log.Level = envOr("PORTPLAN_LOG_LEVEL")
	}

	conn := &c.Store.Postgres
	if conn.Host == "" {
		conn.Host = envOr("PGHOST", "POSTGRES_HOST")
	}
	if conn.Port == 0 {
		if s := envOr("PGPORT", "POSTGRES_PORT"); s != "" {
			if p, err := strconv.Atoi(s); err == nil {
				conn.Port = p
			}
		}
	}
	if conn.Database == "" {
		conn.Database = envOr("PGDATABASE", "POSTGRES_DB")
	}
	if conn.User == "" {
		conn.User = envOr("PGUSER", "POSTGRES_USER")
	}
	if conn.Password == "" {
		conn.Password = envOr("PGPASSWORD", "POSTGRES_PASSWORD")
	}
	if conn.SSLMode == "" {
		conn.SSLMode = envOr("PGSSLMODE")
	}
}

// envOr returns the first non-empty value from the given env var names.
func envOr(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// validate fills defaults and rejects settings no store can serve.
func (c *Config) validate() error {
	if c.ShipsDir == "" {
		c.ShipsDir = "ships"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverDir
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "portplan.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}

	conn := &c.Store.Postgres
	if conn.Port == 0 {
		conn.Port = 5432
	}
	if conn.SSLMode == "" {
		conn.SSLMode = "disable"
	}

	switch c.Store.Driver {
	case DriverDir, DriverSQLite:
	case DriverPostgres:
		if conn.Host == "" {
			return fmt.Errorf("store.postgres.host is required")
		}
		if conn.Database == "" {
			return fmt.Errorf("store.postgres.database is required")
		}
		if conn.User == "" {
			return fmt.Errorf("store.postgres.user is required")
		}
	default:
		return fmt.Errorf("unknown store.driver %q (want dir, sqlite or postgres)", c.Store.Driver)
	}
	return nil
}
