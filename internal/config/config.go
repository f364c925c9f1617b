package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultName is the database entry used when a requested name is absent.
	DefaultName = "default"

	// BackendSQL is the only supported database type tag.
	BackendSQL = "sql"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Databases map[string]DatabaseConfig `yaml:"databases"`
}

// DatabaseConfig describes one named database entry.
type DatabaseConfig struct {
	Type       string            `yaml:"type"`
	Connection ConnectionConfig  `yaml:"connection"`
	Options    map[string]string `yaml:"options"`
}

// ConnectionConfig holds the connection parameters of a database entry.
// DSN takes the form "<driver>:<driver dsn>", e.g. "sqlite:./data/app.db".
type ConnectionConfig struct {
	DSN      string `yaml:"dsn"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GetSetting returns a connection option, or "" when unset.
// It lets a DatabaseConfig back a Loader.
func (d DatabaseConfig) GetSetting(key string) (string, error) {
	return d.Options[key], nil
}

// Load reads and parses the YAML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if cfg.Databases == nil {
		cfg.Databases = make(map[string]DatabaseConfig)
	}
	return cfg, nil
}

// Lookup returns the database entry for name, falling back to the default
// entry when name is not configured. The returned string is the name of the
// entry actually used.
func (c *Config) Lookup(name string) (string, DatabaseConfig, bool) {
	if c == nil {
		return "", DatabaseConfig{}, false
	}
	if db, ok := c.Databases[name]; ok {
		return name, db, true
	}
	db, ok := c.Databases[DefaultName]
	return DefaultName, db, ok
}

// Server holds process settings read from WBN_* environment variables.
// Command line flags take precedence over these values.
type Server struct {
	ConfigPath          string `env:"CONFIG" envDefault:"./wbnkit.yaml"`
	Database            string `env:"DATABASE" envDefault:"default"`
	Address             string `env:"HTTP_ADDRESS" envDefault:":8080"`
	AutoMigrate         bool   `env:"AUTO_MIGRATE" envDefault:"false"`
	MaintenanceSchedule string `env:"MAINTENANCE_SCHEDULE" envDefault:"@daily"`
	Log                 Log    `envPrefix:"LOG_"`
}

// Log holds log file rotation settings.
type Log struct {
	File       string `env:"FILE"`
	MaxSizeMB  int    `env:"MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool   `env:"COMPRESS" envDefault:"true"`
}

// ParseServer reads server settings from the environment.
func ParseServer() (*Server, error) {
	srv, err := env.ParseAsWithOptions[Server](env.Options{
		Prefix: "WBN_",
	})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	srv.Database = strings.TrimSpace(srv.Database)
	return &srv, nil
}
