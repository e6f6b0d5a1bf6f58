// Package config loads runtime settings from a YAML file and the environment.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit config file is given.
const DefaultPath = "dyeflow.yaml"

// Config holds every runtime setting.
type Config struct {
	Addr      string `yaml:"addr"`
	RootLabel string `yaml:"root_label"`
	LogLevel  string `yaml:"log_level"`
	Seed      bool   `yaml:"seed"`
	Store     Store  `yaml:"store"`
}

// Store selects and configures the snapshot backend.
type Store struct {
	Kind        string `yaml:"kind"` // memory, file, redis or postgres
	Path        string `yaml:"path"`
	RedisURL    string `yaml:"redis_url"`
	PostgresURL string `yaml:"postgres_url"`

	// EncryptionKey, when set, is a base64 AES-256 key; snapshots are then
	// encrypted at rest.
	EncryptionKey string `yaml:"encryption_key"`
}

// Key decodes EncryptionKey. It returns nil when encryption is disabled.
func (s Store) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store.encryption_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("store.encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:      ":8080",
		RootLabel: "Warehouse",
		LogLevel:  "info",
		Seed:      true,
		Store: Store{
			Kind:     "memory",
			Path:     ".dyeflow/snapshots",
			RedisURL: "redis://localhost:6379/0",
		},
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.Addr = getenv("DYEFLOW_ADDR", cfg.Addr)
	cfg.LogLevel = getenv("DYEFLOW_LOG_LEVEL", cfg.LogLevel)
	cfg.Store.Kind = getenv("DYEFLOW_STORE", cfg.Store.Kind)
	cfg.Store.RedisURL = getenv("DYEFLOW_REDIS_URL", cfg.Store.RedisURL)
	cfg.Store.PostgresURL = getenv("DATABASE_URL", cfg.Store.PostgresURL)
	cfg.Store.EncryptionKey = getenv("DYEFLOW_SNAPSHOT_KEY", cfg.Store.EncryptionKey)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case "memory", "file", "redis", "postgres":
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.Store.Kind == "postgres" && c.Store.PostgresURL == "" {
		return fmt.Errorf("postgres store requires store.postgres_url or DATABASE_URL")
	}
	if _, err := c.Store.Key(); err != nil {
		return err
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c Config) SlogLevel() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
