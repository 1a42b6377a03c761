// Package config loads the uwazi configuration from YAML with environment
// overrides and opens the configured dataset source.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Dataset source kinds.
const (
	SourceBuiltin = "builtin"
	SourceJSON    = "json"
	SourceSQLite  = "sqlite"
)

// ValidSources lists every dataset source OpenDataset understands.
var ValidSources = []string{SourceBuiltin, SourceJSON, SourceSQLite}

// Config holds all configuration for the uwazi server and CLI.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Dataset DatasetConfig `yaml:"dataset"`
}

type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     string   `yaml:"read_timeout"`
	WriteTimeout    string   `yaml:"write_timeout"`
	IdleTimeout     string   `yaml:"idle_timeout"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DatasetConfig selects where the entity store is loaded from. Path is
// required for the json and sqlite sources.
type DatasetConfig struct {
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     "15s",
			WriteTimeout:    "15s",
			IdleTimeout:     "60s",
			ShutdownTimeout: "30s",
			AllowedOrigins:  []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Dataset: DatasetConfig{
			Source: SourceBuiltin,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error; an
// empty path skips the file entirely. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("UWAZI_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid UWAZI_PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	if level := os.Getenv("UWAZI_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("UWAZI_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}
	if source := os.Getenv("UWAZI_DATASET_SOURCE"); source != "" {
		c.Dataset.Source = source
	}
	if path := os.Getenv("UWAZI_DATASET_PATH"); path != "" {
		c.Dataset.Path = path
	}
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	for name, d := range map[string]string{
		"read_timeout":     c.Server.ReadTimeout,
		"write_timeout":    c.Server.WriteTimeout,
		"idle_timeout":     c.Server.IdleTimeout,
		"shutdown_timeout": c.Server.ShutdownTimeout,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid server %s %q: %w", name, d, err)
		}
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %s (valid: json, console)", c.Logging.Format)
	}
	if !slices.Contains(ValidSources, c.Dataset.Source) {
		return fmt.Errorf("invalid dataset source: %s (valid: %v)", c.Dataset.Source, ValidSources)
	}
	if c.Dataset.Source != SourceBuiltin && c.Dataset.Path == "" {
		return fmt.Errorf("dataset source %s requires dataset.path", c.Dataset.Source)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// GetReadTimeout returns the read timeout as a duration.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the write timeout as a duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 15*time.Second)
}

// GetIdleTimeout returns the idle timeout as a duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return parseDuration(c.Server.IdleTimeout, 60*time.Second)
}

// GetShutdownTimeout returns the graceful shutdown timeout as a duration.
func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
