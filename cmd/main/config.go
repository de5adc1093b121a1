package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
)

// ModelConfig holds the defaults used when training and generating.
type ModelConfig struct {
	WindowLength int     `toml:"window_length"`
	Length       int     `toml:"length"`
	Seed         *uint64 `toml:"seed,omitempty"`
}

// StorageConfig holds the location of the corpus database.
type StorageConfig struct {
	DatabasePath string `toml:"database_path"`
}

// ServerConfig holds the configuration for the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	LogLevel string        `toml:"log_level"`
	Model    ModelConfig   `toml:"model"`
	Storage  StorageConfig `toml:"storage"`
	Server   ServerConfig  `toml:"server"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Model: ModelConfig{
			WindowLength: 4,
			Length:       500,
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(xdgDataHome(), "charlm", "charlm.db"),
		},
		Server: ServerConfig{
			Addr: ":7280",
		},
	}
}

// LoadConfig reads the configuration from a TOML file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	config := DefaultConfig()

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat config file: %w", err)
		}
		// If the file doesn't exist, create it with the default config.
		var buf bytes.Buffer
		if err = toml.NewEncoder(&buf).Encode(config); err != nil {
			return nil, fmt.Errorf("failed to encode default config: %w", err)
		}
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			err = atomic.WriteFile(path, &buf)
		}
		if err != nil {
			// The defaults are still usable without a file on disk.
			fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
		}
		return config, nil
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Model.WindowLength <= 0 {
		return fmt.Errorf("model.window_length must be positive, got %d", c.Model.WindowLength)
	}
	if c.Model.Length < 0 {
		return fmt.Errorf("model.length must not be negative, got %d", c.Model.Length)
	}
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is empty")
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

func xdgDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// defaultConfigPath returns the default TOML config path.
func defaultConfigPath() string {
	return filepath.Join(xdgConfigHome(), "charlm", "config.toml")
}
