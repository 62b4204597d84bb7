// Package config loads the command line configuration.
//
// Priority, lowest first: defaults, config file, environment, flags. Flags are
// applied by the caller after Load.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig   = "PROSESSILOUHINTA_CONFIG"
	EnvLag      = "PROSESSILOUHINTA_LAG"
	EnvExit     = "PROSESSILOUHINTA_EXIT"
	EnvFormat   = "PROSESSILOUHINTA_FORMAT"
	EnvColor    = "PROSESSILOUHINTA_COLOR"
	EnvLogLevel = "PROSESSILOUHINTA_LOG_LEVEL"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Config controls how networks are built and reported.
type Config struct {
	// Lag is the network lag added to the earliest start of every source.
	Lag float64 `json:"lag" yaml:"lag" validate:"gte=0"`

	// CommonExit joins all leaves into a zero duration COMMON_EXIT activity.
	CommonExit bool `json:"common_exit" yaml:"common_exit"`

	Format   string `json:"format" yaml:"format" validate:"oneof=text json dot"`
	Color    bool   `json:"color" yaml:"color"`
	LogLevel string `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Format:   FormatText,
		Color:    true,
		LogLevel: "warn",
	}
}

// Load builds the configuration from defaults, the file at path (if any)
// and the environment. An empty path falls back to $PROSESSILOUHINTA_CONFIG.
// A path naming a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// YAML first, then JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv(EnvLag); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLag, err)
		}
		cfg.Lag = f
	}
	if v := os.Getenv(EnvExit); v != "" {
		cfg.CommonExit = truthy(v)
	}
	if v := os.Getenv(EnvFormat); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvColor); v != "" {
		cfg.Color = truthy(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}

func truthy(v string) bool {
	return v == "true" || v == "1"
}

// Validate checks field ranges and enumerations.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// Level maps LogLevel to a slog level. Unknown values map to warn.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
