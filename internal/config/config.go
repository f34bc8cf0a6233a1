// Package config loads anticheat configuration from defaults, an optional
// TOML file and ANTICHEAT_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v9"
	"go.uber.org/zap/zapcore"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/infra"
	"github.com/eliteGoblin/focusd/anti_cheat/internal/policy"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ANTICHEAT_"

// Enforcement holds the commands backing the enforcement handle.
type Enforcement struct {
	Pin            []string `toml:"pin" env:"PIN_COMMAND" envSeparator:" "`
	Unpin          []string `toml:"unpin" env:"UNPIN_COMMAND" envSeparator:" "`
	BlockCapture   []string `toml:"block_capture" env:"BLOCK_CAPTURE_COMMAND" envSeparator:" "`
	UnblockCapture []string `toml:"unblock_capture" env:"UNBLOCK_CAPTURE_COMMAND" envSeparator:" "`
}

// Config is the full anticheat configuration.
type Config struct {
	ProtectedApp   string      `toml:"protected_app" env:"PROTECTED_APP"`
	Profile        string      `toml:"profile" env:"PROFILE"`
	PollIntervalMs int         `toml:"poll_interval_ms" env:"POLL_INTERVAL_MS"`
	DataDir        string      `toml:"data_dir" env:"DATA_DIR"`
	LogLevel       string      `toml:"log_level" env:"LOG_LEVEL"`
	JournalEnabled bool        `toml:"journal_enabled" env:"JOURNAL_ENABLED"`
	Enforcement    Enforcement `toml:"enforcement"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Profile:        policy.DefaultProfileID,
		PollIntervalMs: 1000,
		DataDir:        infra.DetectExecMode().DataDir,
		LogLevel:       "info",
		JournalEnabled: true,
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.ProtectedApp = strings.TrimSpace(cfg.ProtectedApp)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values. ProtectedApp is checked by commands that need it.
func (c *Config) Validate() error {
	var errs []error

	if c.PollIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMs))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir must be set"))
	}

	return errors.Join(errs...)
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Level returns the parsed log level, defaulting to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// EnforcementCommands converts the enforcement section for infra.
func (c *Config) EnforcementCommands() infra.EnforcementCommands {
	return infra.EnforcementCommands{
		Pin:            c.Enforcement.Pin,
		Unpin:          c.Enforcement.Unpin,
		BlockCapture:   c.Enforcement.BlockCapture,
		UnblockCapture: c.Enforcement.UnblockCapture,
	}
}
