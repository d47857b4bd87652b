// Package config loads nbcheck configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects what happens when a check fails.
const (
	ModeRaise = "raise" // failures abort the task render
	ModeWarn  = "warn"  // failures are logged, render continues
)

// Config holds all nbcheck configuration.
type Config struct {
	// Mode is raise or warn; it gates parameter-contract failures (and,
	// unless StrictSource is set, syntax/lint failures at the notebook
	// entry point).
	Mode string `yaml:"mode"`

	// StrictSource keeps syntax/lint failures fatal regardless of Mode.
	StrictSource bool `yaml:"strict_source"`

	Install InstallConfig `yaml:"install"`
	Logging LoggingConfig `yaml:"logging"`
}

// InstallConfig configures the environment installer.
type InstallConfig struct {
	// UseLock prefers requirements.lock.txt / environment.lock.yml over
	// the unpinned files when both exist.
	UseLock bool `yaml:"use_lock"`
	// CreateLock exports a lock file after a successful install.
	CreateLock bool `yaml:"create_lock"`
	// Timeout bounds one installer invocation, e.g. "10m".
	Timeout string `yaml:"timeout"`
}

// LoggingConfig configures the category logger.
type LoggingConfig struct {
	Debug      bool   `yaml:"debug"`
	Level      string `yaml:"level"`
	JSONFormat bool   `yaml:"json_format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Mode: ModeRaise,
		Install: InstallConfig{
			CreateLock: true,
			Timeout:    "15m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path, applies environment overrides and validates. A missing
// file is not an error: defaults plus overrides are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file, which is how
// pipeline runners tweak behavior per task.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NBCHECK_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("NBCHECK_STRICT_SOURCE"); v != "" {
		c.StrictSource = v == "1" || v == "true"
	}
	if v := os.Getenv("NBCHECK_DEBUG"); v != "" {
		c.Logging.Debug = v == "1" || v == "true"
	}
	if v := os.Getenv("NBCHECK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects values the rest of the system cannot act on.
func (c *Config) Validate() error {
	if c.Mode != ModeRaise && c.Mode != ModeWarn {
		return fmt.Errorf("invalid mode %q (want %q or %q)", c.Mode, ModeRaise, ModeWarn)
	}
	if c.Install.Timeout != "" {
		if _, err := time.ParseDuration(c.Install.Timeout); err != nil {
			return fmt.Errorf("invalid install timeout %q: %w", c.Install.Timeout, err)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return nil
}

// InstallTimeout parses Install.Timeout with a fallback.
func (c *Config) InstallTimeout() time.Duration {
	d, err := time.ParseDuration(c.Install.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}
