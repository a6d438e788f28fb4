// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for warrant.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Platform configures the chat platform API client.
	Platform PlatformConfig `yaml:"platform"`

	// Apply configures plan application pacing.
	Apply ApplyConfig `yaml:"apply"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths    *PathsConfig    `yaml:"paths,omitempty"`
	Platform *PlatformConfig `yaml:"platform,omitempty"`
	Apply    *ApplyConfig    `yaml:"apply,omitempty"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Root is the base directory for warrant data. Per-guild state
	// documents live under <root>/guilds/<guild-id>/.
	Root string `yaml:"root"`

	// Plans is where built plan files are written by default.
	Plans string `yaml:"plans"`
}

// PlatformConfig configures the chat platform API client.
type PlatformConfig struct {
	// BaseURL is the platform REST API base, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// TokenEnv names the environment variable holding the bot token.
	// Default: WARRANT_TOKEN.
	TokenEnv string `yaml:"token_env"`

	// TokenFile is a path to a file containing the bot token. Used
	// only when the TokenEnv variable is unset. Leading and trailing
	// whitespace is stripped.
	TokenFile string `yaml:"token_file"`
}

// ApplyConfig configures plan application pacing. Durations are Go
// duration strings ("100ms", "1s").
type ApplyConfig struct {
	// WriteDelay is the pause between consecutive overwrite writes.
	// Default: 100ms.
	WriteDelay string `yaml:"write_delay"`

	// MaxRetries is the number of attempts per write before the entry
	// is recorded as failed. Default: 3.
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the initial backoff after a rate-limit response
	// that carries no retry-after hint. Doubles per attempt.
	// Default: 1s.
	RetryBackoff string `yaml:"retry_backoff"`
}

// Default returns the default configuration. These defaults are used
// as a base before loading the config file; they exist to ensure all
// fields have sensible zero-values, not as a fallback - the config
// file is required.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".local", "share", "warrant")

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			Root:  defaultRoot,
			Plans: filepath.Join(defaultRoot, "plans"),
		},
		Platform: PlatformConfig{
			BaseURL:  "https://discord.com/api/v10",
			TokenEnv: "WARRANT_TOKEN",
		},
		Apply: ApplyConfig{
			WriteDelay:   "100ms",
			MaxRetries:   3,
			RetryBackoff: "1s",
		},
	}
}

// Load loads configuration from the WARRANT_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit
// path. There are no fallbacks or defaults - if WARRANT_CONFIG is not
// set, this fails. This ensures deterministic, auditable configuration
// with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("WARRANT_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("WARRANT_CONFIG environment variable not set; " +
			"set it to the path of your warrant.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values - this ensures deterministic, auditable
// configuration. The only expansion performed is ${HOME} and similar
// path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.Root != "" {
			c.Paths.Root = overrides.Paths.Root
		}
		if overrides.Paths.Plans != "" {
			c.Paths.Plans = overrides.Paths.Plans
		}
	}

	if overrides.Platform != nil {
		if overrides.Platform.BaseURL != "" {
			c.Platform.BaseURL = overrides.Platform.BaseURL
		}
		if overrides.Platform.TokenEnv != "" {
			c.Platform.TokenEnv = overrides.Platform.TokenEnv
		}
		if overrides.Platform.TokenFile != "" {
			c.Platform.TokenFile = overrides.Platform.TokenFile
		}
	}

	if overrides.Apply != nil {
		if overrides.Apply.WriteDelay != "" {
			c.Apply.WriteDelay = overrides.Apply.WriteDelay
		}
		if overrides.Apply.MaxRetries != 0 {
			c.Apply.MaxRetries = overrides.Apply.MaxRetries
		}
		if overrides.Apply.RetryBackoff != "" {
			c.Apply.RetryBackoff = overrides.Apply.RetryBackoff
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"WARRANT_ROOT": c.Paths.Root,
		"HOME":         os.Getenv("HOME"),
	}

	c.Paths.Root = expandVars(c.Paths.Root, vars)
	vars["WARRANT_ROOT"] = c.Paths.Root // Update for dependent paths.

	c.Paths.Plans = expandVars(c.Paths.Plans, vars)
	c.Platform.TokenFile = expandVars(c.Platform.TokenFile, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Paths.Root == "" {
		errs = append(errs, fmt.Errorf("paths.root is required"))
	}

	if c.Platform.BaseURL == "" {
		errs = append(errs, fmt.Errorf("platform.base_url is required"))
	}

	if _, err := time.ParseDuration(c.Apply.WriteDelay); err != nil {
		errs = append(errs, fmt.Errorf("apply.write_delay: %w", err))
	}
	if _, err := time.ParseDuration(c.Apply.RetryBackoff); err != nil {
		errs = append(errs, fmt.Errorf("apply.retry_backoff: %w", err))
	}
	if c.Apply.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("apply.max_retries must be at least 1"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// WriteDelay returns the parsed apply.write_delay. Call Validate
// first; an unparseable value returns zero here.
func (c *Config) WriteDelay() time.Duration {
	d, _ := time.ParseDuration(c.Apply.WriteDelay)
	return d
}

// RetryBackoff returns the parsed apply.retry_backoff. Call Validate
// first; an unparseable value returns zero here.
func (c *Config) RetryBackoff() time.Duration {
	d, _ := time.ParseDuration(c.Apply.RetryBackoff)
	return d
}

// Token resolves the platform bot token: the TokenEnv environment
// variable if set, otherwise the contents of TokenFile. Fails when
// neither yields a token.
func (c *Config) Token() (string, error) {
	if c.Platform.TokenEnv != "" {
		if token := os.Getenv(c.Platform.TokenEnv); token != "" {
			return token, nil
		}
	}

	if c.Platform.TokenFile != "" {
		data, err := os.ReadFile(c.Platform.TokenFile)
		if err != nil {
			return "", fmt.Errorf("reading token file: %w", err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("token file %s is empty", c.Platform.TokenFile)
		}
		return token, nil
	}

	return "", fmt.Errorf("no platform token: set %s or configure platform.token_file",
		c.Platform.TokenEnv)
}

// EnsurePaths creates all configured directories if they don't exist.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.Root, c.Paths.Plans} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
