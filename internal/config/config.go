// Copyright 2025 Relwatch Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for relwatch with
// support for multiple configuration sources and a well-defined
// precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The webhook URL additionally recognizes CI-injected secrets: an
// explicit flag wins over DISCORD_WEBHOOK_URL, which wins over
// INPUT_DISCORD_WEBHOOK_URL, which wins over the config file value.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relwatch/relwatch/internal/httpretry"
)

// LoadConfig loads configuration from multiple sources and applies them
// in the correct precedence order. If configPath is provided, it loads
// from that specific file. Otherwise, it searches standard locations:
//   - .relwatch.yaml (current directory)
//   - .relwatch.yml (current directory)
//   - ~/.relwatch/config.yaml
//   - ~/.relwatch/config.yml
//
// Environment variables are applied after loading the config file,
// allowing runtime overrides. Returns an error if the specified config
// file cannot be loaded, but will succeed with defaults if no config
// file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".relwatch.yaml",
			".relwatch.yml",
			filepath.Join(os.Getenv("HOME"), ".relwatch", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".relwatch", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.State.File = expandPath(cfg.State.File)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.API.Endpoint = endpoint
	}
	if stateFile := os.Getenv("RELWATCH_STATE_FILE"); stateFile != "" {
		cfg.State.File = stateFile
	}
	if repo := os.Getenv("RELWATCH_REPOSITORY"); repo != "" {
		cfg.Repo.Repository = repo
	}
}

// ResolveWebhookURL returns the effective webhook endpoint. An explicit
// runtime override wins over an environment-injected secret, which wins
// over the static configuration value.
func (c *Config) ResolveWebhookURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if url := os.Getenv("DISCORD_WEBHOOK_URL"); url != "" {
		return url
	}
	if url := os.Getenv("INPUT_DISCORD_WEBHOOK_URL"); url != "" {
		return url
	}
	return c.Discord.WebhookURL
}

// Token returns the GitHub API token from the configured environment
// variable, or empty for unauthenticated access.
func (c *Config) Token() string {
	if c.API.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.API.TokenEnv)
}

// RetryPolicy converts the API settings into a retry policy for the
// resilient HTTP client.
func (c *Config) RetryPolicy() httpretry.Policy {
	return httpretry.Policy{
		MaxRetries:           c.API.Retries,
		BackoffFactor:        c.API.BackoffFactor,
		RetryableStatusCodes: c.API.RetryableStatusCodes,
	}
}

// CompilePattern compiles the configured version pattern. An empty
// pattern matches every tag.
func (c *Config) CompilePattern() (*regexp.Regexp, error) {
	pattern := c.Repo.VersionPattern
	if pattern == "" {
		pattern = ".*"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid version pattern %q: %w", pattern, err)
	}
	return re, nil
}

// DisplayName returns the human-facing project name for notifications,
// falling back to the repository identifier.
func (c *Config) DisplayName() string {
	if c.Repo.Name != "" {
		return c.Repo.Name
	}
	return c.Repo.Repository
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// Validate checks if the configuration contains valid values. It
// ensures the repository identifier is well-formed, the version pattern
// compiles, and the retry policy values are within bounds. This should
// be called after merging all sources to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Repo.Repository == "" {
		return fmt.Errorf("repository must be configured")
	}
	parts := strings.Split(c.Repo.Repository, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", c.Repo.Repository)
	}
	if _, err := c.CompilePattern(); err != nil {
		return err
	}
	switch c.Repo.Ordering {
	case "", "listing", "semver":
	default:
		return fmt.Errorf("invalid ordering %q, expected \"listing\" or \"semver\"", c.Repo.Ordering)
	}
	if c.API.Endpoint == "" {
		return fmt.Errorf("api endpoint cannot be empty")
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("retries must be non-negative, got: %d", c.API.Retries)
	}
	if c.API.BackoffFactor < 0 {
		return fmt.Errorf("backoff factor must be non-negative, got: %v", c.API.BackoffFactor)
	}
	return nil
}

// RequestTimeout bounds every outbound call of a run at the HTTP
// client level. Kept well below typical external scheduler timeouts so
// backoff sleeps dominate the run duration, not hung connections.
const RequestTimeout = 30 * time.Second
