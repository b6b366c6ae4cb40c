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

// Package config types define the configuration structures used
// throughout relwatch. These types represent settings that can be
// loaded from YAML configuration files, environment variables, or
// command-line flags.
package config

// Config represents the complete configuration for relwatch. It
// consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the
// application.
type Config struct {
	Repo    RepoConfig    `yaml:"repo"`
	API     APIConfig     `yaml:"api"`
	State   StateConfig   `yaml:"state"`
	Discord DiscordConfig `yaml:"discord"`
}

// RepoConfig identifies the tracked repository and how its release
// tags are selected.
type RepoConfig struct {
	// Repository is the tracked repository in "owner/repo" format.
	Repository string `yaml:"repository"`
	// Name is the human-facing project name used in notifications.
	// Empty falls back to the repository identifier.
	Name string `yaml:"name"`
	// VersionPattern is the regular expression a release tag must match
	// to qualify. Empty matches every tag.
	VersionPattern string `yaml:"version_pattern"`
	// Ordering is "listing" (trust upstream order, default) or "semver"
	// (require a strictly greater semantic version).
	Ordering string `yaml:"ordering"`
}

// APIConfig contains GitHub-specific settings including the API
// endpoint, authentication, request headers, and the retry policy for
// upstream calls. This allows easy configuration for GitHub Enterprise
// deployments by specifying a custom endpoint.
type APIConfig struct {
	Endpoint             string       `yaml:"endpoint"`
	TokenEnv             string       `yaml:"token_env"`
	Retries              int          `yaml:"retries"`
	BackoffFactor        float64      `yaml:"backoff_factor"`
	RetryableStatusCodes []int        `yaml:"retryable_status_codes"`
	Headers              HeaderConfig `yaml:"headers"`
}

// HeaderConfig holds the request headers sent with upstream calls.
type HeaderConfig struct {
	Accept    string `yaml:"accept"`
	UserAgent string `yaml:"user_agent"`
}

// StateConfig locates the persisted version state.
type StateConfig struct {
	// File is the state file path. Empty derives the standard per-repo
	// location under ~/.relwatch/state.
	File string `yaml:"file"`
}

// DiscordConfig contains webhook delivery settings and notification
// styling. The webhook URL configured here has the lowest precedence;
// environment-injected secrets and the command-line flag override it.
type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Color      int    `yaml:"color"`
	FooterText string `yaml:"footer_text"`
}

// DefaultConfig returns a Config with sensible defaults suitable for
// most use cases. These defaults are optimized for public GitHub.com
// usage but can be overridden for GitHub Enterprise or special
// requirements.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:             "https://api.github.com",
			TokenEnv:             "GITHUB_TOKEN",
			Retries:              3,
			BackoffFactor:        1.0,
			RetryableStatusCodes: []int{429, 500, 502, 503, 504},
			Headers: HeaderConfig{
				Accept:    "application/vnd.github.v3+json",
				UserAgent: "relwatch",
			},
		},
		Discord: DiscordConfig{
			Color:      5814783,
			FooterText: "relwatch",
		},
	}
}
