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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.github.com", cfg.API.Endpoint)
	assert.Equal(t, "GITHUB_TOKEN", cfg.API.TokenEnv)
	assert.Equal(t, 3, cfg.API.Retries)
	assert.Equal(t, 1.0, cfg.API.BackoffFactor)
	assert.Equal(t, []int{429, 500, 502, 503, 504}, cfg.API.RetryableStatusCodes)
	assert.Equal(t, "application/vnd.github.v3+json", cfg.API.Headers.Accept)
	assert.Equal(t, 5814783, cfg.Discord.Color)
	assert.Equal(t, "relwatch", cfg.Discord.FooterText)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfig(t, `
repo:
  repository: coreruleset/coreruleset
  name: Core Rule Set
  version_pattern: '^v?[4-9]\.'
  ordering: semver
api:
  retries: 5
  backoff_factor: 0.5
  headers:
    user_agent: CRS-Bot
state:
  file: /var/lib/relwatch/crs.json
discord:
  webhook_url: https://discord.example/webhook
  color: 15158332
  footer_text: CRS-Bot
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "coreruleset/coreruleset", cfg.Repo.Repository)
	assert.Equal(t, "Core Rule Set", cfg.Repo.Name)
	assert.Equal(t, `^v?[4-9]\.`, cfg.Repo.VersionPattern)
	assert.Equal(t, "semver", cfg.Repo.Ordering)
	assert.Equal(t, 5, cfg.API.Retries)
	assert.Equal(t, 0.5, cfg.API.BackoffFactor)
	assert.Equal(t, "CRS-Bot", cfg.API.Headers.UserAgent)
	assert.Equal(t, "/var/lib/relwatch/crs.json", cfg.State.File)
	assert.Equal(t, "https://discord.example/webhook", cfg.Discord.WebhookURL)
	assert.Equal(t, 15158332, cfg.Discord.Color)

	// Values absent from the file keep their defaults.
	assert.Equal(t, "https://api.github.com", cfg.API.Endpoint)
	assert.Equal(t, "application/vnd.github.v3+json", cfg.API.Headers.Accept)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "repo: [not a mapping")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("GITHUB_API_ENDPOINT", "https://github.corp.example/api/v3")
	t.Setenv("RELWATCH_STATE_FILE", "/tmp/relwatch-state.json")
	t.Setenv("RELWATCH_REPOSITORY", "acme/widget")

	path := writeConfig(t, `
repo:
  repository: other/repo
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://github.corp.example/api/v3", cfg.API.Endpoint)
	assert.Equal(t, "/tmp/relwatch-state.json", cfg.State.File)
	assert.Equal(t, "acme/widget", cfg.Repo.Repository)
}

func TestResolveWebhookURL_Precedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Discord.WebhookURL = "https://config.example/webhook"

	t.Run("config value is the fallback", func(t *testing.T) {
		assert.Equal(t, "https://config.example/webhook", cfg.ResolveWebhookURL(""))
	})

	t.Run("injected secret beats config", func(t *testing.T) {
		t.Setenv("INPUT_DISCORD_WEBHOOK_URL", "https://input.example/webhook")
		assert.Equal(t, "https://input.example/webhook", cfg.ResolveWebhookURL(""))
	})

	t.Run("environment beats injected secret", func(t *testing.T) {
		t.Setenv("INPUT_DISCORD_WEBHOOK_URL", "https://input.example/webhook")
		t.Setenv("DISCORD_WEBHOOK_URL", "https://env.example/webhook")
		assert.Equal(t, "https://env.example/webhook", cfg.ResolveWebhookURL(""))
	})

	t.Run("flag beats everything", func(t *testing.T) {
		t.Setenv("DISCORD_WEBHOOK_URL", "https://env.example/webhook")
		assert.Equal(t, "https://flag.example/webhook", cfg.ResolveWebhookURL("https://flag.example/webhook"))
	})
}

func TestToken(t *testing.T) {
	cfg := DefaultConfig()
	t.Setenv("GITHUB_TOKEN", "secret")
	assert.Equal(t, "secret", cfg.Token())

	cfg.API.TokenEnv = "CUSTOM_TOKEN"
	t.Setenv("CUSTOM_TOKEN", "other-secret")
	assert.Equal(t, "other-secret", cfg.Token())

	cfg.API.TokenEnv = ""
	assert.Equal(t, "", cfg.Token())
}

func TestCompilePattern(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("empty pattern matches everything", func(t *testing.T) {
		re, err := cfg.CompilePattern()
		require.NoError(t, err)
		assert.True(t, re.MatchString("v1.2.3"))
		assert.True(t, re.MatchString("anything"))
	})

	t.Run("configured pattern filters", func(t *testing.T) {
		cfg.Repo.VersionPattern = `^v?[4-9]\.`
		re, err := cfg.CompilePattern()
		require.NoError(t, err)
		assert.True(t, re.MatchString("v4.0.0"))
		assert.True(t, re.MatchString("4.1.0"))
		assert.False(t, re.MatchString("v3.9.0"))
	})

	t.Run("invalid pattern fails", func(t *testing.T) {
		cfg.Repo.VersionPattern = "(["
		_, err := cfg.CompilePattern()
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Repo.Repository = "acme/widget"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing repository",
			mutate:  func(c *Config) { c.Repo.Repository = "" },
			wantErr: "repository must be configured",
		},
		{
			name:    "malformed repository",
			mutate:  func(c *Config) { c.Repo.Repository = "just-a-name" },
			wantErr: "invalid repository format",
		},
		{
			name:    "invalid pattern",
			mutate:  func(c *Config) { c.Repo.VersionPattern = "([" },
			wantErr: "invalid version pattern",
		},
		{
			name:    "unknown ordering",
			mutate:  func(c *Config) { c.Repo.Ordering = "chronological" },
			wantErr: "invalid ordering",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.API.Retries = -1 },
			wantErr: "retries must be non-negative",
		},
		{
			name:    "negative backoff",
			mutate:  func(c *Config) { c.API.BackoffFactor = -0.5 },
			wantErr: "backoff factor must be non-negative",
		},
		{
			name:    "empty endpoint",
			mutate:  func(c *Config) { c.API.Endpoint = "" },
			wantErr: "api endpoint cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Retries = 7
	cfg.API.BackoffFactor = 2.5
	cfg.API.RetryableStatusCodes = []int{500}

	policy := cfg.RetryPolicy()
	assert.Equal(t, 7, policy.MaxRetries)
	assert.Equal(t, 2.5, policy.BackoffFactor)
	assert.True(t, policy.Retryable(500))
	assert.False(t, policy.Retryable(503))
}

func TestDisplayName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Repo.Repository = "acme/widget"
	assert.Equal(t, "acme/widget", cfg.DisplayName())

	cfg.Repo.Name = "Widget"
	assert.Equal(t, "Widget", cfg.DisplayName())
}
