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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/relwatch/relwatch/internal/config"
	relerrors "github.com/relwatch/relwatch/internal/errors"
	"github.com/relwatch/relwatch/internal/github"
	"github.com/relwatch/relwatch/internal/notify"
	"github.com/relwatch/relwatch/internal/output"
	"github.com/relwatch/relwatch/internal/state"
	"github.com/relwatch/relwatch/internal/watch"
)

// checkOptions carries the command-line overrides for one check run.
type checkOptions struct {
	configPath string
	repo       string
	webhookURL string
	token      string
	stateFile  string
	outputFile string
	dryRun     bool
}

// newCheckCommand builds the check command
func newCheckCommand() *cobra.Command {
	var (
		opts    checkOptions
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one release check against the tracked repository",
		Long: `Run one release check: query the GitHub releases listing, compare the
newest qualifying tag against the recorded state, and deliver a webhook
notification if a new release is found.

The tracked repository must be specified in the format: <owner>/<repo>
For example: coreruleset/coreruleset

The webhook endpoint is resolved with the following precedence:
  - --webhook-url flag
  - DISCORD_WEBHOOK_URL environment variable
  - INPUT_DISCORD_WEBHOOK_URL environment variable (CI-injected secret)
  - discord.webhook_url configuration value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(verbose)

			// Create context with timeout
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			return runCheck(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path (default: standard locations)")
	cmd.Flags().StringVar(&opts.repo, "repo", "", "Tracked repository in <owner>/<repo> format (overrides config)")
	cmd.Flags().StringVar(&opts.webhookURL, "webhook-url", "", "Webhook endpoint (overrides environment and config)")
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub token (overrides the configured token env var)")
	cmd.Flags().StringVar(&opts.stateFile, "state-file", "", "State file path (overrides config)")
	cmd.Flags().StringVar(&opts.outputFile, "output", "", "Write the check result as a JSON line to this file (- for stdout)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Detect without notifying or recording")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall run timeout")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runCheck executes the check command
func runCheck(ctx context.Context, opts checkOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if opts.repo != "" {
		cfg.Repo.Repository = opts.repo
	}
	if opts.stateFile != "" {
		cfg.State.File = opts.stateFile
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	owner, repo, err := parseRepository(cfg.Repo.Repository)
	if err != nil {
		return err
	}

	pattern, err := cfg.CompilePattern()
	if err != nil {
		return err
	}

	token := opts.token
	if token == "" {
		token = cfg.Token()
	}

	source, err := github.NewClient(github.Options{
		APIEndpoint: cfg.API.Endpoint,
		Token:       token,
		Accept:      cfg.API.Headers.Accept,
		UserAgent:   cfg.API.Headers.UserAgent,
		Policy:      cfg.RetryPolicy(),
		Timeout:     config.RequestTimeout,
	})
	if err != nil {
		return err
	}

	notifier := notify.NewDiscord(notify.DiscordConfig{
		WebhookURL:  cfg.ResolveWebhookURL(opts.webhookURL),
		DisplayName: cfg.DisplayName(),
		Color:       cfg.Discord.Color,
		FooterText:  cfg.Discord.FooterText,
		Policy:      cfg.RetryPolicy(),
		Timeout:     config.RequestTimeout,
	})

	store := state.NewStore(stateFilePath(cfg), slog.Default())

	watcher := watch.New(watch.Config{
		Source:   source,
		Notifier: notifier,
		Store:    store,
		Owner:    owner,
		Repo:     repo,
		Pattern:  pattern,
		Ordering: ordering(cfg.Repo.Ordering),
		DryRun:   opts.dryRun,
	})

	fmt.Fprintf(os.Stderr, "Checking %s for new releases...\n", cfg.Repo.Repository)

	result, err := watcher.Run(ctx)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case watch.OutcomeNoRelease:
		fmt.Fprintf(os.Stderr, "No qualifying release found in %s\n", cfg.Repo.Repository)
	case watch.OutcomeUpToDate:
		fmt.Fprintf(os.Stderr, "No new release detected (latest: %s)\n", result.Tag)
	case watch.OutcomeDryRun:
		fmt.Fprintf(os.Stderr, "New release %s detected (dry run, nothing sent)\n", result.Tag)
	case watch.OutcomeNotified:
		fmt.Fprintf(os.Stderr, "Notified about release %s\n", result.Tag)
	}

	if opts.outputFile != "" {
		if err := writeResult(opts.outputFile, cfg.Repo.Repository, result); err != nil {
			return err
		}
	}

	return nil
}

// writeResult emits the machine-readable result record to the given
// destination, "-" meaning stdout.
func writeResult(dest, repository string, result *watch.Result) error {
	rec := output.Record{
		Repository: repository,
		Outcome:    string(result.Outcome),
		Tag:        result.Tag,
		Previous:   result.Previous,
		CheckedAt:  time.Now().UTC(),
	}

	if dest == "-" {
		return output.NewWriter(os.Stdout).Write(rec)
	}

	w, err := output.NewFileWriter(dest)
	if err != nil {
		return err
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// stateFilePath returns the configured state file location, deriving
// the standard per-repository path when unset.
func stateFilePath(cfg *config.Config) string {
	if cfg.State.File != "" {
		return cfg.State.File
	}
	return state.DefaultStateFilePath(cfg.Repo.Repository)
}

// ordering maps the config value onto the watcher's comparison mode.
func ordering(value string) watch.Ordering {
	if value == "semver" {
		return watch.OrderingSemver
	}
	return watch.OrderingListing
}

// parseRepository parses an owner/repo string into owner and repo components
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Check for specific error types
	if errors.Is(err, relerrors.ErrInvalidToken) ||
		errors.Is(err, relerrors.ErrRepoNotFound) ||
		errors.Is(err, relerrors.ErrRateLimit) ||
		errors.Is(err, relerrors.ErrInvalidWebhook) {
		return 2 // Configuration/authorization errors
	}

	if errors.Is(err, relerrors.ErrNetworkFailure) ||
		errors.Is(err, relerrors.ErrSourceUnavailable) ||
		errors.Is(err, relerrors.ErrMalformedResponse) {
		return 3 // Upstream errors
	}

	if errors.Is(err, relerrors.ErrDeliveryFailed) {
		return 4 // Notification was not delivered; state left untouched
	}

	if errors.Is(err, relerrors.ErrPersistence) {
		return 5 // State write failed, possibly after delivery
	}

	return 1 // General error
}
