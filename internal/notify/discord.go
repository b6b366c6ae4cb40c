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

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	relerrors "github.com/relwatch/relwatch/internal/errors"
	"github.com/relwatch/relwatch/internal/github"
	"github.com/relwatch/relwatch/internal/httpretry"
)

// Defaults for notification styling when the configuration leaves them
// unset.
const (
	DefaultEmbedColor = 5814783
	DefaultFooterText = "relwatch"
)

// DiscordConfig configures a Discord webhook notifier.
type DiscordConfig struct {
	// WebhookURL is the resolved webhook endpoint. Empty makes Notify
	// fail with ErrInvalidWebhook.
	WebhookURL string
	// DisplayName is the human-facing name of the tracked project, used
	// in the message text, e.g. "Core Rule Set".
	DisplayName string
	// Color is the embed accent color as a decimal RGB value.
	Color int
	// FooterText is shown in the embed footer.
	FooterText string
	// Policy is the retry policy for webhook delivery.
	Policy httpretry.Policy
	// Timeout bounds each delivery at the HTTP client level.
	Timeout time.Duration
	// Logger receives delivery logging. Nil means slog.Default().
	Logger *slog.Logger
}

// DiscordNotifier posts release notifications to a Discord webhook as
// an embed. It implements Notifier.
type DiscordNotifier struct {
	cfg    DiscordConfig
	client *httpretry.Client
	logger *slog.Logger
	now    func() time.Time
}

// webhookPayload is the Discord webhook request body.
type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

type embed struct {
	Title     string      `json:"title"`
	URL       string      `json:"url,omitempty"`
	Color     int         `json:"color"`
	Footer    embedFooter `json:"footer"`
	Timestamp string      `json:"timestamp"`
}

type embedFooter struct {
	Text string `json:"text"`
}

// NewDiscord creates a DiscordNotifier. Styling falls back to the
// package defaults when unset.
func NewDiscord(cfg DiscordConfig) *DiscordNotifier {
	if cfg.Color == 0 {
		cfg.Color = DefaultEmbedColor
	}
	if cfg.FooterText == "" {
		cfg.FooterText = DefaultFooterText
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscordNotifier{
		cfg:    cfg,
		client: httpretry.NewClient(cfg.Policy, cfg.Timeout),
		logger: logger.With(slog.String("component", "notifier")),
		now:    time.Now,
	}
}

// Notify implements Notifier. It builds the notification payload from
// the release and delivers it through the resilient HTTP client.
func (n *DiscordNotifier) Notify(ctx context.Context, rel *github.Release) error {
	if n.cfg.WebhookURL == "" {
		return fmt.Errorf("resolving webhook endpoint: %w", relerrors.ErrInvalidWebhook)
	}

	payload := n.buildPayload(rel)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %v: %w", err, relerrors.ErrDeliveryFailed)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %v: %w", err, relerrors.ErrDeliveryFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %v: %w", err, relerrors.ErrDeliveryFailed)
	}
	_ = resp.Body.Close()

	n.logger.Info("notification delivered", slog.String("tag", rel.Tag))
	return nil
}

func (n *DiscordNotifier) buildPayload(rel *github.Release) webhookPayload {
	timestamp := rel.PublishedAt
	if timestamp.IsZero() {
		timestamp = n.now()
	}

	return webhookPayload{
		Content: fmt.Sprintf("New %s release detected! Version: [%s](%s)",
			n.cfg.DisplayName, rel.Tag, rel.URL),
		Embeds: []embed{{
			Title:     fmt.Sprintf("%s %s", n.cfg.DisplayName, rel.Tag),
			URL:       rel.URL,
			Color:     n.cfg.Color,
			Footer:    embedFooter{Text: n.cfg.FooterText},
			Timestamp: timestamp.UTC().Format(time.RFC3339),
		}},
	}
}
