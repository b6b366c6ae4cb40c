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

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v80/github"

	relerrors "github.com/relwatch/relwatch/internal/errors"
	"github.com/relwatch/relwatch/internal/httpretry"
)

// DefaultAPIEndpoint is the public GitHub REST API endpoint.
const DefaultAPIEndpoint = "https://api.github.com"

const listPageSize = 100

// Options configures a release source client.
type Options struct {
	// APIEndpoint overrides the GitHub REST endpoint, e.g. for GitHub
	// Enterprise. Empty means DefaultAPIEndpoint.
	APIEndpoint string
	// Token is the bearer token for authenticated requests. Empty means
	// unauthenticated access.
	Token string
	// Accept overrides the Accept header sent upstream.
	Accept string
	// UserAgent overrides the User-Agent header sent upstream.
	UserAgent string
	// Policy is the retry policy for upstream calls.
	Policy httpretry.Policy
	// Timeout bounds each run's upstream calls at the HTTP client level.
	Timeout time.Duration
	// Logger receives per-call debug logging. Nil means slog.Default().
	Logger *slog.Logger
}

// Client fetches releases through the GitHub REST API. It implements
// ReleaseSource.
type Client struct {
	gh     *gogithub.Client
	policy httpretry.Policy
	logger *slog.Logger
}

// NewClient creates a release source client. All upstream calls flow
// through the retrying transport, so transient upstream failures are
// absorbed up to the policy's retry budget.
func NewClient(opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	transport := httpretry.NewTransport(&headerTransport{
		base:      http.DefaultTransport,
		token:     opts.Token,
		accept:    opts.Accept,
		userAgent: opts.UserAgent,
	}, opts.Policy)

	gh := gogithub.NewClient(&http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	})

	endpoint := opts.APIEndpoint
	if endpoint == "" {
		endpoint = DefaultAPIEndpoint
	}
	baseURL, err := url.Parse(strings.TrimSuffix(endpoint, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid api endpoint %q: %w", endpoint, err)
	}
	gh.BaseURL = baseURL

	return &Client{
		gh:     gh,
		policy: opts.Policy,
		logger: logger.With(slog.String("component", "release-source")),
	}, nil
}

// LatestMatching implements ReleaseSource. It walks the release listing
// in upstream order and returns the first published release whose tag
// matches pattern. Draft releases are skipped; prereleases are subject
// only to the pattern.
func (c *Client) LatestMatching(ctx context.Context, owner, repo string, pattern *regexp.Regexp) (*Release, error) {
	listOpts := &gogithub.ListOptions{PerPage: listPageSize}
	scanned := 0

	for {
		releases, resp, err := c.gh.Repositories.ListReleases(ctx, owner, repo, listOpts)
		if err != nil {
			return nil, c.mapError(err)
		}

		for _, entry := range releases {
			scanned++
			if entry.GetDraft() {
				continue
			}
			tag := entry.GetTagName()
			if tag == "" || !pattern.MatchString(tag) {
				continue
			}
			c.logger.Debug("qualifying release found",
				slog.String("tag", tag),
				slog.Int("scanned", scanned))
			return &Release{
				Tag:         tag,
				PublishedAt: entry.GetPublishedAt().Time,
				URL:         releaseURL(entry, owner, repo, tag),
			}, nil
		}

		if resp.NextPage == 0 {
			break
		}
		listOpts.Page = resp.NextPage
	}

	c.logger.Debug("no qualifying release", slog.Int("scanned", scanned))
	return nil, nil
}

// releaseURL prefers the upstream release page and falls back to the
// conventional tag URL when the listing omits it.
func releaseURL(entry *gogithub.RepositoryRelease, owner, repo, tag string) string {
	if u := entry.GetHTMLURL(); u != "" {
		return u
	}
	return fmt.Sprintf("https://github.com/%s/%s/releases/tag/%s", owner, repo, tag)
}

// mapError translates go-github and transport failures into the
// application's error taxonomy.
func (c *Client) mapError(err error) error {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("listing releases: %w", relerrors.ErrRateLimit)
	}
	var abuseErr *gogithub.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("listing releases: %w", relerrors.ErrRateLimit)
	}

	var errResp *gogithub.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		status := errResp.Response.StatusCode
		switch {
		case status == http.StatusNotFound:
			return fmt.Errorf("listing releases: %w", relerrors.ErrRepoNotFound)
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return fmt.Errorf("listing releases: %w", relerrors.ErrInvalidToken)
		case status == http.StatusTooManyRequests:
			return fmt.Errorf("listing releases: %w", relerrors.ErrRateLimit)
		case c.policy.Retryable(status):
			// The retry transport already exhausted its budget on this
			// status before it surfaced here.
			return fmt.Errorf("listing releases: status %d after retries: %w", status, relerrors.ErrSourceUnavailable)
		default:
			return fmt.Errorf("listing releases: status %d: %w", status, relerrors.ErrSourceUnavailable)
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("listing releases: %v: %w", urlErr, relerrors.ErrNetworkFailure)
	}

	if isMalformedPayload(err) {
		return fmt.Errorf("decoding release listing: %v: %w", err, relerrors.ErrMalformedResponse)
	}

	return fmt.Errorf("listing releases: %v: %w", err, relerrors.ErrSourceUnavailable)
}

// isMalformedPayload reports whether the error stems from an
// unparsable response body rather than the connection or the API.
func isMalformedPayload(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}
