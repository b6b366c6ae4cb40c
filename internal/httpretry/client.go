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

// Package httpretry implements the resilient HTTP client shared by the
// release source and the notifier. Retry behavior is expressed as a
// Policy consumed by a generic retrying Transport rather than being
// embedded in call sites.
package httpretry

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	relerrors "github.com/relwatch/relwatch/internal/errors"
)

var errNonReplayableBody = errors.New("request body cannot be replayed for retry")

// StatusError reports a non-2xx response after all retries were
// exhausted, or a non-retryable status that failed immediately.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// Client executes HTTP requests through a retrying Transport and maps
// the final outcome into the application's error taxonomy.
type Client struct {
	hc *http.Client
}

// NewClient creates a Client with the given retry policy. A zero
// timeout disables the client-level deadline; callers are expected to
// bound requests through their context.
func NewClient(policy Policy, timeout time.Duration) *Client {
	return &Client{
		hc: &http.Client{
			Transport: NewTransport(nil, policy),
			Timeout:   timeout,
		},
	}
}

// Do executes the request. It returns the response on any 2xx status.
// A connection-level failure surfaces as ErrNetworkFailure; any other
// outcome surfaces as a *StatusError carrying the final status code.
// The response body of a failed request is consumed and closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", relerrors.ErrNetworkFailure, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	discardBody(resp)
	return nil, &StatusError{StatusCode: resp.StatusCode}
}
