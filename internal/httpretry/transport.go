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

package httpretry

import (
	"io"
	"net/http"
	"time"
)

// drainLimit bounds how much of a discarded response body is read before
// closing, so the underlying connection can be reused.
const drainLimit = 4 * 1024

// Transport is an http.RoundTripper that retries transient failures
// with exponential backoff according to a Policy. Connection-level
// errors and responses whose status is in the policy's retryable set
// are retried; any other response passes through untouched.
type Transport struct {
	base   http.RoundTripper
	policy Policy
}

// NewTransport creates a retrying transport over base. A nil base uses
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, policy Policy) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base, policy: policy}
}

// RoundTrip implements http.RoundTripper with retry logic.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	var lastResp *http.Response

	for attempt := 0; attempt <= t.policy.MaxRetries; attempt++ {
		// Clone request for each attempt
		clonedReq := req.Clone(req.Context())
		if attempt > 0 {
			body, err := rewindBody(req)
			if err != nil {
				return nil, err
			}
			clonedReq.Body = body
		}

		resp, err := t.base.RoundTrip(clonedReq)
		if err == nil && !t.policy.Retryable(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			// Cancellation must not be retried
			if req.Context().Err() != nil {
				return nil, req.Context().Err()
			}
			lastErr = err
			lastResp = nil
		} else {
			lastErr = nil
			lastResp = resp
		}

		// Don't sleep after the final attempt
		if attempt < t.policy.MaxRetries {
			if lastResp != nil {
				discardBody(lastResp)
			}
			select {
			case <-time.After(t.policy.Backoff(attempt)):
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	if lastResp != nil {
		// Retries exhausted on a retryable status; the caller maps the
		// final status into its own error taxonomy.
		return lastResp, nil
	}
	return nil, lastErr
}

// rewindBody produces a fresh body reader for a retried request.
// Requests without a body or with a replayable body are retryable;
// anything else fails rather than resending a half-consumed stream.
func rewindBody(req *http.Request) (io.ReadCloser, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req.Body, nil
	}
	if req.GetBody != nil {
		return req.GetBody()
	}
	return nil, errNonReplayableBody
}

func discardBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	_ = resp.Body.Close()
}
