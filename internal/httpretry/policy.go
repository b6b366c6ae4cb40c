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
	"math"
	"time"
)

// Policy configures the retry behavior for outbound HTTP calls.
// It is consumed by Transport and is immutable once constructed.
type Policy struct {
	// MaxRetries is the maximum number of retry attempts after the
	// initial request. Zero disables retrying entirely.
	MaxRetries int
	// BackoffFactor scales the exponential backoff delay, in seconds.
	BackoffFactor float64
	// RetryableStatusCodes lists the HTTP status codes that trigger a
	// retry. Any other non-2xx status fails immediately without
	// consuming retry budget.
	RetryableStatusCodes []int
}

// DefaultPolicy returns the default retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:           3,
		BackoffFactor:        1.0,
		RetryableStatusCodes: []int{429, 500, 502, 503, 504},
	}
}

// Retryable reports whether the given status code should trigger a retry.
func (p Policy) Retryable(statusCode int) bool {
	for _, code := range p.RetryableStatusCodes {
		if code == statusCode {
			return true
		}
	}
	return false
}

// Backoff returns the delay before the given retry attempt, computed as
// BackoffFactor * 2^attempt seconds. Attempts are numbered from zero.
func (p Policy) Backoff(attempt int) time.Duration {
	seconds := p.BackoffFactor * math.Pow(2, float64(attempt))
	return time.Duration(seconds * float64(time.Second))
}
