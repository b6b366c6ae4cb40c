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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the tracked repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrInvalidWebhook indicates no webhook endpoint is configured.
	// Maps to exit code 2.
	ErrInvalidWebhook = errors.New("no webhook url configured")

	// ErrRateLimit indicates the GitHub API rate limit has been exceeded
	// and did not clear within the retry budget.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrNetworkFailure indicates a connection-level network problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrSourceUnavailable indicates the release listing could not be
	// fetched after exhausting all retries.
	// Maps to exit code 3.
	ErrSourceUnavailable = errors.New("release source unavailable")

	// ErrMalformedResponse indicates the release listing payload could
	// not be parsed into release candidates.
	// Maps to exit code 3.
	ErrMalformedResponse = errors.New("malformed release listing response")

	// ErrDeliveryFailed indicates the webhook notification could not be
	// delivered after exhausting all retries. The recorded state is left
	// untouched so the same release is retried on the next run.
	// Maps to exit code 4.
	ErrDeliveryFailed = errors.New("notification delivery failed")

	// ErrPersistence indicates the state file could not be written. This
	// can occur after a notification was already delivered, in which case
	// the next run may send a duplicate.
	// Maps to exit code 5.
	ErrPersistence = errors.New("state persistence failed")
)
