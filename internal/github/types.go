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
	"regexp"
	"time"
)

// Release is one published release of the tracked repository. It is
// produced per listing entry and discarded after selection.
type Release struct {
	// Tag is the raw version tag, e.g. "v4.3.0".
	Tag string
	// PublishedAt is when the release was published upstream.
	PublishedAt time.Time
	// URL is the human-facing release page.
	URL string
}

// ReleaseSource selects release candidates from an upstream listing.
// This interface allows for easy mocking in tests.
type ReleaseSource interface {
	// LatestMatching returns the most recent release of owner/repo whose
	// tag matches pattern, relying on the upstream listing order
	// (most-recent-first). It returns nil when no release qualifies.
	LatestMatching(ctx context.Context, owner, repo string, pattern *regexp.Regexp) (*Release, error)
}
