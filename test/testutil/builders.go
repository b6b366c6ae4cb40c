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

package testutil

import (
	"fmt"
	"time"
)

// ReleaseFixture describes one entry of a mocked GitHub release listing.
type ReleaseFixture struct {
	Tag         string
	PublishedAt time.Time
	Draft       bool
	Prerelease  bool
}

// Release builds a fixture for a published release with the given tag.
// Fixtures built later get earlier publish dates, matching the
// most-recent-first listing order of the real API.
func Release(tag string, publishedAt time.Time) ReleaseFixture {
	return ReleaseFixture{Tag: tag, PublishedAt: publishedAt}
}

// releaseListBody converts fixtures into the JSON shape the GitHub
// releases listing endpoint returns.
func releaseListBody(releases []ReleaseFixture) []map[string]any {
	body := make([]map[string]any, 0, len(releases))
	for _, rel := range releases {
		body = append(body, map[string]any{
			"tag_name":     rel.Tag,
			"name":         rel.Tag,
			"html_url":     fmt.Sprintf("https://github.com/acme/widget/releases/tag/%s", rel.Tag),
			"published_at": rel.PublishedAt.UTC().Format(time.RFC3339),
			"draft":        rel.Draft,
			"prerelease":   rel.Prerelease,
		})
	}
	return body
}
