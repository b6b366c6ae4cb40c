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
)

// MockSource is a canned ReleaseSource for tests. It replays the
// configured releases in order, applying the same pattern selection as
// the real client.
type MockSource struct {
	// Releases is the upstream listing, most-recent-first.
	Releases []*Release
	// Err, when set, is returned instead of a release.
	Err error
	// Calls counts LatestMatching invocations.
	Calls int
}

// LatestMatching implements ReleaseSource.
func (m *MockSource) LatestMatching(_ context.Context, _, _ string, pattern *regexp.Regexp) (*Release, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	for _, rel := range m.Releases {
		if pattern.MatchString(rel.Tag) {
			return rel, nil
		}
	}
	return nil, nil
}
