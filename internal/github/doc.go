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

// Package github queries the GitHub releases API for the tracked
// repository and selects the newest release whose tag matches the
// configured version pattern.
//
// The package includes:
//   - A ReleaseSource interface so the orchestrator can be tested
//     against a mock source
//   - A REST implementation over google/go-github, wired through the
//     retrying transport from internal/httpretry
//   - A header transport that applies the configured Accept and
//     User-Agent headers plus the optional bearer token
//
// Basic usage:
//
//	source, err := github.NewClient(github.Options{Token: token})
//	if err != nil {
//	    // Handle error
//	}
//	rel, err := source.LatestMatching(ctx, "coreruleset", "coreruleset", pattern)
//	if err != nil {
//	    // Handle error
//	}
//	if rel == nil {
//	    // No qualifying release
//	}
package github
