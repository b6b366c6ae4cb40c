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

package main

import (
	"fmt"
	"testing"

	relerrors "github.com/relwatch/relwatch/internal/errors"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "valid repository",
			input:     "coreruleset/coreruleset",
			wantOwner: "coreruleset",
			wantRepo:  "coreruleset",
		},
		{
			name:      "repository with spaces",
			input:     " acme / widget ",
			wantOwner: "acme",
			wantRepo:  "widget",
		},
		{
			name:    "missing slash",
			input:   "just-a-name",
			wantErr: true,
		},
		{
			name:    "too many parts",
			input:   "a/b/c",
			wantErr: true,
		},
		{
			name:    "empty owner",
			input:   "/widget",
			wantErr: true,
		},
		{
			name:    "empty repo",
			input:   "acme/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := parseRepository(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseRepository(%q) expected error, got %q/%q", tt.input, owner, repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRepository(%q) failed: %v", tt.input, err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("parseRepository(%q) = %q/%q, want %q/%q", tt.input, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, 0},
		{"invalid token", relerrors.ErrInvalidToken, 2},
		{"repo not found", relerrors.ErrRepoNotFound, 2},
		{"rate limit", relerrors.ErrRateLimit, 2},
		{"missing webhook", relerrors.ErrInvalidWebhook, 2},
		{"network failure", relerrors.ErrNetworkFailure, 3},
		{"source unavailable", relerrors.ErrSourceUnavailable, 3},
		{"malformed response", relerrors.ErrMalformedResponse, 3},
		{"delivery failed", relerrors.ErrDeliveryFailed, 4},
		{"persistence failed", relerrors.ErrPersistence, 5},
		{"wrapped sentinel", fmt.Errorf("listing releases: %w", relerrors.ErrSourceUnavailable), 3},
		{"unknown error", fmt.Errorf("something else"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapErrorToExitCode(tt.err); got != tt.want {
				t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
