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

// Package notify delivers release notifications to a downstream chat
// webhook. The Notifier interface decouples the orchestrator from the
// concrete webhook format so tests can observe deliveries without a
// network.
package notify

import (
	"context"

	"github.com/relwatch/relwatch/internal/github"
)

// Notifier sends a notification for a newly detected release.
type Notifier interface {
	// Notify delivers exactly one notification for the given release.
	// A non-nil error means the notification was not delivered and the
	// caller must not record the release as seen.
	Notify(ctx context.Context, rel *github.Release) error
}
