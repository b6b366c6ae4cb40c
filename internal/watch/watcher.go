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

// Package watch sequences one complete check: load state, query the
// release source, compare, notify if new, persist state. Each run is
// synchronous and terminating; scheduling is left to the caller.
package watch

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/relwatch/relwatch/internal/github"
	"github.com/relwatch/relwatch/internal/notify"
	"github.com/relwatch/relwatch/internal/state"
)

// Ordering selects how a candidate tag is compared against the
// recorded one.
type Ordering string

const (
	// OrderingListing treats any tag differing from the recorded one as
	// new, trusting the upstream most-recent-first listing order.
	OrderingListing Ordering = "listing"
	// OrderingSemver additionally requires the candidate to be a
	// strictly greater semantic version than the recorded one, when
	// both tags parse. Unparsable tags fall back to listing semantics.
	OrderingSemver Ordering = "semver"
)

// Outcome is the terminal result of a successful run.
type Outcome string

const (
	// OutcomeNoRelease means no release matched the version pattern.
	OutcomeNoRelease Outcome = "no-qualifying-release"
	// OutcomeUpToDate means the newest qualifying release was already
	// notified.
	OutcomeUpToDate Outcome = "up-to-date"
	// OutcomeNotified means a notification was delivered and recorded.
	OutcomeNotified Outcome = "notified"
	// OutcomeDryRun means a new release was detected but delivery and
	// persistence were skipped.
	OutcomeDryRun Outcome = "dry-run"
)

// Result describes what a completed run did.
type Result struct {
	Outcome Outcome
	// Tag is the newest qualifying tag observed, if any.
	Tag string
	// Previous is the tag recorded before this run.
	Previous string
}

// Config wires a Watcher.
type Config struct {
	Source   github.ReleaseSource
	Notifier notify.Notifier
	Store    *state.Store
	Owner    string
	Repo     string
	Pattern  *regexp.Regexp
	Ordering Ordering
	// DryRun reports what would happen without notifying or persisting.
	DryRun bool
	// Now is the run clock. Nil means time.Now.
	Now func() time.Time
	// Logger receives run logging. Nil means slog.Default().
	Logger *slog.Logger
}

// Watcher owns the run state machine and its decision logic.
type Watcher struct {
	cfg    Config
	now    func() time.Time
	logger *slog.Logger
}

// New creates a Watcher from the given configuration.
func New(cfg Config) *Watcher {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:    cfg,
		now:    now,
		logger: logger.With(slog.String("component", "watcher")),
	}
}

// Run executes one check. The recorded state is mutated only after a
// notification was delivered; every failure before that point leaves
// the state file untouched so the same release is retried on the next
// invocation. A save failure after delivery surfaces as an error even
// though the notification went out, accepting a possible duplicate on
// the following run over a silently lost notification.
func (w *Watcher) Run(ctx context.Context) (*Result, error) {
	st := w.cfg.Store.Load()
	w.logger.Debug("state loaded",
		slog.String("last_version", st.LastVersion),
		slog.Time("last_checked_at", st.LastCheckedAt))

	rel, err := w.cfg.Source.LatestMatching(ctx, w.cfg.Owner, w.cfg.Repo, w.cfg.Pattern)
	if err != nil {
		return nil, err
	}
	if rel == nil {
		w.logger.Info("no qualifying release found")
		return &Result{Outcome: OutcomeNoRelease, Previous: st.LastVersion}, nil
	}

	if !w.isNewer(rel.Tag, st.LastVersion) {
		w.logger.Info("no new release detected", slog.String("tag", rel.Tag))
		return &Result{Outcome: OutcomeUpToDate, Tag: rel.Tag, Previous: st.LastVersion}, nil
	}

	if w.cfg.DryRun {
		w.logger.Info("new release detected, skipping delivery (dry run)",
			slog.String("tag", rel.Tag))
		return &Result{Outcome: OutcomeDryRun, Tag: rel.Tag, Previous: st.LastVersion}, nil
	}

	w.logger.Info("new release detected", slog.String("tag", rel.Tag),
		slog.String("previous", st.LastVersion))
	if err := w.cfg.Notifier.Notify(ctx, rel); err != nil {
		return nil, err
	}

	if err := w.cfg.Store.Save(&state.VersionState{
		LastVersion:   rel.Tag,
		LastCheckedAt: w.now(),
	}); err != nil {
		// The notification already went out; the next run may duplicate it.
		return nil, err
	}

	return &Result{Outcome: OutcomeNotified, Tag: rel.Tag, Previous: st.LastVersion}, nil
}

// isNewer decides whether candidate warrants a notification given the
// recorded tag.
func (w *Watcher) isNewer(candidate, recorded string) bool {
	if recorded == "" {
		return true
	}
	if candidate == recorded {
		return false
	}
	if w.cfg.Ordering == OrderingSemver {
		candVer, candErr := semver.NewVersion(candidate)
		recVer, recErr := semver.NewVersion(recorded)
		if candErr == nil && recErr == nil {
			return candVer.GreaterThan(recVer)
		}
	}
	return true
}
