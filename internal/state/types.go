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

package state

import (
	"time"
)

// CurrentSchemaVersion is the current state file schema version.
// Increment this when making breaking changes to the VersionState structure.
const CurrentSchemaVersion = 1

// VersionState is the sole persisted entity: the last release version a
// notification was delivered for, and when the last check ran. A zero
// LastVersion means no release has ever been notified.
type VersionState struct {
	// SchemaVersion indicates the schema version of this state file.
	// A mismatched version is treated the same as a corrupt file.
	SchemaVersion int `json:"schema_version"`

	// LastVersion is the raw tag of the last successfully notified
	// release, e.g. "v4.3.0".
	LastVersion string `json:"last_version"`

	// LastCheckedAt records when the last successful run completed.
	LastCheckedAt time.Time `json:"last_checked_at"`
}

// Empty reports whether no release has been recorded yet.
func (s *VersionState) Empty() bool {
	return s.LastVersion == ""
}
