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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	relerrors "github.com/relwatch/relwatch/internal/errors"
)

// DefaultStateFilePath returns the standard path for a repository's state file.
// Repository should be in "owner/repo" format.
// Returns: ~/.relwatch/state/owner-repo.json
func DefaultStateFilePath(repository string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home directory is not accessible
		homeDir = "."
	}

	// Replace slashes with dashes for filesystem compatibility
	safeRepoName := strings.ReplaceAll(repository, "/", "-")

	return filepath.Join(homeDir, ".relwatch", "state", safeRepoName+".json")
}

// Store loads and saves the version state at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore creates a Store for the given state file path.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger.With(slog.String("component", "state-store")),
	}
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the version state from disk. It never fails: an absent,
// unreadable, or unparsable file degrades to the empty state so a first
// run or corrupted state never blocks detection. Corruption is logged.
func (s *Store) Load() *VersionState {
	empty := &VersionState{SchemaVersion: CurrentSchemaVersion}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no previous state file, treating as never notified",
				slog.String("path", s.path))
		} else {
			s.logger.Warn("state file unreadable, treating as never notified",
				slog.String("path", s.path), slog.Any("error", err))
		}
		return empty
	}

	var st VersionState
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("state file is corrupted, treating as never notified",
			slog.String("path", s.path), slog.Any("error", err))
		return empty
	}

	if st.SchemaVersion != CurrentSchemaVersion {
		s.logger.Warn("state file has incompatible schema version, treating as never notified",
			slog.String("path", s.path), slog.Int("schema_version", st.SchemaVersion))
		return empty
	}

	return &st
}

// Save atomically writes the version state to disk. It writes to a
// temporary file in the same directory, syncs it, and renames it over
// the durable file so a crash mid-save leaves the previous state
// intact. Failures wrap ErrPersistence and are fatal for the run,
// since a notification could otherwise be re-sent indefinitely.
func (s *Store) Save(st *VersionState) error {
	st.SchemaVersion = CurrentSchemaVersion

	// Ensure the directory exists
	stateDir := filepath.Dir(s.path)
	if mkdirErr := os.MkdirAll(stateDir, 0o755); mkdirErr != nil {
		return fmt.Errorf("creating state directory: %v: %w", mkdirErr, relerrors.ErrPersistence)
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshaling state: %v: %w", err, relerrors.ErrPersistence)
	}

	// Write to temporary file with restricted permissions
	tempFile := s.path + ".tmp"
	if writeErr := os.WriteFile(tempFile, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing temporary state file: %v: %w", writeErr, relerrors.ErrPersistence)
	}

	// Sync to ensure data is flushed to disk
	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("opening temp file for sync: %v: %w", err, relerrors.ErrPersistence)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("syncing temp file: %v: %w", err, relerrors.ErrPersistence)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("closing temp file: %v: %w", err, relerrors.ErrPersistence)
	}

	// Atomic rename
	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("renaming temp file: %v: %w", err, relerrors.ErrPersistence)
	}

	return nil
}

// Delete removes the state file, re-arming the notification for the
// currently recorded release. Useful for resetting to a clean state.
func (s *Store) Delete() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting state file: %v: %w", err, relerrors.ErrPersistence)
	}
	return nil
}
