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

// Package output writes machine-readable check results. Each result is
// emitted as a single JSON line so downstream tooling (CI steps, log
// collectors) can consume relwatch output without parsing human prose.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Record is the machine-readable summary of a single check run.
type Record struct {
	Repository string    `json:"repository"`
	Outcome    string    `json:"outcome"`
	Tag        string    `json:"tag,omitempty"`
	Previous   string    `json:"previous,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// Writer emits check result records as JSON lines.
type Writer struct {
	encoder   *json.Encoder
	closeFunc func() error
}

// NewWriter creates a writer that emits records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: json.NewEncoder(w)}
}

// NewFileWriter creates a writer that emits records to the named file.
// The caller must call Close when done.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		encoder:   json.NewEncoder(file),
		closeFunc: file.Close,
	}, nil
}

// Write emits a single record, terminated by a newline.
func (w *Writer) Write(rec Record) error {
	if err := w.encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
