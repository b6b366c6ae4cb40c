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

// Package testutil provides common test helpers for relwatch
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// MockServer provides common mock server configurations for testing
type MockServer struct {
	*httptest.Server
	requestCount *int32
}

// Requests returns the number of requests the server has received.
func (m *MockServer) Requests() int {
	if m.requestCount == nil {
		return 0
	}
	return int(atomic.LoadInt32(m.requestCount))
}

// NewMockServer creates a basic mock server with the given handler
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	var count int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&count, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return &MockServer{Server: server, requestCount: &count}
}

// NewReleaseListServer creates a mock server that serves a GitHub-style
// release listing for any request. Releases are served in the given
// order, which the client treats as most-recent-first.
func NewReleaseListServer(t *testing.T, releases []ReleaseFixture) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(releaseListBody(releases))
	})
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	})
}

// NewTransientErrorServer creates a mock server that fails N times with
// the given status and then serves the release listing.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int, releases []ReleaseFixture) *MockServer {
	t.Helper()
	var served int32
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&served, 1) <= int32(failCount) {
			w.WriteHeader(errorCode)
			_, _ = w.Write([]byte(http.StatusText(errorCode)))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(releaseListBody(releases))
	})
}

// WebhookRecorder is a mock webhook endpoint that captures delivered
// payloads for inspection.
type WebhookRecorder struct {
	*MockServer
	payloads chan []byte
}

// Payloads drains and returns all captured payload bodies.
func (w *WebhookRecorder) Payloads() [][]byte {
	var out [][]byte
	for {
		select {
		case p := <-w.payloads:
			out = append(out, p)
		default:
			return out
		}
	}
}

// NewWebhookRecorder creates a webhook endpoint that responds with the
// given status and records every request body.
func NewWebhookRecorder(t *testing.T, statusCode int) *WebhookRecorder {
	t.Helper()
	payloads := make(chan []byte, 16)
	server := NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		select {
		case payloads <- body:
		default:
		}
		w.WriteHeader(statusCode)
	})
	return &WebhookRecorder{MockServer: server, payloads: payloads}
}
