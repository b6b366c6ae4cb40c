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

// Package state persists the last-notified release version between
// runs. The state file is the only durable artifact of the watcher:
// loading degrades gracefully (an absent or corrupt file means "never
// notified"), while saving is atomic via a write-to-temp-and-rename
// pattern so a crash mid-save can never leave a partially written file
// behind.
package state
