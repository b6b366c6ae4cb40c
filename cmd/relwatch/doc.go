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

// Command relwatch checks a GitHub repository for new releases and
// notifies a Discord webhook.
//
// Usage:
//
//	relwatch check --repo coreruleset/coreruleset --webhook-url https://discord.com/api/webhooks/...
//	relwatch check --repo coreruleset/coreruleset --output - --dry-run
//	relwatch state show --repo coreruleset/coreruleset
//	relwatch state reset --repo coreruleset/coreruleset
//
// The process exits 0 when the check completes (whether or not a
// notification was sent), and non-zero on any failure. Exit codes
// distinguish configuration errors (2), upstream failures (3), failed
// notification delivery (4), and state persistence failures (5) so an
// external scheduler can tell the cases apart.
package main
