// Copyright 2026 SirSeer, LLC
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

// Package main implements the unraidql command-line interface.
// This tool queries an Unraid server's GraphQL API and prints the
// results as indented JSON, and can run a curated set of server
// mutations (reboot, array control, user and notification management).
//
// The CLI supports:
//   - Running a named query from the built-in catalog (default: info)
//   - Running every catalog query in one pass with --query all
//   - Dispatching an arbitrary GraphQL document with --custom
//   - Data on stdout (or --output file), status and banners on stderr
//   - Automatic discovery of the myunraid.net proxy hostname, with
//     --direct to skip the probe
//   - API key authentication via the --key flag
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	unraidql --ip <server> --key <api-key> [flags]
//
// Example:
//
//	unraidql --ip 192.168.1.10 --key s3cret --query array
//	unraidql --ip 192.168.1.10 --key s3cret --reboot
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
